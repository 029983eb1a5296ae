package filters

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"hxltab/pkg/hxl"
)

// Clean normalizes values in place, per matching column: Whitespace trims,
// collapses runs, and applies Unicode NFC; Upper and Lower case-fold; Dates
// rewrites recognized date strings to ISO form; Numbers rewrites numeric
// strings to canonical decimal form. Values that do not parse are left
// unchanged. The optional Queries scope the whole stage to matching rows.
// Streaming.
type Clean struct {
	Source     hxl.Dataset
	Whitespace hxl.PatternList
	Upper      hxl.PatternList
	Lower      hxl.PatternList
	Dates      hxl.PatternList
	Numbers    hxl.PatternList
	Queries    []*hxl.Query
}

func (f *Clean) Columns() (hxl.ColumnSpec, error) {
	return f.Source.Columns()
}

func (f *Clean) cleanValue(c hxl.Column, v string) string {
	if f.Whitespace.Match(c) {
		v = norm.NFC.String(hxl.NormalizeWhitespace(v))
	}
	if f.Upper.Match(c) {
		v = strings.ToUpper(v)
	}
	if f.Lower.Match(c) {
		v = strings.ToLower(v)
	}
	if f.Dates.Match(c) {
		v, _ = hxl.NormalizeDate(v)
	}
	if f.Numbers.Match(c) {
		v, _ = hxl.NormalizeNumber(v)
	}
	return v
}

func (f *Clean) Rows() (hxl.RowIterator, error) {
	columns, err := f.Columns()
	if err != nil {
		return nil, err
	}
	it, err := f.Source.Rows()
	if err != nil {
		return nil, err
	}
	return hxl.RowIteratorFunc(func() (*hxl.Row, error) {
		row, err := pull(it)
		if err != nil {
			return nil, err
		}
		if !hxl.MatchAny(f.Queries, row) {
			return row, nil
		}
		values := make([]string, len(row.Values))
		for i, v := range row.Values {
			values[i] = f.cleanValue(columns[i], v)
		}
		return &hxl.Row{
			Columns:         columns,
			Values:          values,
			RowNumber:       row.RowNumber,
			SourceRowNumber: row.SourceRowNumber,
		}, nil
	}), nil
}
