package filters

import (
	"regexp"
	"strings"
	"sync"

	"hxltab/pkg/hxl"
)

// Replace substitutes matching values, optionally scoped to the columns
// matching Patterns and to rows matching Queries. Literal replacement
// rewrites every occurrence of the original substring; regex replacement
// supports $1-style group references. Streaming.
type Replace struct {
	Source      hxl.Dataset
	Original    string
	Replacement string
	Patterns    hxl.PatternList // nil = all columns
	Queries     []*hxl.Query    // nil = all rows

	re *regexp.Regexp
}

// NewReplace builds a Replace stage. With useRegex set the original is
// compiled here; a bad expression is a ParseError at construction, never at
// row time.
func NewReplace(source hxl.Dataset, original, replacement string, useRegex bool) (*Replace, error) {
	f := &Replace{Source: source, Original: original, Replacement: replacement}
	if useRegex {
		re, err := regexp.Compile(original)
		if err != nil {
			return nil, &hxl.ParseError{Message: "bad replacement pattern: " + err.Error(), Input: original}
		}
		f.re = re
	}
	return f, nil
}

func (f *Replace) Columns() (hxl.ColumnSpec, error) {
	return f.Source.Columns()
}

func (f *Replace) apply(value string) string {
	if f.re != nil {
		return f.re.ReplaceAllString(value, f.Replacement)
	}
	return strings.ReplaceAll(value, f.Original, f.Replacement)
}

func (f *Replace) Rows() (hxl.RowIterator, error) {
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
			if f.Patterns == nil || f.Patterns.Match(columns[i]) {
				v = f.apply(v)
			}
			values[i] = v
		}
		return &hxl.Row{
			Columns:         columns,
			Values:          values,
			RowNumber:       row.RowNumber,
			SourceRowNumber: row.SourceRowNumber,
		}, nil
	}), nil
}

// ReplaceMap substitutes values through an exact-match dictionary built once
// from a two-column (original, replacement) auxiliary dataset. Only the map
// source is buffered; the primary stream stays single-pass.
type ReplaceMap struct {
	Source    hxl.Dataset
	MapSource hxl.Dataset
	Patterns  hxl.PatternList
	Queries   []*hxl.Query

	once  sync.Once
	table map[string]string
	err   error
}

func (f *ReplaceMap) Columns() (hxl.ColumnSpec, error) {
	return f.Source.Columns()
}

func (f *ReplaceMap) build() error {
	f.once.Do(func() {
		columns, err := f.MapSource.Columns()
		if err != nil {
			f.err = err
			return
		}
		if len(columns) < 2 {
			f.err = &hxl.StructuralFault{Message: "replacement map needs two columns (original, replacement)"}
			return
		}
		rows, err := hxl.ReadAll(f.MapSource)
		if err != nil {
			f.err = err
			return
		}
		f.table = make(map[string]string, len(rows))
		for _, row := range rows {
			f.table[row.Values[0]] = row.Values[1]
		}
	})
	return f.err
}

func (f *ReplaceMap) Rows() (hxl.RowIterator, error) {
	columns, err := f.Columns()
	if err != nil {
		return nil, err
	}
	if err := f.build(); err != nil {
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
			if f.Patterns == nil || f.Patterns.Match(columns[i]) {
				if repl, ok := f.table[v]; ok {
					v = repl
				}
			}
			values[i] = v
		}
		return &hxl.Row{
			Columns:         columns,
			Values:          values,
			RowNumber:       row.RowNumber,
			SourceRowNumber: row.SourceRowNumber,
		}, nil
	}), nil
}
