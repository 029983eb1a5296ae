package filters

import (
	"strings"

	"hxltab/pkg/hxl"
)

// ColumnDef describes one fixed-value column to add: header text, a tag spec
// such as "#date+reported", and the constant value every row receives.
type ColumnDef struct {
	Header  string
	TagSpec string
	Value   string
}

// ParseColumnDef parses the compact form "Header text#tag+attr=value".
// Header and value are optional: "#tag=value" and "#tag" are accepted.
func ParseColumnDef(s string) (ColumnDef, error) {
	hash := strings.Index(s, "#")
	if hash < 0 {
		return ColumnDef{}, &hxl.ParseError{Message: "column spec has no hashtag", Input: s}
	}
	def := ColumnDef{Header: strings.TrimSpace(s[:hash])}
	rest := s[hash:]
	if eq := strings.Index(rest, "="); eq >= 0 {
		def.Value = rest[eq+1:]
		rest = rest[:eq]
	}
	def.TagSpec = rest
	if _, err := hxl.NewColumn(def.Header, def.TagSpec, 0); err != nil {
		return ColumnDef{}, err
	}
	return def, nil
}

// AddColumns appends (or prepends, with Before) fixed-value columns to every
// row and to the column spec. Streaming.
type AddColumns struct {
	Source hxl.Dataset
	Defs   []ColumnDef
	Before bool

	cols columnSet
}

func (f *AddColumns) added() (hxl.ColumnSpec, error) {
	var out hxl.ColumnSpec
	for _, def := range f.Defs {
		c, err := hxl.NewColumn(def.Header, def.TagSpec, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *AddColumns) Columns() (hxl.ColumnSpec, error) {
	return f.cols.get(func() (hxl.ColumnSpec, error) {
		src, err := f.Source.Columns()
		if err != nil {
			return nil, err
		}
		added, err := f.added()
		if err != nil {
			return nil, err
		}
		if f.Before {
			return append(append(hxl.ColumnSpec{}, added...), src...).Reindex(), nil
		}
		return append(append(hxl.ColumnSpec{}, src...), added...).Reindex(), nil
	})
}

func (f *AddColumns) Rows() (hxl.RowIterator, error) {
	columns, err := f.Columns()
	if err != nil {
		return nil, err
	}
	it, err := f.Source.Rows()
	if err != nil {
		return nil, err
	}
	fixed := make([]string, len(f.Defs))
	for i, def := range f.Defs {
		fixed[i] = def.Value
	}
	return hxl.RowIteratorFunc(func() (*hxl.Row, error) {
		row, err := pull(it)
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, len(columns))
		if f.Before {
			values = append(append(values, fixed...), row.Values...)
		} else {
			values = append(append(values, row.Values...), fixed...)
		}
		return &hxl.Row{
			Columns:         columns,
			Values:          values,
			RowNumber:       row.RowNumber,
			SourceRowNumber: row.SourceRowNumber,
		}, nil
	}), nil
}
