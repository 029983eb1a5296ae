package filters

import (
	"strings"

	"hxltab/pkg/hxl"
)

// RenameSpec rewrites the header text and/or tag spec of columns matching
// Pattern. An empty Header keeps the existing header text.
type RenameSpec struct {
	Pattern hxl.TagPattern
	TagSpec string
	Header  string
}

// ParseRenameSpec parses the compact form "#pattern:New header#newtag+attr".
// The header segment is optional: "#pattern:#newtag" keeps the old header.
func ParseRenameSpec(s string) (RenameSpec, error) {
	colon := strings.Index(s, ":")
	if colon < 0 {
		return RenameSpec{}, &hxl.ParseError{Message: "rename spec has no ':'", Input: s}
	}
	pattern, err := hxl.ParsePattern(s[:colon])
	if err != nil {
		return RenameSpec{}, err
	}
	rest := s[colon+1:]
	hash := strings.Index(rest, "#")
	if hash < 0 {
		return RenameSpec{}, &hxl.ParseError{Message: "rename spec has no replacement hashtag", Input: s}
	}
	spec := RenameSpec{
		Pattern: pattern,
		Header:  strings.TrimSpace(rest[:hash]),
		TagSpec: rest[hash:],
	}
	if _, err := hxl.NewColumn("", spec.TagSpec, 0); err != nil {
		return RenameSpec{}, err
	}
	return spec, nil
}

// RenameColumns rewrites headers and tag specs of matching columns without
// reordering them. The first matching spec wins per column. Streaming.
type RenameColumns struct {
	Source  hxl.Dataset
	Renames []RenameSpec

	cols columnSet
}

func (f *RenameColumns) Columns() (hxl.ColumnSpec, error) {
	return f.cols.get(func() (hxl.ColumnSpec, error) {
		src, err := f.Source.Columns()
		if err != nil {
			return nil, err
		}
		out := make(hxl.ColumnSpec, len(src))
		for i, c := range src {
			out[i] = c
			for _, r := range f.Renames {
				if !r.Pattern.Match(c) {
					continue
				}
				header := r.Header
				if header == "" {
					header = c.Header
				}
				renamed, err := hxl.NewColumn(header, r.TagSpec, i)
				if err != nil {
					return nil, err
				}
				out[i] = renamed
				break
			}
		}
		return out, nil
	})
}

func (f *RenameColumns) Rows() (hxl.RowIterator, error) {
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
		return &hxl.Row{
			Columns:         columns,
			Values:          row.Values,
			RowNumber:       row.RowNumber,
			SourceRowNumber: row.SourceRowNumber,
		}, nil
	}), nil
}
