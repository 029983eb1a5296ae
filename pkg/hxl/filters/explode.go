package filters

import (
	"hxltab/pkg/hxl"
)

// Explode reshapes wide data to long. Columns carrying the header attribute
// pair up, in spec order, with the columns carrying the value attribute; each
// pair is one label group. Per input row, Explode emits one output row per
// distinct label value found across the groups (first group wins on a
// duplicate label), copying all non-grouped columns unchanged, placing the
// group's label under a single label column and its value under a single
// value column. The label and value columns take the position of the first
// header and first value column, with the marker attribute stripped. A
// dataset with no label groups passes through unchanged.
//
// Streaming, with the necessary per-source-row lookahead only: one input row
// expands into a small pending queue.
type Explode struct {
	Source          hxl.Dataset
	HeaderAttribute string // default "header"
	ValueAttribute  string // default "value"

	cols       columnSet
	headerIdx  []int
	valueIdx   []int
	keepIdx    []int // non-grouped source positions, in order
	outHeader  int   // output position of the label column, -1 when no groups
	outValue   int
}

func (f *Explode) headerAttr() string {
	if f.HeaderAttribute == "" {
		return "header"
	}
	return f.HeaderAttribute
}

func (f *Explode) valueAttr() string {
	if f.ValueAttribute == "" {
		return "value"
	}
	return f.ValueAttribute
}

// stripAttribute rebuilds a column without the named attribute.
func stripAttribute(c hxl.Column, attr string) hxl.Column {
	var attrs []string
	for _, a := range c.Attributes {
		if a != attr {
			attrs = append(attrs, a)
		}
	}
	return hxl.Column{Header: c.Header, Tag: c.Tag, Attributes: attrs, Index: c.Index}
}

func (f *Explode) Columns() (hxl.ColumnSpec, error) {
	return f.cols.get(func() (hxl.ColumnSpec, error) {
		src, err := f.Source.Columns()
		if err != nil {
			return nil, err
		}
		f.headerIdx = f.headerIdx[:0]
		f.valueIdx = f.valueIdx[:0]
		for i, c := range src {
			switch {
			case c.HasAttribute(f.headerAttr()):
				f.headerIdx = append(f.headerIdx, i)
			case c.HasAttribute(f.valueAttr()):
				f.valueIdx = append(f.valueIdx, i)
			}
		}
		if len(f.headerIdx) == 0 || len(f.valueIdx) == 0 {
			// No label groups; pass through.
			f.headerIdx = nil
			f.valueIdx = nil
			f.outHeader, f.outValue = -1, -1
			return src, nil
		}
		if len(f.headerIdx) < len(f.valueIdx) {
			f.valueIdx = f.valueIdx[:len(f.headerIdx)]
		} else {
			f.headerIdx = f.headerIdx[:len(f.valueIdx)]
		}

		grouped := map[int]bool{}
		for _, i := range f.headerIdx {
			grouped[i] = true
		}
		for _, i := range f.valueIdx {
			grouped[i] = true
		}
		var out hxl.ColumnSpec
		f.keepIdx = f.keepIdx[:0]
		f.outHeader, f.outValue = -1, -1
		for i, c := range src {
			switch {
			case i == f.headerIdx[0]:
				f.outHeader = len(out)
				out = append(out, stripAttribute(c, f.headerAttr()))
			case i == f.valueIdx[0]:
				f.outValue = len(out)
				out = append(out, stripAttribute(c, f.valueAttr()))
			case grouped[i]:
				// collapsed into the label/value pair
			default:
				f.keepIdx = append(f.keepIdx, i)
				out = append(out, c)
			}
		}
		return out.Reindex(), nil
	})
}

// keepPos maps output positions back to kept source positions, accounting
// for the label and value columns interleaved among them.
func (f *Explode) expand(row *hxl.Row, columns hxl.ColumnSpec, group int, n int) *hxl.Row {
	values := make([]string, len(columns))
	keep := 0
	for pos := range values {
		switch pos {
		case f.outHeader:
			values[pos] = row.Values[f.headerIdx[group]]
		case f.outValue:
			values[pos] = row.Values[f.valueIdx[group]]
		default:
			values[pos] = row.Values[f.keepIdx[keep]]
			keep++
		}
	}
	return &hxl.Row{
		Columns:         columns,
		Values:          values,
		RowNumber:       n,
		SourceRowNumber: row.SourceRowNumber,
	}
}

func (f *Explode) Rows() (hxl.RowIterator, error) {
	columns, err := f.Columns()
	if err != nil {
		return nil, err
	}
	it, err := f.Source.Rows()
	if err != nil {
		return nil, err
	}
	if f.outHeader < 0 {
		return it, nil
	}
	var pending []*hxl.Row
	n := 0
	return hxl.RowIteratorFunc(func() (*hxl.Row, error) {
		for {
			if len(pending) > 0 {
				row := pending[0]
				pending = pending[1:]
				return row, nil
			}
			row, err := pull(it)
			if err != nil {
				return nil, err
			}
			seen := map[string]bool{}
			for g := range f.headerIdx {
				label := row.Values[f.headerIdx[g]]
				if seen[label] {
					continue
				}
				seen[label] = true
				pending = append(pending, f.expand(row, columns, g, n))
				n++
			}
		}
	}), nil
}
