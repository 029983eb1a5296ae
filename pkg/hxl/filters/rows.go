package filters

import "hxltab/pkg/hxl"

// RowFilter keeps or drops rows by the OR of the supplied queries. The
// optional Mask limits where the filter applies: a row not matching the mask
// queries passes through unfiltered. Streaming; column spec unchanged.
type RowFilter struct {
	Source  hxl.Dataset
	Queries []*hxl.Query
	Invert  bool // drop matching rows instead of keeping them
	Mask    []*hxl.Query
}

func (f *RowFilter) Columns() (hxl.ColumnSpec, error) {
	return f.Source.Columns()
}

func (f *RowFilter) Rows() (hxl.RowIterator, error) {
	it, err := f.Source.Rows()
	if err != nil {
		return nil, err
	}
	n := 0
	return hxl.RowIteratorFunc(func() (*hxl.Row, error) {
		for {
			row, err := pull(it)
			if err != nil {
				return nil, err
			}
			keep := true
			if hxl.MatchAny(f.Mask, row) {
				keep = hxl.MatchAny(f.Queries, row)
				if f.Invert {
					keep = !keep
				}
			}
			if !keep {
				continue
			}
			out := &hxl.Row{
				Columns:         row.Columns,
				Values:          row.Values,
				RowNumber:       n,
				SourceRowNumber: row.SourceRowNumber,
			}
			n++
			return out, nil
		}
	}), nil
}
