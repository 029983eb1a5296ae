package filters

import "hxltab/pkg/hxl"

// ColumnFilter narrows the column spec to the patterns (or their complement
// when Invert is set) and slices row values to match. Streaming; the new
// spec is computed eagerly and preserves upstream order.
type ColumnFilter struct {
	Source   hxl.Dataset
	Patterns hxl.PatternList
	Invert   bool // drop matching columns instead of keeping them

	cols    columnSet
	indices []int
}

func (f *ColumnFilter) Columns() (hxl.ColumnSpec, error) {
	return f.cols.get(func() (hxl.ColumnSpec, error) {
		src, err := f.Source.Columns()
		if err != nil {
			return nil, err
		}
		matched := map[int]bool{}
		for _, i := range f.Patterns.Indices(src) {
			matched[i] = true
		}
		var out hxl.ColumnSpec
		f.indices = f.indices[:0]
		for i, c := range src {
			if matched[i] != f.Invert {
				f.indices = append(f.indices, i)
				out = append(out, c)
			}
		}
		return out.Reindex(), nil
	})
}

func (f *ColumnFilter) Rows() (hxl.RowIterator, error) {
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
		values := make([]string, len(f.indices))
		for j, i := range f.indices {
			values[j] = row.Values[i]
		}
		return &hxl.Row{
			Columns:         columns,
			Values:          values,
			RowNumber:       row.RowNumber,
			SourceRowNumber: row.SourceRowNumber,
		}, nil
	}), nil
}
