package filters

import (
	"strings"

	"hxltab/pkg/hxl"
)

// Append concatenates one or more further datasets after the primary. With
// AddColumns unset, appended rows align positionally against the primary
// spec; with it set, the output spec is the tag-pattern union of all inputs
// and rows align by display tag, unmatched columns filled empty. The
// optional Queries restrict which rows from the appended sources are
// included; primary rows always pass. Streaming, sequential over inputs.
type Append struct {
	Source     hxl.Dataset
	Others     []hxl.Dataset
	AddColumns bool
	Queries    []*hxl.Query

	cols columnSet
}

func (f *Append) Columns() (hxl.ColumnSpec, error) {
	return f.cols.get(func() (hxl.ColumnSpec, error) {
		out, err := f.Source.Columns()
		if err != nil {
			return nil, err
		}
		out = append(hxl.ColumnSpec{}, out...)
		if !f.AddColumns {
			return out.Reindex(), nil
		}
		present := map[string]bool{}
		for _, c := range out {
			if c.Tagged() {
				present[c.DisplayTag()] = true
			}
		}
		for _, other := range f.Others {
			cols, err := other.Columns()
			if err != nil {
				return nil, err
			}
			for _, c := range cols {
				if !c.Tagged() || present[c.DisplayTag()] {
					continue
				}
				present[c.DisplayTag()] = true
				out = append(out, c)
			}
		}
		return out.Reindex(), nil
	})
}

// alignment maps each output position to a source position in ds, or -1.
func (f *Append) alignment(columns hxl.ColumnSpec, ds hxl.Dataset) ([]int, error) {
	cols, err := ds.Columns()
	if err != nil {
		return nil, err
	}
	mapping := make([]int, len(columns))
	if !f.AddColumns {
		for i := range mapping {
			if i < len(cols) {
				mapping[i] = i
			} else {
				mapping[i] = -1
			}
		}
		return mapping, nil
	}
	used := make([]bool, len(cols))
	for i, out := range columns {
		mapping[i] = -1
		if !out.Tagged() {
			continue
		}
		want := strings.ToLower(out.DisplayTag())
		for j, c := range cols {
			if !used[j] && strings.ToLower(c.DisplayTag()) == want {
				mapping[i] = j
				used[j] = true
				break
			}
		}
	}
	return mapping, nil
}

func (f *Append) Rows() (hxl.RowIterator, error) {
	columns, err := f.Columns()
	if err != nil {
		return nil, err
	}
	primary, err := f.Source.Rows()
	if err != nil {
		return nil, err
	}
	primaryMap, err := f.alignment(columns, f.Source)
	if err != nil {
		return nil, err
	}

	var (
		current        = primary
		mapping        = primaryMap
		isPrimary      = true
		nextSource     = 0
		n          int = 0
	)
	advance := func() error {
		if nextSource >= len(f.Others) {
			return eof
		}
		ds := f.Others[nextSource]
		nextSource++
		it, err := ds.Rows()
		if err != nil {
			return err
		}
		m, err := f.alignment(columns, ds)
		if err != nil {
			return err
		}
		current, mapping, isPrimary = it, m, false
		return nil
	}

	return hxl.RowIteratorFunc(func() (*hxl.Row, error) {
		for {
			row, err := pull(current)
			if err == eof {
				if err := advance(); err != nil {
					return nil, err
				}
				continue
			}
			if err != nil {
				return nil, err
			}
			if !isPrimary && !hxl.MatchAny(f.Queries, row) {
				continue
			}
			values := make([]string, len(columns))
			for i, j := range mapping {
				if j >= 0 && j < len(row.Values) {
					values[i] = row.Values[j]
				}
			}
			out := &hxl.Row{
				Columns:         columns,
				Values:          values,
				RowNumber:       n,
				SourceRowNumber: row.SourceRowNumber,
			}
			n++
			return out, nil
		}
	}), nil
}
