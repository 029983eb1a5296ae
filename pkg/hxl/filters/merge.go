package filters

import (
	"strings"
	"sync"

	"hxltab/pkg/hxl"
)

// Merge is a key-based join: it fully buffers a lookup built from
// MergeSource, keyed by the value tuple selected by Keys, then copies the
// Targets values onto each primary row sharing the same key tuple. The
// primary stream stays single-pass.
//
// Duplicate merge keys are last-wins by default; KeepFirst flips that, and
// RequireUnique turns a duplicate into a StructuralFault. A primary row with
// no lookup hit keeps appended target columns empty; with Replace set,
// targets matching an existing primary column are written in place on a hit
// and left untouched on a miss.
type Merge struct {
	Source        hxl.Dataset
	MergeSource   hxl.Dataset
	Keys          hxl.PatternList
	Targets       hxl.PatternList
	Replace       bool
	KeepFirst     bool
	RequireUnique bool

	cols      columnSet
	targetPos []int // output position per target

	lookupOnce sync.Once
	lookup     map[string][]string
	lookupErr  error
}

func (f *Merge) Columns() (hxl.ColumnSpec, error) {
	return f.cols.get(func() (hxl.ColumnSpec, error) {
		src, err := f.Source.Columns()
		if err != nil {
			return nil, err
		}
		mergeCols, err := f.MergeSource.Columns()
		if err != nil {
			return nil, err
		}
		out := append(hxl.ColumnSpec{}, src...)
		f.targetPos = make([]int, len(f.Targets))
		for i, target := range f.Targets {
			f.targetPos[i] = -1
			if f.Replace {
				for j, c := range src {
					if target.Match(c) {
						f.targetPos[i] = j
						break
					}
				}
				if f.targetPos[i] >= 0 {
					continue
				}
			}
			spec, header := target.TagSpec(), ""
			if matched := (hxl.PatternList{target}).Select(mergeCols); len(matched) > 0 {
				spec = matched[0].DisplayTag()
				header = matched[0].Header
			}
			c, err := hxl.NewColumn(header, spec, 0)
			if err != nil {
				return nil, err
			}
			f.targetPos[i] = len(out)
			out = append(out, c)
		}
		return out.Reindex(), nil
	})
}

func keyTuple(row *hxl.Row, keys hxl.PatternList) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := row.Get(k)
		parts[i] = strings.TrimSpace(strings.ToLower(v))
	}
	return strings.Join(parts, "\x1f")
}

func (f *Merge) buildLookup() error {
	f.lookupOnce.Do(func() {
		rows, err := hxl.ReadAll(f.MergeSource)
		if err != nil {
			f.lookupErr = err
			return
		}
		f.lookup = make(map[string][]string, len(rows))
		for _, row := range rows {
			key := keyTuple(row, f.Keys)
			if _, exists := f.lookup[key]; exists {
				if f.RequireUnique {
					f.lookupErr = &hxl.StructuralFault{
						Message: "duplicate merge key " + strings.ReplaceAll(key, "\x1f", "|"),
					}
					return
				}
				if f.KeepFirst {
					continue
				}
			}
			values := make([]string, len(f.Targets))
			for i, target := range f.Targets {
				values[i], _ = row.Get(target)
			}
			f.lookup[key] = values
		}
	})
	return f.lookupErr
}

func (f *Merge) Rows() (hxl.RowIterator, error) {
	columns, err := f.Columns()
	if err != nil {
		return nil, err
	}
	if err := f.buildLookup(); err != nil {
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
		values := make([]string, len(columns))
		copy(values, row.Values)
		hit, ok := f.lookup[keyTuple(row, f.Keys)]
		for i, pos := range f.targetPos {
			if ok {
				values[pos] = hit[i]
			}
			// A miss leaves appended targets empty and replaced targets as
			// they were.
		}
		return &hxl.Row{
			Columns:         columns,
			Values:          values,
			RowNumber:       row.RowNumber,
			SourceRowNumber: row.SourceRowNumber,
		}, nil
	}), nil
}
