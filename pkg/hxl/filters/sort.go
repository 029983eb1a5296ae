package filters

import (
	"sort"
	"strings"
	"sync"

	"hxltab/pkg/hxl"
)

// Sort is a stable full-buffer sort keyed by the first matching column per
// key pattern per row. Each key is compared numerically when both values
// coerce, falling back to string comparison; ties are broken by original row
// order. Reverse negates the final ordering, not individual keys. With no
// keys, rows sort by all column values in spec order.
//
// Sort buffers the complete upstream internally on first pull; it never
// re-pulls the upstream for a second pass.
type Sort struct {
	Source  hxl.Dataset
	Keys    hxl.PatternList
	Reverse bool

	once sync.Once
	rows []*hxl.Row
	err  error
}

func (f *Sort) Columns() (hxl.ColumnSpec, error) {
	return f.Source.Columns()
}

// compareKey orders two values: numeric when both parse, else string.
func compareKey(a, b string) int {
	na, errA := hxl.ParseNumber(a)
	nb, errB := hxl.ParseNumber(b)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func (f *Sort) compare(a, b *hxl.Row) int {
	if len(f.Keys) == 0 {
		for i := range a.Values {
			if i >= len(b.Values) {
				break
			}
			if c := compareKey(a.Values[i], b.Values[i]); c != 0 {
				return c
			}
		}
		return 0
	}
	for _, key := range f.Keys {
		va, _ := a.Get(key)
		vb, _ := b.Get(key)
		if c := compareKey(va, vb); c != 0 {
			return c
		}
	}
	return 0
}

func (f *Sort) buffer() error {
	f.once.Do(func() {
		rows, err := hxl.ReadAll(f.Source)
		if err != nil {
			f.err = err
			return
		}
		sort.SliceStable(rows, func(i, j int) bool {
			c := f.compare(rows[i], rows[j])
			if f.Reverse {
				return c > 0
			}
			return c < 0
		})
		out := make([]*hxl.Row, len(rows))
		for i, row := range rows {
			out[i] = &hxl.Row{
				Columns:         row.Columns,
				Values:          row.Values,
				RowNumber:       i,
				SourceRowNumber: row.SourceRowNumber,
			}
		}
		f.rows = out
	})
	return f.err
}

func (f *Sort) Rows() (hxl.RowIterator, error) {
	if err := f.buffer(); err != nil {
		return nil, err
	}
	return hxl.NewSliceIterator(f.rows), nil
}
