package filters

import (
	"strings"

	"github.com/zeebo/xxh3"

	"hxltab/pkg/hxl"
)

// Dedup emits only the first occurrence per key, where the key is the tuple
// of values selected by Patterns (or the whole row when no pattern is
// supplied). The optional Mask scopes the filter the same way as RowFilter:
// rows outside the mask pass through without consuming key space.
//
// Only xxh3 hashes of the key tuples are buffered, not whole rows; relative
// order of surviving rows is preserved.
type Dedup struct {
	Source   hxl.Dataset
	Patterns hxl.PatternList
	Mask     []*hxl.Query
}

func (f *Dedup) Columns() (hxl.ColumnSpec, error) {
	return f.Source.Columns()
}

func (f *Dedup) key(row *hxl.Row) uint64 {
	var b strings.Builder
	if len(f.Patterns) == 0 {
		for i, v := range row.Values {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(v)
		}
	} else {
		for i, c := range row.Columns {
			if !f.Patterns.Match(c) {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(row.Values[i])
		}
	}
	return xxh3.HashString(b.String())
}

func (f *Dedup) Rows() (hxl.RowIterator, error) {
	it, err := f.Source.Rows()
	if err != nil {
		return nil, err
	}
	seen := map[uint64]struct{}{}
	n := 0
	return hxl.RowIteratorFunc(func() (*hxl.Row, error) {
		for {
			row, err := pull(it)
			if err != nil {
				return nil, err
			}
			if hxl.MatchAny(f.Mask, row) {
				k := f.key(row)
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
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
