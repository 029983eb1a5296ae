package hxl

import "golang.org/x/sync/singleflight"

// CachedDataset materializes its upstream exactly once and then serves every
// Rows() call as a fresh, independent iteration over the buffer. It is the
// only stage that grants restartability; everything else is single-pass.
//
// The first drain is guarded by a singleflight group so concurrent or
// repeated first-access requests share one upstream pass instead of
// re-pulling the source.
type CachedDataset struct {
	source Dataset

	group   singleflight.Group
	columns ColumnSpec
	rows    []*Row
	filled  bool
}

// Cache wraps a dataset in a materializing stage.
func Cache(source Dataset) *CachedDataset {
	return &CachedDataset{source: source}
}

func (c *CachedDataset) fill() error {
	_, err, _ := c.group.Do("fill", func() (any, error) {
		if c.filled {
			return nil, nil
		}
		rows, err := ReadAll(c.source)
		if err != nil {
			return nil, err
		}
		c.rows = rows
		c.filled = true
		return nil, nil
	})
	return err
}

// Columns returns the upstream column spec. It never advances row
// iteration; the buffer is drained on the first Rows() call.
func (c *CachedDataset) Columns() (ColumnSpec, error) {
	if c.columns == nil {
		columns, err := c.source.Columns()
		if err != nil {
			return nil, err
		}
		c.columns = columns
	}
	return c.columns, nil
}

// Rows returns a fresh iteration over the cached buffer.
func (c *CachedDataset) Rows() (RowIterator, error) {
	if err := c.fill(); err != nil {
		return nil, err
	}
	return NewSliceIterator(c.rows), nil
}
