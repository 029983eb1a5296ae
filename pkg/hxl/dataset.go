package hxl

import "io"

// Dataset is the lazy tabular stream consumed and produced by every pipeline
// stage. Columns() is pure: inspecting it never advances row iteration.
// Rows() produces a finite, forward-only row sequence terminated by io.EOF.
//
// A Dataset is single-pass unless it is a materializing variant (see Cache):
// requesting Rows() from an exhausted single-pass Dataset faults loudly with
// a StructuralFault instead of silently re-reading the source.
type Dataset interface {
	Columns() (ColumnSpec, error)
	Rows() (RowIterator, error)
}

// RowIterator pulls rows one at a time. Next returns io.EOF after the final
// row. Any other error aborts the iteration.
type RowIterator interface {
	Next() (*Row, error)
}

// RowIteratorFunc adapts a function to the RowIterator interface.
type RowIteratorFunc func() (*Row, error)

// Next calls f.
func (f RowIteratorFunc) Next() (*Row, error) { return f() }

// ReadAll drains a dataset into memory. Filters that must buffer their
// upstream (sort, count, merge side) use this rather than re-pulling.
func ReadAll(d Dataset) ([]*Row, error) {
	it, err := d.Rows()
	if err != nil {
		return nil, err
	}
	var rows []*Row
	for {
		row, err := it.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if err := row.Check(); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// sliceIterator iterates an in-memory row buffer. Each instance is an
// independent, restartable-by-construction pass over the same rows.
type sliceIterator struct {
	rows []*Row
	pos  int
}

func (it *sliceIterator) Next() (*Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	row := it.rows[it.pos]
	it.pos++
	return row, nil
}

// NewSliceIterator wraps an in-memory row slice as a RowIterator.
func NewSliceIterator(rows []*Row) RowIterator {
	return &sliceIterator{rows: rows}
}
