package hxl

import (
	"io"
	"strings"
)

// headerScanDepth is how many leading raw rows are searched for the hashtag
// row before giving up.
const headerScanDepth = 25

// FromRaw wraps pre-parsed raw cells as a single-pass Dataset. The hashtag
// header row is located within the first rows: a row qualifies when it has at
// least one cell parsing as a tag spec ("#tag+attr") and every other
// non-empty cell parses too. The row immediately above it, if any, supplies
// the human-readable column headers.
//
// The returned Dataset honors the single-pass contract: a second Rows() call
// after the first faults with a StructuralFault. Wrap it in Cache for
// restartable iteration.
func FromRaw(cells [][]string) (Dataset, error) {
	for i := 0; i < len(cells) && i < headerScanDepth; i++ {
		spec, ok := tryTagRow(cells[i])
		if !ok {
			continue
		}
		if i > 0 {
			header := cells[i-1]
			for j := range spec {
				if j < len(header) {
					spec[j].Header = strings.TrimSpace(header[j])
				}
			}
		}
		return &rawSource{columns: spec, data: cells[i+1:], offset: i + 1}, nil
	}
	return nil, parseErrorf("", "no hashtag header row found in the first %d rows", headerScanDepth)
}

// tryTagRow attempts to read a raw row as the hashtag header row.
func tryTagRow(cells []string) (ColumnSpec, bool) {
	spec := make(ColumnSpec, len(cells))
	tagged := 0
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		col, err := NewColumn("", cell, i)
		if err != nil {
			return nil, false
		}
		if col.Tagged() {
			tagged++
		}
		spec[i] = col
	}
	if tagged == 0 {
		return nil, false
	}
	return spec, true
}

// rawSource serves data rows from a raw cell grid. Deliberately single-pass:
// external file and URL sources share the same contract, so code written
// against FromRaw behaves identically against them.
type rawSource struct {
	columns  ColumnSpec
	data     [][]string
	offset   int // source row number of the first data row
	consumed bool
}

func (s *rawSource) Columns() (ColumnSpec, error) { return s.columns, nil }

func (s *rawSource) Rows() (RowIterator, error) {
	if s.consumed {
		return nil, structuralf("single-pass source already consumed; wrap it in Cache to re-iterate")
	}
	s.consumed = true
	pos := 0
	return RowIteratorFunc(func() (*Row, error) {
		if pos >= len(s.data) {
			return nil, io.EOF
		}
		cells := s.data[pos]
		values := make([]string, len(s.columns))
		// Pad or fault: short raw rows are padded (ragged CSV input is
		// routine), but rows longer than the spec are a structural fault.
		if len(cells) > len(s.columns) {
			return nil, structuralf("source row %d has %d cells for %d columns",
				s.offset+pos, len(cells), len(s.columns))
		}
		copy(values, cells)
		row := &Row{
			Columns:         s.columns,
			Values:          values,
			RowNumber:       pos,
			SourceRowNumber: s.offset + pos,
		}
		pos++
		return row, nil
	}), nil
}

// NewSource builds a Dataset directly from a ready column spec and row
// buffer. This is the construction contract for external collaborators that
// parse their own input format.
func NewSource(columns ColumnSpec, rows []*Row) Dataset {
	return &bufferSource{columns: columns, rows: rows}
}

type bufferSource struct {
	columns  ColumnSpec
	rows     []*Row
	consumed bool
}

func (s *bufferSource) Columns() (ColumnSpec, error) { return s.columns, nil }

func (s *bufferSource) Rows() (RowIterator, error) {
	if s.consumed {
		return nil, structuralf("single-pass source already consumed; wrap it in Cache to re-iterate")
	}
	s.consumed = true
	return NewSliceIterator(s.rows), nil
}
