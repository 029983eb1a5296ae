// Package filters contains the composable transform operators of the
// pipeline. Each operator wraps exactly one upstream Dataset and exposes the
// same Dataset contract, so stages compose by plain wrapping and the caller
// never distinguishes a source from a filter.
//
// Buffering behavior is part of each operator's type: streaming operators
// (row/column selection, add, rename, replace, clean, explode, append) pull
// row by row; Sort and Count buffer the full upstream; Dedup buffers key
// tuples only; Merge and ReplaceMap buffer their auxiliary side only.
package filters

import (
	"io"
	"sync"

	"hxltab/pkg/hxl"
)

// columnSet memoizes a pure column-spec computation so that Columns() is
// computed once per stage and never advances row iteration.
type columnSet struct {
	once    sync.Once
	columns hxl.ColumnSpec
	err     error
}

func (c *columnSet) get(compute func() (hxl.ColumnSpec, error)) (hxl.ColumnSpec, error) {
	c.once.Do(func() { c.columns, c.err = compute() })
	return c.columns, c.err
}

// pull reads the next row from an upstream iterator and enforces the
// row/column-count invariant.
func pull(it hxl.RowIterator) (*hxl.Row, error) {
	row, err := it.Next()
	if err != nil {
		return nil, err
	}
	if err := row.Check(); err != nil {
		return nil, err
	}
	return row, nil
}

// eof is a shorthand for the end-of-sequence sentinel.
var eof = io.EOF

// Pipeline is a thin chaining facade over the operator types, for callers
// that prefer fluent composition:
//
//	out := filters.From(src).WithRows(q).Sort(keys, false).Dataset()
type Pipeline struct {
	d hxl.Dataset
}

// From starts a pipeline at the given dataset.
func From(d hxl.Dataset) Pipeline { return Pipeline{d: d} }

// Dataset returns the outermost stage of the pipeline.
func (p Pipeline) Dataset() hxl.Dataset { return p.d }

// Cache appends a materializing stage.
func (p Pipeline) Cache() Pipeline { return Pipeline{d: hxl.Cache(p.d)} }

// WithRows keeps rows matching any query.
func (p Pipeline) WithRows(queries []*hxl.Query) Pipeline {
	return Pipeline{d: &RowFilter{Source: p.d, Queries: queries}}
}

// WithoutRows drops rows matching any query.
func (p Pipeline) WithoutRows(queries []*hxl.Query) Pipeline {
	return Pipeline{d: &RowFilter{Source: p.d, Queries: queries, Invert: true}}
}

// WithColumns keeps only the columns matching the patterns.
func (p Pipeline) WithColumns(patterns hxl.PatternList) Pipeline {
	return Pipeline{d: &ColumnFilter{Source: p.d, Patterns: patterns}}
}

// WithoutColumns drops the columns matching the patterns.
func (p Pipeline) WithoutColumns(patterns hxl.PatternList) Pipeline {
	return Pipeline{d: &ColumnFilter{Source: p.d, Patterns: patterns, Invert: true}}
}

// AddColumns appends fixed-value columns.
func (p Pipeline) AddColumns(defs []ColumnDef, before bool) Pipeline {
	return Pipeline{d: &AddColumns{Source: p.d, Defs: defs, Before: before}}
}

// RenameColumns rewrites headers and tag specs of matching columns.
func (p Pipeline) RenameColumns(renames []RenameSpec) Pipeline {
	return Pipeline{d: &RenameColumns{Source: p.d, Renames: renames}}
}

// Sort appends a stable full-buffer sort stage.
func (p Pipeline) Sort(keys hxl.PatternList, reverse bool) Pipeline {
	return Pipeline{d: &Sort{Source: p.d, Keys: keys, Reverse: reverse}}
}

// Count appends a grouping/aggregation stage.
func (p Pipeline) Count(patterns hxl.PatternList, aggregators []Aggregator) Pipeline {
	return Pipeline{d: &Count{Source: p.d, Patterns: patterns, Aggregators: aggregators}}
}

// Dedup appends a first-occurrence deduplication stage.
func (p Pipeline) Dedup(patterns hxl.PatternList) Pipeline {
	return Pipeline{d: &Dedup{Source: p.d, Patterns: patterns}}
}

// Merge appends a key-based join against another dataset.
func (p Pipeline) Merge(other hxl.Dataset, keys, targets hxl.PatternList) Pipeline {
	return Pipeline{d: &Merge{Source: p.d, MergeSource: other, Keys: keys, Targets: targets}}
}

// Explode appends a wide-to-long reshaping stage.
func (p Pipeline) Explode() Pipeline {
	return Pipeline{d: &Explode{Source: p.d}}
}

// Append concatenates further datasets after the primary.
func (p Pipeline) Append(others []hxl.Dataset, addColumns bool) Pipeline {
	return Pipeline{d: &Append{Source: p.d, Others: others, AddColumns: addColumns}}
}

// Clean appends a value normalization stage.
func (p Pipeline) Clean(c Clean) Pipeline {
	c.Source = p.d
	return Pipeline{d: &c}
}
