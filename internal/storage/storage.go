// Package storage contains storage-agnostic contracts and utilities for
// persisting a processed dataset: SQL identifier derivation from column
// specs and a generic batched loader that drains a dataset and invokes a
// backend's bulk-insert function per batch.
//
// Backends (SQLite, Postgres) implement CopyFn with their most efficient
// primitive (multi-row INSERT in a transaction, COPY).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hxltab/pkg/hxl"
)

// CopyFn abstracts a backend's bulk insert. Implementations insert the rows
// (aligned to the columns order) and return the number inserted. They should
// cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]string) (int64, error)

// ColumnNames derives SQL identifiers from a column spec: "#org+impl"
// becomes org_impl, untagged columns become col_N, and duplicates get a
// numeric suffix so the result is usable as a column list.
func ColumnNames(spec hxl.ColumnSpec) []string {
	names := make([]string, len(spec))
	seen := map[string]int{}
	for i, c := range spec {
		name := "col_" + fmt.Sprint(i)
		if c.Tagged() {
			name = strings.TrimPrefix(c.Tag, "#")
			if len(c.Attributes) > 0 {
				name += "_" + strings.Join(c.Attributes, "_")
			}
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}

// LoadBatches drains the dataset once, groups rows into batches of
// batchSize, and calls copyFn per non-empty batch. Progress is logged per
// flush with running totals and instantaneous rows/sec.
func LoadBatches(ctx context.Context, d hxl.Dataset, batchSize int, logger zerolog.Logger, copyFn CopyFn) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	columns, err := d.Columns()
	if err != nil {
		return 0, err
	}
	names := ColumnNames(columns)
	it, err := d.Rows()
	if err != nil {
		return 0, err
	}

	var (
		total     int64
		batches   int64
		batch     = make([][]string, 0, batchSize)
		start     = time.Now()
		lastFlush = start
		lastTotal int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, names, batch)
		total += n
		batch = batch[:0]
		if err != nil {
			logger.Error().Err(err).Int64("total", total).Msg("bulk insert failed")
			return err
		}
		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlush)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		logger.Info().
			Int64("batch", batches).
			Int64("inserted", n).
			Int64("total", total).
			Float64("rps", rps).
			Dur("elapsed", now.Sub(start)).
			Msg("flush")
		lastFlush = now
		lastTotal = total
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}
		row, err := it.Next()
		if err == io.EOF {
			if err := flush(); err != nil {
				return total, err
			}
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if err := row.Check(); err != nil {
			return total, err
		}
		batch = append(batch, row.Values)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
}
