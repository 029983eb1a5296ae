// Package postgres persists a dataset into Postgres using pgx v5 COPY.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"hxltab/internal/storage"
	"hxltab/pkg/hxl"
)

// Config holds Postgres loader configuration.
type Config struct {
	DSN       string // connection string for pgxpool
	Table     string // target table name, optionally schema-qualified
	BatchSize int    // rows per COPY (default 5000)
}

// Loader is a Postgres-backed dataset sink.
type Loader struct {
	pool *pgxpool.Pool
	cfg  Config
	log  zerolog.Logger
}

// NewLoader constructs a Loader and returns a close function for cleanup.
func NewLoader(ctx context.Context, cfg Config, logger zerolog.Logger) (*Loader, func(), error) {
	if cfg.Table == "" {
		return nil, nil, fmt.Errorf("table name required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5000
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Loader{pool: pool, cfg: cfg, log: logger}, func() { pool.Close() }, nil
}

func pgIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// tableIdent quotes a possibly schema-qualified table name.
func tableIdent(name string) string {
	parts := strings.SplitN(name, ".", 2)
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// Load creates the target table from the dataset's column spec if needed and
// COPYs the dataset into it. Returns the number of rows inserted.
func (l *Loader) Load(ctx context.Context, d hxl.Dataset) (int64, error) {
	columns, err := d.Columns()
	if err != nil {
		return 0, err
	}
	names := storage.ColumnNames(columns)

	defs := make([]string, len(names))
	for i, name := range names {
		defs[i] = pgIdent(name) + " text"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableIdent(l.cfg.Table), strings.Join(defs, ", "))
	if _, err := l.pool.Exec(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	return storage.LoadBatches(ctx, d, l.cfg.BatchSize, l.log, l.copyBatch)
}

func (l *Loader) copyBatch(ctx context.Context, columns []string, rows [][]string) (int64, error) {
	src := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		src[i] = vals
	}
	table := pgx.Identifier(strings.Split(l.cfg.Table, "."))
	return l.pool.CopyFrom(ctx, table, columns, pgx.CopyFromRows(src))
}
