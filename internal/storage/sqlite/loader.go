// Package sqlite persists a dataset into a local SQLite file using batched
// multi-row INSERTs inside a transaction. All columns are stored as TEXT;
// typing belongs to the pipeline, not the sink.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"hxltab/internal/storage"
	"hxltab/pkg/hxl"
)

// Config holds SQLite loader configuration.
type Config struct {
	Path      string // database file path
	Table     string // target table name
	BatchSize int    // rows per transaction (default 1000)
}

// Loader is a SQLite-backed dataset sink.
type Loader struct {
	db  *sql.DB
	cfg Config
	log zerolog.Logger
}

// NewLoader opens the database and returns a close function for cleanup.
func NewLoader(cfg Config, logger zerolog.Logger) (*Loader, func(), error) {
	if cfg.Table == "" {
		return nil, nil, fmt.Errorf("table name required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &Loader{db: db, cfg: cfg, log: logger}, func() { db.Close() }, nil
}

func ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Load creates the target table from the dataset's column spec if needed and
// drains the dataset into it. Returns the number of rows inserted.
func (l *Loader) Load(ctx context.Context, d hxl.Dataset) (int64, error) {
	columns, err := d.Columns()
	if err != nil {
		return 0, err
	}
	names := storage.ColumnNames(columns)

	defs := make([]string, len(names))
	for i, name := range names {
		defs[i] = ident(name) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident(l.cfg.Table), strings.Join(defs, ", "))
	if _, err := l.db.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	return storage.LoadBatches(ctx, d, l.cfg.BatchSize, l.log, l.copyBatch)
}

func (l *Loader) copyBatch(ctx context.Context, columns []string, rows [][]string) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	quoted := make([]string, len(columns))
	holders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = ident(c)
		holders[i] = "?"
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		ident(l.cfg.Table), strings.Join(quoted, ", "), strings.Join(holders, ", ")))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var n int64
	args := make([]any, len(columns))
	for _, row := range rows {
		for i := range args {
			args[i] = row[i]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return n, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
