// hxl2sql loads a hashtag-tagged dataset into a SQL table. Column names are
// derived from the tag specs; all columns are TEXT.
//
//	hxl2sql -driver sqlite -dsn data.db -table operations data.csv
//	hxl2sql -driver postgres -dsn 'postgres://user@host/db' -table operations data.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"hxltab/internal/hxlio"
	"hxltab/internal/storage/postgres"
	"hxltab/internal/storage/sqlite"
	"hxltab/pkg/hxl"
)

var (
	flagDriver = flag.String("driver", "sqlite", "storage backend: sqlite or postgres")
	flagDSN    = flag.String("dsn", "", "sqlite file path or postgres connection string (required)")
	flagTable  = flag.String("table", "", "target table name (required)")
	flagBatch  = flag.Int("batch", 0, "rows per batch (0 uses the backend default)")
	flagDelim  = flag.String("delimiter", ",", "CSV field delimiter (single character)")
	flagQuiet  = flag.Bool("quiet", false, "log warnings and errors only")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fatalf("usage: hxl2sql [flags] <file-or-url>")
	}
	if *flagDSN == "" || *flagTable == "" {
		fatalf("-dsn and -table are required")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if *flagQuiet {
		logger = logger.Level(zerolog.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt := hxlio.DefaultOptions()
	if *flagDelim != "" {
		opt.Delimiter = rune((*flagDelim)[0])
	}
	source, err := hxlio.Open(ctx, flag.Arg(0), opt)
	if err != nil {
		fatalf("open input: %v", err)
	}

	start := time.Now()
	var total int64
	switch *flagDriver {
	case "sqlite":
		total, err = loadSQLite(ctx, source, logger)
	case "postgres":
		total, err = loadPostgres(ctx, source, logger)
	default:
		fatalf("unknown driver %q", *flagDriver)
	}
	if err != nil {
		logger.Error().Err(err).Int64("rows", total).Msg("load failed")
		os.Exit(1)
	}
	logger.Info().
		Int64("rows", total).
		Str("table", *flagTable).
		Dur("elapsed", time.Since(start)).
		Msg("load complete")
}

func loadSQLite(ctx context.Context, d hxl.Dataset, logger zerolog.Logger) (int64, error) {
	loader, closeDB, err := sqlite.NewLoader(sqlite.Config{
		Path:      *flagDSN,
		Table:     *flagTable,
		BatchSize: *flagBatch,
	}, logger)
	if err != nil {
		return 0, err
	}
	defer closeDB()
	return loader.Load(ctx, d)
}

func loadPostgres(ctx context.Context, d hxl.Dataset, logger zerolog.Logger) (int64, error) {
	loader, closePool, err := postgres.NewLoader(ctx, postgres.Config{
		DSN:       *flagDSN,
		Table:     *flagTable,
		BatchSize: *flagBatch,
	}, logger)
	if err != nil {
		return 0, err
	}
	defer closePool()
	return loader.Load(ctx, d)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
