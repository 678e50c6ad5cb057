// Command salesctl loads the sales CSV into the configured store and exports
// matching records as JSON lines.
//
//	salesctl import [-file sales.csv]
//	salesctl export [-from csv|store] [-region North -region South ...] [-sort date -order asc] [-out file]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"salesdesk/internal/apperror"
	"salesdesk/internal/config"
	"salesdesk/internal/dataset"
	"salesdesk/internal/database"
	"salesdesk/internal/observability"
	"salesdesk/internal/query"
	"salesdesk/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "import":
		err = runImport(ctx, cfg, logger, os.Args[2:])
	case "export":
		err = runExport(ctx, cfg, logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("salesctl failed", "command", os.Args[1], "error", err)
		if errors.Is(err, apperror.ErrValidation) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: salesctl <import|export> [flags]")
}

func runImport(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", cfg.Dataset.CSVPath, "CSV file to load")
	batch := fs.Int("batch", cfg.Dataset.BatchSize, "rows per insert statement")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	if cfg.DataSource == config.SourceCSV {
		return fmt.Errorf("%w: DATA_SOURCE=csv has no store to import into", apperror.ErrValidation)
	}

	db, err := database.NewConnection(cfg.DataSource, cfg.Database, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	importer := dataset.NewImporter(repository.NewSalesRepository(db), repository.NewTransactionManager(db), nil, *batch, logger)
	res, err := importer.Import(ctx, *file)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "inserted=%d skipped=%d already_loaded=%t duration=%s\n",
		res.Inserted, res.Skipped, res.AlreadyLoaded, res.Duration)
	return nil
}

func runExport(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	from := fs.String("from", defaultFrom(cfg), "read from the csv file or the database store (csv|store)")
	out := fs.String("out", "", "output file (default stdout)")
	opts := bindExportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	q, err := opts.query()
	if err != nil {
		return err
	}

	var src query.Source
	switch *from {
	case "csv":
		src = dataset.NewCSVSource(cfg.Dataset.CSVPath, logger)
	case "store":
		if cfg.DataSource == config.SourceCSV {
			return fmt.Errorf("%w: DATA_SOURCE=csv has no store to export from", apperror.ErrValidation)
		}
		db, err := database.NewConnection(cfg.DataSource, cfg.Database, logger)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		src = repository.NewSalesRepository(db)
	default:
		return fmt.Errorf("%w: -from must be csv or store, got %q", apperror.ErrValidation, *from)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	n, err := export(ctx, query.NewScanner(src), q, opts.pageSize, w)
	if err != nil {
		return err
	}
	logger.Info("export completed", "records", n, "from", *from)
	return nil
}

func defaultFrom(cfg *config.Config) string {
	if cfg.DataSource == config.SourceCSV {
		return "csv"
	}
	return "store"
}
