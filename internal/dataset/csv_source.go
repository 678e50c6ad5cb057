// Package dataset reads the sales CSV and loads it into the store.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"salesdesk/internal/apperror"
	"salesdesk/internal/model"
	"salesdesk/internal/normalizer"
)

// CSVSource streams a sales CSV file. Every Each call re-reads the file, so
// edits to the file are picked up on the next request.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{path: path, logger: logger}
}

// Path returns the file the source reads.
func (s *CSVSource) Path() string {
	return s.path
}

// Each calls fn for every valid record in file order. Rows that fail to parse
// or miss a required field are skipped. Seq counts valid records only.
func (s *CSVSource) Each(ctx context.Context, fn func(rec model.SalesRecord) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, errors.Join(apperror.ErrDataSourceUnavailable, err))
	}
	defer f.Close()

	var seq int64
	return ReadCSV(ctx, f, func(raw model.RawRecord, line int) error {
		rec := normalizer.Normalize(raw)
		if !normalizer.Validate(rec) {
			s.logger.Debug("skipping invalid row", "path", s.path, "line", line)
			return nil
		}
		rec.Seq = seq
		seq++
		return fn(rec)
	}, s.logger)
}

// ReadCSV decodes r row by row and hands each row to fn keyed by the header.
// Malformed rows are logged and skipped; I/O errors abort the read. line is
// the 1-based line number of the row.
func ReadCSV(ctx context.Context, r io.Reader, fn func(raw model.RawRecord, line int) error, logger *slog.Logger) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", errors.Join(apperror.ErrDataSourceUnavailable, err))
	}
	cols := make([]string, len(header))
	for i, h := range header {
		// Excel exports prepend a BOM to the first header.
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn("skipping malformed row", "line", parseErr.Line, "error", parseErr.Err)
			continue
		}
		if err != nil {
			return fmt.Errorf("read line %d: %w", line, errors.Join(apperror.ErrDataSourceUnavailable, err))
		}

		raw := make(model.RawRecord, len(cols))
		for i, col := range cols {
			if i < len(row) {
				raw[col] = row[i]
			}
		}
		if err := fn(raw, line); err != nil {
			return err
		}
	}
}
