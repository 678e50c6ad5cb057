package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"salesdesk/internal/apperror"
	"salesdesk/internal/model"
	"salesdesk/internal/normalizer"
	"salesdesk/internal/repository"
)

const (
	EventImportProgress  = "import.progress"
	EventImportCompleted = "import.completed"

	progressEvery = 10000
)

// Publisher fans events out to connected clients.
type Publisher interface {
	Publish(eventType string, data any)
}

type ImportResult struct {
	Path          string        `json:"path"`
	Inserted      int64         `json:"inserted"`
	Skipped       int64         `json:"skipped"`
	AlreadyLoaded bool          `json:"alreadyLoaded"`
	Duration      time.Duration `json:"duration"`
}

type ImportProgress struct {
	Path     string `json:"path"`
	Rows     int64  `json:"rows"`
	Inserted int64  `json:"inserted"`
}

// Importer loads a sales CSV into an empty store. Rows keep file order, so
// insertion ids reproduce the file position used to break ordering ties.
type Importer struct {
	repo      repository.SalesRepository
	txManager repository.TransactionManager
	publisher Publisher
	batchSize int
	logger    *slog.Logger
}

func NewImporter(repo repository.SalesRepository, txManager repository.TransactionManager, publisher Publisher, batchSize int, logger *slog.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Importer{
		repo:      repo,
		txManager: txManager,
		publisher: publisher,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Import loads path unless the store already holds records. The whole load
// is one transaction; a failure leaves the store empty.
func (im *Importer) Import(ctx context.Context, path string) (ImportResult, error) {
	start := time.Now()
	result := ImportResult{Path: path}

	err := im.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		loaded, err := im.repo.HasRecords(txCtx)
		if err != nil {
			return err
		}
		if loaded {
			result.AlreadyLoaded = true
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, errors.Join(apperror.ErrDataSourceUnavailable, err))
		}
		defer f.Close()

		batch := make([]model.SalesRecord, 0, im.batchSize)
		var rows int64
		flush := func() error {
			if err := im.repo.CreateBatch(txCtx, batch, im.batchSize); err != nil {
				return err
			}
			result.Inserted += int64(len(batch))
			batch = batch[:0]
			return nil
		}

		err = ReadCSV(txCtx, f, func(raw model.RawRecord, _ int) error {
			rows++
			rec := normalizer.Normalize(raw)
			if !normalizer.Validate(rec) {
				result.Skipped++
				return nil
			}
			batch = append(batch, rec)
			if len(batch) == im.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
			if rows%progressEvery == 0 {
				im.logger.Info("import progress", "path", path, "rows", rows, "inserted", result.Inserted)
				im.publish(EventImportProgress, ImportProgress{Path: path, Rows: rows, Inserted: result.Inserted})
			}
			return nil
		}, im.logger)
		if err != nil {
			return err
		}
		return flush()
	})
	result.Duration = time.Since(start)
	if err != nil {
		// The transaction rolled back.
		result.Inserted = 0
		return result, err
	}

	if result.AlreadyLoaded {
		im.logger.Info("sales already loaded, skipping import", "path", path)
	} else {
		im.logger.Info("import completed", "path", path, "inserted", result.Inserted, "skipped", result.Skipped, "duration", result.Duration)
	}
	im.publish(EventImportCompleted, result)
	return result, nil
}

func (im *Importer) publish(eventType string, data any) {
	if im.publisher != nil {
		im.publisher.Publish(eventType, data)
	}
}
