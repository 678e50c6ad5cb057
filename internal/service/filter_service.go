package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"salesdesk/internal/model"

	"golang.org/x/sync/singleflight"
)

const EventCatalogInvalidated = "catalog.invalidated"

// CatalogLoader builds the filter catalog from the dataset.
type CatalogLoader interface {
	Catalog(ctx context.Context) (model.FilterOptions, error)
}

// Publisher fans events out to connected clients.
type Publisher interface {
	Publish(eventType string, data any)
}

type FilterOptionsService interface {
	GetFilterOptions(ctx context.Context) (model.FilterOptions, error)
	// Invalidate drops the cached catalog so the next request rebuilds it.
	Invalidate(ctx context.Context)
}

type cachedCatalog struct {
	options  model.FilterOptions
	loadedAt time.Time
}

type filterOptionsService struct {
	loader    CatalogLoader
	publisher Publisher
	logger    *slog.Logger

	group      singleflight.Group
	cache      atomic.Pointer[cachedCatalog]
	generation atomic.Uint64
}

func NewFilterOptionsService(loader CatalogLoader, publisher Publisher, logger *slog.Logger) FilterOptionsService {
	return &filterOptionsService{loader: loader, publisher: publisher, logger: logger}
}

// GetFilterOptions serves the cached catalog, building it at most once per
// invalidation no matter how many requests arrive together. Every caller gets
// its own copy of the catalog.
func (s *filterOptionsService) GetFilterOptions(ctx context.Context) (model.FilterOptions, error) {
	if c := s.cache.Load(); c != nil {
		return c.options.Clone(), nil
	}

	gen := s.generation.Load()
	ch := s.group.DoChan(catalogKey(gen), func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// the requests that joined it.
		start := time.Now()
		opts, err := s.loader.Catalog(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if s.generation.Load() == gen {
			s.cache.Store(&cachedCatalog{options: opts, loadedAt: time.Now()})
		}
		s.logger.Info("filter catalog built",
			"regions", len(opts.Regions),
			"tags", len(opts.Tags),
			"duration", time.Since(start))
		return opts, nil
	})

	select {
	case <-ctx.Done():
		return model.FilterOptions{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.FilterOptions{}, res.Err
		}
		return res.Val.(model.FilterOptions).Clone(), nil
	}
}

func (s *filterOptionsService) Invalidate(ctx context.Context) {
	s.generation.Add(1)
	s.cache.Store(nil)
	s.logger.InfoContext(ctx, "filter catalog invalidated")
	if s.publisher != nil {
		s.publisher.Publish(EventCatalogInvalidated, nil)
	}
}

func catalogKey(gen uint64) string {
	return "catalog:" + strconv.FormatUint(gen, 10)
}
