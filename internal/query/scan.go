package query

import (
	"context"

	"salesdesk/internal/model"
	"salesdesk/pkg/pagination"
)

// Source streams every valid record of a dataset once, in source order, with
// Seq set to the record's position.
type Source interface {
	Each(ctx context.Context, fn func(rec model.SalesRecord) error) error
}

// SliceSource serves records held in memory.
type SliceSource []model.SalesRecord

func (s SliceSource) Each(ctx context.Context, fn func(rec model.SalesRecord) error) error {
	for i, rec := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec.Seq = int64(i)
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// Scanner answers SalesQueries with a single pass over a Source. Each call
// owns its accumulator and window, so a Scanner is safe for concurrent use.
type Scanner struct {
	src Source
}

func NewScanner(src Source) *Scanner {
	return &Scanner{src: src}
}

// Execute filters, aggregates and pages the source in one pass. Memory is
// bounded by the page window, never by the size of the matching set.
func (s *Scanner) Execute(ctx context.Context, q model.SalesQuery) (*model.SalesPage, error) {
	matcher := NewMatcher(q.Search, q.Filters)
	acc := NewAccumulator()
	win := newWindow(q.Sort, q.Page)

	var matched int64
	err := s.src.Each(ctx, func(rec model.SalesRecord) error {
		if !matcher.Match(&rec) {
			return nil
		}
		matched++
		acc.Add(&rec)
		win.offer(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	meta := pagination.Compute(matched, q.Page.Page, q.Page.PageSize)
	return &model.SalesPage{
		Data:       win.page(meta),
		Pagination: meta,
		Summary:    acc.Summary(),
	}, nil
}

// Catalog builds the filter catalog with one pass over the source.
func (s *Scanner) Catalog(ctx context.Context) (model.FilterOptions, error) {
	b := NewCatalogBuilder()
	if err := s.src.Each(ctx, func(rec model.SalesRecord) error {
		b.Add(&rec)
		return nil
	}); err != nil {
		return model.FilterOptions{}, err
	}
	return b.Options(), nil
}
