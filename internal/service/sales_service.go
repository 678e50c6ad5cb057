package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"salesdesk/internal/apperror"
	"salesdesk/internal/model"
	"salesdesk/internal/observability"
	"salesdesk/internal/query"
	"salesdesk/internal/repository"
	"salesdesk/pkg/pagination"
)

// Strategy names how a deployment answers queries.
type Strategy string

const (
	// StrategyPushdown delegates filtering, aggregation and paging to the store.
	StrategyPushdown Strategy = "pushdown"
	// StrategyScan evaluates every record in process.
	StrategyScan Strategy = "scan"
)

// SalesExecutor turns a SalesQuery into one page of results.
type SalesExecutor interface {
	Execute(ctx context.Context, q model.SalesQuery) (*model.SalesPage, error)
}

type SalesService interface {
	GetSales(ctx context.Context, q model.SalesQuery) (*model.SalesPage, error)
	Strategy() Strategy
}

type salesService struct {
	executor SalesExecutor
	strategy Strategy
	logger   *slog.Logger
}

func NewSalesService(executor SalesExecutor, strategy Strategy, logger *slog.Logger) SalesService {
	return &salesService{executor: executor, strategy: strategy, logger: logger}
}

// NewScanService answers queries by scanning src on every request.
func NewScanService(src query.Source, logger *slog.Logger) SalesService {
	return NewSalesService(query.NewScanner(src), StrategyScan, logger)
}

// NewPushdownService answers queries with database queries.
func NewPushdownService(repo repository.SalesRepository, logger *slog.Logger) SalesService {
	return NewSalesService(&pushdownExecutor{repo: repo, logger: logger}, StrategyPushdown, logger)
}

func (s *salesService) Strategy() Strategy {
	return s.strategy
}

func (s *salesService) GetSales(ctx context.Context, q model.SalesQuery) (*model.SalesPage, error) {
	if q.Sort.Key == model.SortNone {
		q.Sort = model.DefaultSort
	}
	if q.Page.Page < 1 {
		q.Page.Page = pagination.DefaultPage
	}

	start := time.Now()
	page, err := s.executor.Execute(ctx, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "sales query failed",
			"request_id", observability.GetRequestID(ctx),
			"strategy", s.strategy,
			"error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "sales query",
		"request_id", observability.GetRequestID(ctx),
		"strategy", s.strategy,
		"matched", page.Pagination.TotalItems,
		"returned", len(page.Data),
		"duration", time.Since(start))
	return page, nil
}

type pushdownExecutor struct {
	repo   repository.SalesRepository
	logger *slog.Logger
}

// Execute counts first so the requested page can be clamped before the page
// query runs. A failed aggregate degrades to a zero summary.
func (e *pushdownExecutor) Execute(ctx context.Context, q model.SalesQuery) (*model.SalesPage, error) {
	total, err := e.repo.Count(ctx, q.Search, q.Filters)
	if err != nil {
		return nil, err
	}
	meta := pagination.Compute(total, q.Page.Page, q.Page.PageSize)

	summary, err := e.repo.Summarize(ctx, q.Search, q.Filters)
	if err != nil {
		if !errors.Is(err, apperror.ErrAggregateFailed) {
			return nil, err
		}
		e.logger.WarnContext(ctx, "summary unavailable, returning zero totals",
			"request_id", observability.GetRequestID(ctx),
			"error", err)
		summary = model.Summary{}
	}

	data := []model.SalesRecord{}
	if !meta.Empty() {
		data, err = e.repo.FindPage(ctx, q.Search, q.Filters, q.Sort, int(meta.Offset()), meta.PageSize)
		if err != nil {
			return nil, err
		}
	}

	return &model.SalesPage{Data: data, Pagination: meta, Summary: summary}, nil
}
