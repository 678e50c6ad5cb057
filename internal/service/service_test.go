package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"salesdesk/internal/apperror"
	"salesdesk/internal/dataset"
	"salesdesk/internal/fixture"
	"salesdesk/internal/model"
	"salesdesk/internal/normalizer"
	"salesdesk/internal/query"
	"salesdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

// strategies returns a pushdown service over sqlite and a scan service over
// a CSV file, both holding the same n rows. Some amounts carry sub-cent
// digits so that summary rounding is compared too.
func strategies(t *testing.T, n int) (pushdown, scan SalesService) {
	t.Helper()
	raws := fixture.SubCentAmounts(fixture.Raw(n))

	db := fixture.SQLite(t)
	repo := repository.NewSalesRepository(db)
	require.NoError(t, repo.CreateBatch(context.Background(), normalizer.NormalizeBatch(raws), 50))

	path, err := fixture.CSVFile(t.TempDir(), raws)
	require.NoError(t, err)

	return NewPushdownService(repo, slog.Default()),
		NewScanService(dataset.NewCSVSource(path, slog.Default()), slog.Default())
}

type pageView struct {
	IDs        []string
	Pagination model.Pagination
	Summary    model.Summary
}

func view(p *model.SalesPage) pageView {
	v := pageView{IDs: []string{}, Pagination: p.Pagination, Summary: p.Summary}
	for _, r := range p.Data {
		v.IDs = append(v.IDs, r.TransactionID)
	}
	return v
}

func TestStrategiesAgree(t *testing.T) {
	pushdown, scan := strategies(t, 57)
	ctx := context.Background()

	filters := map[string]model.FilterSpec{
		"none":    {},
		"regions": {Regions: []string{"North", "East"}},
		"female":  {Genders: []string{"Female"}},
		"tags":    {Tags: []string{"fresh", "SMART"}},
		"ages":    {AgeRange: &model.IntRange{Min: intp(20), Max: intp(45)}},
		"dates":   {DateRange: model.NewDateRange("2023-02-10", "2023-09-30T08:00:00Z")},
		"far-end": {DateRange: model.NewDateRange("", "9999-12-31")},
		"all-time": {
			DateRange: model.NewDateRange("0001-01-01", "9999-12-31"),
		},
		"future": {DateRange: model.NewDateRange("9999-12-31", "")},
		"none-match": {
			Regions: []string{"Atlantis"},
		},
		"mixed": {
			Categories:     []string{"Electronics", "Beauty"},
			PaymentMethods: []string{"UPI", "Wallet", "Cash"},
			AgeRange:       &model.IntRange{Min: intp(22)},
		},
	}
	searches := []string{"", "asha", "  DEV ", "9876500", "zz"}
	sorts := []model.SortSpec{
		model.DefaultSort,
		{Key: model.SortByDate, Order: model.SortAsc},
		{Key: model.SortByQuantity, Order: model.SortDesc},
		{Key: model.SortByCustomerName, Order: model.SortAsc},
		{Key: model.SortByCustomerName, Order: model.SortDesc},
	}
	pages := []model.PageRequest{{Page: 1, PageSize: 10}, {Page: 3, PageSize: 7}, {Page: 99, PageSize: 5}, {Page: 1, PageSize: 100}}

	for fname, f := range filters {
		for _, search := range searches {
			for _, sort := range sorts {
				for _, pr := range pages {
					q := model.SalesQuery{Search: search, Filters: f, Sort: sort, Page: pr}
					name := fmt.Sprintf("%s/%q/%s-%s/%d-%d", fname, search, sort.Key, sort.Order, pr.Page, pr.PageSize)

					a, err := pushdown.GetSales(ctx, q)
					require.NoError(t, err, name)
					b, err := scan.GetSales(ctx, q)
					require.NoError(t, err, name)
					assert.Equal(t, view(b), view(a), name)
				}
			}
		}
	}
}

func TestStrategiesAgree_SubCentSummary(t *testing.T) {
	recs := fixture.Records(3)
	for i, amount := range []float64{0.7, 0.1, 0.005} {
		recs[i].FinalAmount = amount
		recs[i].TotalAmount = amount
	}
	repo := repository.NewSalesRepository(fixture.SQLite(t))
	require.NoError(t, repo.CreateBatch(context.Background(), recs, 10))

	q := model.SalesQuery{Page: model.PageRequest{Page: 1, PageSize: 10}}
	a, err := NewPushdownService(repo, slog.Default()).GetSales(context.Background(), q)
	require.NoError(t, err)
	b, err := NewScanService(query.SliceSource(recs), slog.Default()).GetSales(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 0.81, b.Summary.TotalAmount)
	assert.Equal(t, b.Summary, a.Summary)
}

func TestStrategiesAgree_DefaultFirstPage(t *testing.T) {
	pushdown, scan := strategies(t, 25)
	q := model.SalesQuery{Page: model.PageRequest{Page: 1, PageSize: 10}}

	for _, svc := range []SalesService{pushdown, scan} {
		page, err := svc.GetSales(context.Background(), q)
		require.NoError(t, err)
		assert.Len(t, page.Data, 10)
		assert.Equal(t, int64(25), page.Pagination.TotalItems)
		assert.Equal(t, 3, page.Pagination.TotalPages)
		assert.True(t, page.Pagination.HasNextPage)
		assert.False(t, page.Pagination.HasPreviousPage)
		for i := 1; i < len(page.Data); i++ {
			assert.GreaterOrEqual(t, page.Data[i-1].Date, page.Data[i].Date)
		}
	}
	assert.Equal(t, StrategyPushdown, pushdown.Strategy())
	assert.Equal(t, StrategyScan, scan.Strategy())
}

type stubRepo struct {
	repository.SalesRepository
	countErr   error
	summaryErr error
	total      int64
	pageCalls  atomic.Int32
}

func (r *stubRepo) Count(context.Context, string, model.FilterSpec) (int64, error) {
	return r.total, r.countErr
}

func (r *stubRepo) Summarize(context.Context, string, model.FilterSpec) (model.Summary, error) {
	if r.summaryErr != nil {
		return model.Summary{}, r.summaryErr
	}
	return model.Summary{TotalUnits: 9}, nil
}

func (r *stubRepo) FindPage(_ context.Context, _ string, _ model.FilterSpec, _ model.SortSpec, _, limit int) ([]model.SalesRecord, error) {
	r.pageCalls.Add(1)
	return fixture.Records(limit), nil
}

func TestPushdown_AggregateFailureDegrades(t *testing.T) {
	repo := &stubRepo{total: 4, summaryErr: fmt.Errorf("sum: %w", apperror.ErrAggregateFailed)}
	svc := NewPushdownService(repo, slog.Default())

	page, err := svc.GetSales(context.Background(), model.SalesQuery{Page: model.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.Equal(t, model.Summary{}, page.Summary)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, int64(4), page.Pagination.TotalItems)
}

func TestPushdown_DataSourceFailureSurfaces(t *testing.T) {
	repo := &stubRepo{countErr: fmt.Errorf("count: %w", apperror.ErrDataSourceUnavailable)}
	svc := NewPushdownService(repo, slog.Default())

	_, err := svc.GetSales(context.Background(), model.SalesQuery{Page: model.PageRequest{Page: 1, PageSize: 10}})
	assert.ErrorIs(t, err, apperror.ErrDataSourceUnavailable)
}

func TestPushdown_SkipsPageQueryWhenEmpty(t *testing.T) {
	repo := &stubRepo{total: 0}
	svc := NewPushdownService(repo, slog.Default())

	page, err := svc.GetSales(context.Background(), model.SalesQuery{Page: model.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Zero(t, repo.pageCalls.Load())
}

type countingLoader struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (l *countingLoader) Catalog(context.Context) (model.FilterOptions, error) {
	n := l.calls.Add(1)
	time.Sleep(l.delay)
	if l.err != nil {
		return model.FilterOptions{}, l.err
	}
	return model.FilterOptions{Regions: []string{fmt.Sprintf("build-%d", n)}}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(eventType string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func TestFilterOptions_BuildsOnceForConcurrentCallers(t *testing.T) {
	loader := &countingLoader{delay: 50 * time.Millisecond}
	svc := NewFilterOptionsService(loader, nil, slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			opts, err := svc.GetFilterOptions(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, []string{"build-1"}, opts.Regions)
		}()
	}
	wg.Wait()

	_, err := svc.GetFilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestFilterOptions_Invalidate(t *testing.T) {
	loader := &countingLoader{}
	pub := &recordingPublisher{}
	svc := NewFilterOptionsService(loader, pub, slog.Default())
	ctx := context.Background()

	first, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	svc.Invalidate(ctx)
	second, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"build-1"}, first.Regions)
	assert.Equal(t, []string{"build-2"}, second.Regions)
	assert.Equal(t, []string{EventCatalogInvalidated}, pub.events)
}

func TestFilterOptions_CallersCannotCorruptCache(t *testing.T) {
	svc := NewFilterOptionsService(&countingLoader{}, nil, slog.Default())
	ctx := context.Background()

	built, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	built.Regions[0] = "changed"

	cached, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"build-1"}, cached.Regions)
	cached.Regions[0] = "changed again"

	again, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"build-1"}, again.Regions)
}

func TestFilterOptions_ErrorsAreNotCached(t *testing.T) {
	loader := &countingLoader{err: errors.New("down")}
	svc := NewFilterOptionsService(loader, nil, slog.Default())

	_, err := svc.GetFilterOptions(context.Background())
	require.Error(t, err)
	_, err = svc.GetFilterOptions(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestFilterOptions_StrategiesAgree(t *testing.T) {
	db := fixture.SQLite(t)
	repo := repository.NewSalesRepository(db)
	require.NoError(t, repo.CreateBatch(context.Background(), fixture.Records(31), 50))
	path, err := fixture.CSVFile(t.TempDir(), fixture.Raw(31))
	require.NoError(t, err)

	fromStore, err := NewFilterOptionsService(repo, nil, slog.Default()).GetFilterOptions(context.Background())
	require.NoError(t, err)
	fromFile, err := NewFilterOptionsService(query.NewScanner(dataset.NewCSVSource(path, nil)), nil, slog.Default()).GetFilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromStore)
}
