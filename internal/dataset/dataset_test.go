package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"salesdesk/internal/apperror"
	"salesdesk/internal/fixture"
	"salesdesk/internal/model"
	"salesdesk/internal/query"
	"salesdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src query.Source) []model.SalesRecord {
	t.Helper()
	var out []model.SalesRecord
	require.NoError(t, src.Each(context.Background(), func(rec model.SalesRecord) error {
		out = append(out, rec)
		return nil
	}))
	return out
}

func TestCSVSource_ReadsFixture(t *testing.T) {
	path, err := fixture.CSVFile(t.TempDir(), fixture.Raw(25))
	require.NoError(t, err)

	got := collect(t, NewCSVSource(path, slog.Default()))
	assert.Equal(t, fixture.Records(25), got)
}

func TestCSVSource_SkipsInvalidAndMalformedRows(t *testing.T) {
	header := strings.Join(model.Columns, ",")
	body := header + "\n" +
		"T1,2023-01-01,C1,Asha,,Female,30,North\n" + // short row, still valid
		",2023-01-02,C2,Bharat\n" + // missing transaction id
		"T3,2023-01-03,C3,\"Chitra \"\"CJ\"\" Iyer\",,Female,41\n" +
		"T4,2023-01-04,C4,  \n" // blank name
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	got := collect(t, NewCSVSource(path, slog.Default()))
	require.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].TransactionID)
	assert.Equal(t, "North", got[0].CustomerRegion)
	assert.Equal(t, 0, got[0].Quantity)
	assert.Equal(t, `Chitra "CJ" Iyer`, got[1].CustomerName)
	assert.Equal(t, []int64{0, 1}, []int64{got[0].Seq, got[1].Seq})
}

func TestCSVSource_BOMHeader(t *testing.T) {
	body := "\ufeffTransaction ID,Date,Customer ID,Customer Name\nT1,2023-01-01,C1,Asha\n"
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	got := collect(t, NewCSVSource(path, nil))
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].TransactionID)
}

func TestCSVSource_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.Empty(t, collect(t, NewCSVSource(path, nil)))
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), nil)
	err := src.Each(context.Background(), func(model.SalesRecord) error { return nil })
	assert.ErrorIs(t, err, apperror.ErrDataSourceUnavailable)
}

func TestCSVSource_Cancelled(t *testing.T) {
	path, err := fixture.CSVFile(t.TempDir(), fixture.Raw(5))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewCSVSource(path, nil).Each(ctx, func(model.SalesRecord) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
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

func TestImporter_LoadsOnceInFileOrder(t *testing.T) {
	db := fixture.SQLite(t)
	repo := repository.NewSalesRepository(db)
	pub := &recordingPublisher{}
	im := NewImporter(repo, repository.NewTransactionManager(db), pub, 4, slog.Default())

	rows := fixture.Raw(10)
	rows = append(rows, model.RawRecord{model.ColTransactionID: "T-bad"})
	path, err := fixture.CSVFile(t.TempDir(), rows)
	require.NoError(t, err)

	res, err := im.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Inserted)
	assert.Equal(t, int64(1), res.Skipped)
	assert.False(t, res.AlreadyLoaded)
	assert.Equal(t, []string{EventImportCompleted}, pub.events)

	var got []string
	require.NoError(t, repo.Each(context.Background(), func(rec model.SalesRecord) error {
		got = append(got, rec.TransactionID)
		return nil
	}))
	require.Len(t, got, 10)
	assert.Equal(t, "T0001", got[0])
	assert.Equal(t, "T0010", got[9])

	again, err := im.Import(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, again.AlreadyLoaded)
	assert.Zero(t, again.Inserted)

	total, err := repo.Count(context.Background(), "", model.FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

func TestImporter_MissingFileLeavesStoreEmpty(t *testing.T) {
	db := fixture.SQLite(t)
	repo := repository.NewSalesRepository(db)
	im := NewImporter(repo, repository.NewTransactionManager(db), nil, 0, slog.Default())

	_, err := im.Import(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, apperror.ErrDataSourceUnavailable)

	loaded, err := repo.HasRecords(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)
}
