package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundline/catalog-sync/internal/catalog"
	"github.com/soundline/catalog-sync/internal/engine"
	"github.com/soundline/catalog-sync/internal/pricelist"
	"github.com/soundline/catalog-sync/pkg/logger"
	"github.com/soundline/catalog-sync/pkg/matcher"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// fixedSearcher serves the same entries for every term.
type fixedSearcher struct {
	entries []domain.CatalogEntry
	err     error
}

func (f *fixedSearcher) Search(context.Context, string) ([]domain.CatalogEntry, error) {
	return f.entries, f.err
}

// fakeWriter records catalog writes.
type fakeWriter struct {
	mu      sync.Mutex
	created []catalog.ProductInput
	updated map[string]catalog.ProductInput
	fail    bool
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{updated: make(map[string]catalog.ProductInput)}
}

func (f *fakeWriter) CreateProduct(_ context.Context, p catalog.ProductInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("create rejected")
	}
	f.created = append(f.created, p)
	return "new-1", nil
}

func (f *fakeWriter) UpdateProduct(_ context.Context, id string, p catalog.ProductInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("update rejected")
	}
	f.updated[id] = p
	return nil
}

// panicNamer blows up, exercising per-record panic recovery.
type panicNamer struct{}

func (panicNamer) DisplayName(context.Context, domain.IncomingRecord) (string, error) {
	panic("namer exploded")
}

func catalogEntries() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{ID: "101", Name: "Denon AVR-X1800H 7.2 Channel AV Receiver", Model: "AVR-X1800H", SKU: "DEN-1800", PriceRaw: "1299.00"},
		{ID: "102", Name: "Pioneer CDJ-3000 Professional DJ Multi Player", Model: "CDJ-3000", SKU: "PIO-3000", PriceRaw: "2499.00"},
	}
}

func newTestEngine(t *testing.T, writer catalog.Writer, opts ...engine.EngineOption) (*engine.Engine, *catalog.Cache) {
	t.Helper()

	cache := catalog.NewCache(&fixedSearcher{entries: catalogEntries()}, []string{"audio"}, logger.Nop())
	_, err := cache.Refresh(context.Background())
	require.NoError(t, err)

	syncer := engine.NewSynchronizer(writer, logger.Nop())
	opts = append([]engine.EngineOption{engine.WithLogger(logger.Nop())}, opts...)
	eng := engine.NewEngine(pricelist.NewParser(), cache, matcher.New(matcher.DefaultConfig()), syncer, opts...)
	return eng, cache
}

func TestProcessRecords(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	eng, _ := newTestEngine(t, writer)

	records := []domain.IncomingRecord{
		{Name: "Denon AVR-X1800H 7.2Ch Receiver", Model: "AVR-X1800H", PriceRaw: "1199.00", SourceRow: 2},
		{Name: "Unknown Widget XYZ-9999", Model: "XYZ-9999", PriceRaw: "49.99", SourceRow: 3},
		{Name: "No price product", Model: "NP-1", PriceRaw: "", SourceRow: 4},
	}

	run, err := eng.ProcessRecords(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, 3, run.Summary.RecordsTotal)
	assert.Equal(t, 1, run.Summary.Updated)
	assert.Equal(t, 1, run.Summary.Created)
	assert.Equal(t, 1, run.Summary.Skipped)
	assert.Equal(t, 0, run.Summary.Failed)
	assert.False(t, run.Summary.CacheDegraded)

	require.Len(t, writer.created, 1)
	assert.Equal(t, "Unknown Widget XYZ-9999", writer.created[0].Name)
	assert.InDelta(t, 49.99, writer.created[0].Price, 1e-9)

	require.Contains(t, writer.updated, "101")
	assert.InDelta(t, 1199.0, writer.updated["101"].Price, 1e-9)
}

func TestProcessRecordsDryRun(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	eng, _ := newTestEngine(t, writer, engine.WithDryRun(true))

	records := []domain.IncomingRecord{
		{Name: "Unknown Widget XYZ-9999", Model: "XYZ-9999", PriceRaw: "49.99"},
	}

	run, err := eng.ProcessRecords(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, run.Summary.Created, "summary still counts intended actions")
	assert.Empty(t, writer.created, "dry run never writes")
}

func TestProcessRecordsApplyFailureCounted(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	writer.fail = true
	eng, _ := newTestEngine(t, writer)

	records := []domain.IncomingRecord{
		{Name: "Unknown Widget XYZ-9999", Model: "XYZ-9999", PriceRaw: "49.99"},
	}

	run, err := eng.ProcessRecords(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, run.Summary.Failed)
	assert.Equal(t, 0, run.Summary.Created)
}

func TestProcessRecordsPanicBecomesSkip(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	eng, _ := newTestEngine(t, writer, engine.WithNameGenerator(panicNamer{}))

	records := []domain.IncomingRecord{
		{Name: "Denon AVR-X1800H", Model: "AVR-X1800H", PriceRaw: "1199.00", SourceRow: 2},
	}

	run, err := eng.ProcessRecords(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, run.Summary.Skipped)
	assert.Equal(t, 1, run.Summary.RecordsTotal)
	assert.Empty(t, writer.updated, "panicked record never reaches the catalog")
}

func TestProcessRecordsDegradedSnapshotFlagged(t *testing.T) {
	t.Parallel()

	cache := catalog.NewCache(
		&fixedSearcher{err: errors.New("down")}, []string{"audio"}, logger.Nop())
	_, _ = cache.Refresh(context.Background())

	writer := newFakeWriter()
	syncer := engine.NewSynchronizer(writer, logger.Nop())
	eng := engine.NewEngine(pricelist.NewParser(), cache, matcher.New(matcher.DefaultConfig()), syncer,
		engine.WithLogger(logger.Nop()))

	run, err := eng.ProcessRecords(context.Background(), []domain.IncomingRecord{
		{Name: "Denon AVR-X1800H", Model: "AVR-X1800H", PriceRaw: "1199.00"},
	})
	require.NoError(t, err)

	assert.True(t, run.Summary.CacheDegraded)
	assert.Equal(t, 1, run.Summary.Created, "summary still reports the intended action")
	assert.Empty(t, writer.created, "degraded snapshot never writes to the catalog")
	assert.Empty(t, writer.updated)
}

func TestProcessRecordsCancelledBatchSkips(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	eng, _ := newTestEngine(t, writer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := eng.ProcessRecords(ctx, []domain.IncomingRecord{
		{Name: "Denon AVR-X1800H 7.2Ch Receiver", Model: "AVR-X1800H", PriceRaw: "1199.00", SourceRow: 2},
		{Name: "Unknown Widget XYZ-9999", Model: "XYZ-9999", PriceRaw: "49.99", SourceRow: 3},
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 2, run.Summary.RecordsTotal)
	assert.Equal(t, 2, run.Summary.Skipped, "unprocessed records become skips")
	assert.Equal(t, 0, run.Summary.Failed)
	assert.Empty(t, writer.created)
	assert.Empty(t, writer.updated)
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "list.csv")
	csvData := "Product Name,Model,Price\nDenon AVR-X1800H 7.2Ch Receiver,AVR-X1800H,1199.00\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o644))

	writer := newFakeWriter()
	eng, _ := newTestEngine(t, writer)

	run, err := eng.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "list.csv", run.FileName)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.Summary.RecordsTotal)
	assert.Equal(t, 1, run.Summary.Updated)
	require.NotNil(t, run.CompletedAt)
}

func TestProcessFileParseFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	writer := newFakeWriter()
	eng, _ := newTestEngine(t, writer)

	run, err := eng.ProcessFile(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.NotEmpty(t, run.ErrorText)
}
