// Package engine orchestrates pricelist processing: parsing, matching against
// the catalog snapshot, applying actions and recording runs.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/soundline/catalog-sync/internal/catalog"
	"github.com/soundline/catalog-sync/internal/metrics"
	"github.com/soundline/catalog-sync/internal/namegen"
	"github.com/soundline/catalog-sync/internal/notify"
	"github.com/soundline/catalog-sync/internal/pricelist"
	"github.com/soundline/catalog-sync/internal/store"
	"github.com/soundline/catalog-sync/pkg/matcher"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

const defaultWorkers = 4

// Engine wires the pricelist parser, catalog cache, matcher and synchronizer
// into the full processing pipeline.
type Engine struct {
	parser   *pricelist.Parser
	cache    *catalog.Cache
	matcher  *matcher.Matcher
	syncer   *Synchronizer
	store    store.Store // nil disables persistence
	namer    namegen.Generator
	notifier notify.Notifier
	log      *slog.Logger

	workers int
	dryRun  bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithWorkers sets the matching worker count.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithStore enables run and result persistence.
func WithStore(s store.Store) EngineOption {
	return func(e *Engine) {
		e.store = s
	}
}

// WithNameGenerator enables display-name generation as an extra match signal.
func WithNameGenerator(g namegen.Generator) EngineOption {
	return func(e *Engine) {
		e.namer = g
	}
}

// WithNotifier sets the run-summary notifier.
func WithNotifier(n notify.Notifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithDryRun disables catalog writes; matching and reporting still happen.
func WithDryRun(dry bool) EngineOption {
	return func(e *Engine) {
		e.dryRun = dry
	}
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	parser *pricelist.Parser,
	cache *catalog.Cache,
	m *matcher.Matcher,
	syncer *Synchronizer,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		parser:   parser,
		cache:    cache,
		matcher:  m,
		syncer:   syncer,
		namer:    nil,
		notifier: notify.Noop{},
		log:      slog.Default(),
		workers:  defaultWorkers,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// ProcessFile runs the full pipeline for one pricelist file and returns the
// completed run. The run is persisted when a store is configured.
func (eng *Engine) ProcessFile(ctx context.Context, path string) (*domain.SyncRun, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	run := &domain.SyncRun{
		FileName:  filepath.Base(path),
		Status:    domain.RunStatusRunning,
		StartedAt: start,
	}

	if eng.store != nil {
		id, err := eng.store.InsertSyncRun(ctx, run.FileName)
		if err != nil {
			return nil, fmt.Errorf("recording sync run: %w", err)
		}
		run.ID = id
	}

	records, err := eng.parser.ParseFile(path)
	if err != nil {
		eng.failRun(ctx, run, fmt.Errorf("parsing %s: %w", run.FileName, err))
		return run, err
	}

	results, err := eng.processRecords(ctx, records, run)
	if err != nil {
		eng.failRun(ctx, run, err)
		return run, err
	}

	run.Status = domain.RunStatusCompleted
	now := time.Now()
	run.CompletedAt = &now

	if eng.store != nil {
		if err := eng.store.InsertMatchResults(ctx, run.ID, results); err != nil {
			eng.log.Error("persisting match results failed", "run_id", run.ID, "error", err)
		}
		if err := eng.store.CompleteSyncRun(ctx, run.ID, run.Status, "", run.Summary); err != nil {
			eng.log.Error("completing sync run failed", "run_id", run.ID, "error", err)
		}
	}

	if err := eng.notifier.SendRunSummary(ctx, run); err != nil {
		eng.log.Warn("run notification failed", "run_id", run.ID, "error", err)
	}

	eng.log.Info("pricelist processed",
		"file", run.FileName,
		"records", run.Summary.RecordsTotal,
		"created", run.Summary.Created,
		"updated", run.Summary.Updated,
		"skipped", run.Summary.Skipped,
		"failed", run.Summary.Failed,
		"duration", time.Since(start),
	)

	return run, nil
}

// ProcessRecords matches and applies a batch of already-parsed records.
func (eng *Engine) ProcessRecords(ctx context.Context, records []domain.IncomingRecord) (*domain.SyncRun, error) {
	run := &domain.SyncRun{
		FileName:  "inline",
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}

	if _, err := eng.processRecords(ctx, records, run); err != nil {
		return run, err
	}

	run.Status = domain.RunStatusCompleted
	now := time.Now()
	run.CompletedAt = &now
	return run, nil
}

func (eng *Engine) processRecords(
	ctx context.Context,
	records []domain.IncomingRecord,
	run *domain.SyncRun,
) ([]domain.MatchResult, error) {
	snap := eng.cache.Snapshot()
	if snap.Degraded {
		eng.log.Warn("matching against degraded snapshot", "reason", snap.Reason)
	}
	run.Summary.CacheDegraded = snap.Degraded

	results := eng.matchAll(ctx, records, snap)

	for i := range results {
		r := &results[i]

		applyErr := eng.apply(ctx, r, snap.Degraded)
		if applyErr != nil {
			eng.log.Error("applying result failed",
				"row", r.Record.SourceRow, "action", r.Action, "error", applyErr)
			r.Issues = append(r.Issues, fmt.Sprintf("apply failed: %v", applyErr))
		}

		run.Summary.Add(r, applyErr != nil)

		metrics.RecordsProcessedTotal.Inc()
		metrics.MatchesByType.WithLabelValues(string(r.MatchType)).Inc()
		metrics.ActionsTotal.WithLabelValues(string(r.Action)).Inc()
		metrics.ConfidenceDistribution.Observe(r.ConfidenceScore)
	}

	return results, ctx.Err()
}

// matchAll resolves records concurrently against one immutable snapshot.
// Output order follows input order. A panic while matching one record becomes
// a skip result instead of killing the batch.
func (eng *Engine) matchAll(
	ctx context.Context,
	records []domain.IncomingRecord,
	snap *catalog.Snapshot,
) []domain.MatchResult {
	results := make([]domain.MatchResult, len(records))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := eng.workers
	if workers > len(records) {
		workers = len(records)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = eng.matchOne(ctx, records[idx], snap)
			}
		}()
	}

feed:
	for i := range records {
		if ctx.Err() != nil {
			markUnprocessed(records, results, i)
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			markUnprocessed(records, results, i)
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// markUnprocessed fills result slots for records that never reached a worker.
// They become explicit skips so a cancelled batch cannot leak zero-valued
// results into the apply path.
func markUnprocessed(records []domain.IncomingRecord, results []domain.MatchResult, from int) {
	for i := from; i < len(records); i++ {
		results[i] = domain.MatchResult{
			Record:         records[i],
			MatchType:      domain.MatchNone,
			ConfidenceTier: domain.TierNone,
			Action:         domain.ActionSkip,
			Issues:         []string{"cancelled before matching"},
		}
	}
}

func (eng *Engine) matchOne(
	ctx context.Context,
	rec domain.IncomingRecord,
	snap *catalog.Snapshot,
) (res domain.MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			eng.log.Error("panic while matching record", "row", rec.SourceRow, "panic", r)
			res = domain.MatchResult{
				Record:         rec,
				MatchType:      domain.MatchNone,
				ConfidenceTier: domain.TierNone,
				Action:         domain.ActionSkip,
				Issues:         []string{fmt.Sprintf("internal error: %v", r)},
			}
		}
	}()

	if eng.namer != nil && rec.DisplayName == "" {
		name, err := eng.namer.DisplayName(ctx, rec)
		if err != nil {
			eng.log.Debug("display name generation failed", "row", rec.SourceRow, "error", err)
		}
		rec.DisplayName = name
	}

	return eng.matcher.Match(rec, snap.Entries)
}

// apply hands actionable results to the synchronizer. Skips, dry runs and
// degraded snapshots never touch the catalog; a degraded run reports the
// actions it would have taken, like a dry run.
func (eng *Engine) apply(ctx context.Context, r *domain.MatchResult, degraded bool) error {
	if eng.dryRun || degraded || eng.syncer == nil || r.Action == domain.ActionSkip {
		return nil
	}
	return eng.syncer.Apply(ctx, r)
}

func (eng *Engine) failRun(ctx context.Context, run *domain.SyncRun, err error) {
	run.Status = domain.RunStatusFailed
	run.ErrorText = err.Error()
	now := time.Now()
	run.CompletedAt = &now

	if eng.store != nil && run.ID != "" {
		if dbErr := eng.store.CompleteSyncRun(ctx, run.ID, run.Status, run.ErrorText, run.Summary); dbErr != nil {
			eng.log.Error("recording failed run", "run_id", run.ID, "error", dbErr)
		}
	}
}
