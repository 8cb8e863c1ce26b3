package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/soundline/catalog-sync/internal/catalog"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// Scheduler manages the periodic inbox scan and catalog cache refresh.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	cache  *catalog.Cache
	log    *slog.Logger

	inboxDir     string
	processedDir string
	erroredDir   string
}

// NewScheduler creates a Scheduler that processes new pricelists from the
// inbox directory and keeps the catalog snapshot fresh.
func NewScheduler(
	eng *Engine,
	cache *catalog.Cache,
	inboxDir, processedDir, erroredDir string,
	scanInterval, refreshInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:         c,
		engine:       eng,
		cache:        cache,
		log:          log,
		inboxDir:     inboxDir,
		processedDir: processedDir,
		erroredDir:   erroredDir,
	}

	if _, err := c.AddFunc("@every "+scanInterval.String(), s.runInboxScan); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@every "+refreshInterval.String(), s.runCacheRefresh); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started",
		"inbox", s.inboxDir, "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runInboxScan() {
	ctx := context.Background()
	if err := s.ScanInbox(ctx); err != nil {
		s.log.Error("scheduled inbox scan failed", "error", err)
	}
}

func (s *Scheduler) runCacheRefresh() {
	ctx := context.Background()
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.log.Error("scheduled cache refresh failed", "error", err)
	}
}

// ScanInbox processes every pricelist in the inbox directory. Each file moves
// to processed/ on success or error/ on failure, so a crash mid-scan never
// reprocesses finished files.
func (s *Scheduler) ScanInbox(ctx context.Context) error {
	entries, err := os.ReadDir(s.inboxDir)
	if err != nil {
		return fmt.Errorf("reading inbox %s: %w", s.inboxDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !supportedPricelist(entry.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		path := filepath.Join(s.inboxDir, entry.Name())
		s.log.Info("processing pricelist", "file", entry.Name())

		run, err := s.engine.ProcessFile(ctx, path)
		if err != nil || (run != nil && run.Status == domain.RunStatusFailed) {
			s.log.Error("pricelist processing failed", "file", entry.Name(), "error", err)
			s.moveTo(path, s.erroredDir)
			continue
		}

		s.moveTo(path, s.processedDir)
	}

	return nil
}

func (s *Scheduler) moveTo(path, dir string) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		s.log.Error("creating directory failed", "dir", dir, "error", err)
		return
	}

	// Timestamp prefix keeps re-uploads of the same filename distinct.
	dest := filepath.Join(dir, time.Now().Format("20060102-150405")+"_"+filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		s.log.Error("moving pricelist failed", "from", path, "to", dest, "error", err)
	}
}

func supportedPricelist(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	default:
		return false
	}
}
