package catalog

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soundline/catalog-sync/internal/metrics"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// Snapshot is an immutable view of the catalog at one point in time. Matching
// runs against a snapshot, so a refresh mid-batch never changes results.
type Snapshot struct {
	Entries  []domain.CatalogEntry
	LoadedAt time.Time

	// Degraded is set when every search term failed and no earlier snapshot
	// existed. A degraded snapshot is empty; results built on it carry the
	// flag so nobody mistakes "catalog down" for "catalog empty".
	Degraded bool
	Reason   string
}

// Cache maintains the current catalog snapshot, built by running the
// configured search terms against the catalog API. Refresh swaps the snapshot
// atomically; readers holding the old one are unaffected.
type Cache struct {
	searcher Searcher
	terms    []string
	log      *slog.Logger

	current   atomic.Pointer[Snapshot]
	refreshMu sync.Mutex
}

// NewCache creates a cache over the given searcher. The cache starts empty;
// call Refresh before matching.
func NewCache(searcher Searcher, terms []string, log *slog.Logger) *Cache {
	c := &Cache{
		searcher: searcher,
		terms:    terms,
		log:      log,
	}
	c.current.Store(&Snapshot{Degraded: true, Reason: "not yet loaded"})
	return c
}

// Snapshot returns the current snapshot. Never nil.
func (c *Cache) Snapshot() *Snapshot {
	return c.current.Load()
}

// Refresh rebuilds the snapshot from the catalog API. Individual term
// failures are logged and skipped; only a total failure degrades. When all
// terms fail and a previous good snapshot exists, that snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	seen := make(map[string]struct{})
	var entries []domain.CatalogEntry
	var succeeded int
	var lastErr error

	for _, term := range c.terms {
		found, err := c.searcher.Search(ctx, term)
		if err != nil {
			lastErr = err
			c.log.Warn("catalog search failed", "term", term, "error", err)
			continue
		}
		succeeded++

		for _, e := range found {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			entries = append(entries, e)
		}
	}

	if succeeded == 0 {
		prev := c.current.Load()
		if prev != nil && !prev.Degraded {
			c.log.Error("catalog refresh failed entirely, keeping previous snapshot",
				"entries", len(prev.Entries), "error", lastErr)
			return prev, lastErr
		}

		snap := &Snapshot{
			LoadedAt: time.Now(),
			Degraded: true,
			Reason:   "all catalog searches failed",
		}
		c.store(snap)
		return snap, lastErr
	}

	// Stable order keeps batch output deterministic across refreshes.
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	snap := &Snapshot{
		Entries:  entries,
		LoadedAt: time.Now(),
	}
	c.store(snap)

	c.log.Info("catalog snapshot refreshed",
		"entries", len(entries), "terms_ok", succeeded, "terms_total", len(c.terms))
	return snap, nil
}

func (c *Cache) store(snap *Snapshot) {
	c.current.Store(snap)

	metrics.CacheRefreshesTotal.Inc()
	metrics.CacheSize.Set(float64(len(snap.Entries)))
	if snap.Degraded {
		metrics.CacheDegraded.Set(1)
	} else {
		metrics.CacheDegraded.Set(0)
	}
}
