// Package store defines the datastore abstraction for catalog-sync.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables fake-based testing without a running database.
package store

import (
	"context"
	"errors"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ResultQuery defines optional filters for match-result queries.
type ResultQuery struct {
	Action    *string
	MatchType *string
	Limit     int // default 100
	Offset    int
}

// Store defines all data access operations for catalog-sync.
type Store interface {
	// Sync runs
	InsertSyncRun(ctx context.Context, fileName string) (id string, err error)
	CompleteSyncRun(ctx context.Context, id string, status string, errText string, summary domain.RunSummary) error
	GetSyncRun(ctx context.Context, id string) (*domain.SyncRun, error)
	ListSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// Match results
	InsertMatchResults(ctx context.Context, runID string, results []domain.MatchResult) error
	ListMatchResults(ctx context.Context, runID string, opts *ResultQuery) ([]domain.StoredMatch, int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error

	Close()
}
