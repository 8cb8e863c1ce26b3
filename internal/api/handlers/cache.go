package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundline/catalog-sync/internal/catalog"
)

// SnapshotProvider defines the cache operations exposed over the API.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// CacheHandler handles catalog snapshot inspection and reload requests.
type CacheHandler struct {
	cache SnapshotProvider
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(c SnapshotProvider) *CacheHandler {
	return &CacheHandler{cache: c}
}

// CacheStatus describes the current catalog snapshot.
type CacheStatus struct {
	Entries  int       `json:"entries" doc:"Number of catalog entries in the snapshot"`
	LoadedAt time.Time `json:"loaded_at" doc:"When the snapshot was built"`
	Degraded bool      `json:"degraded" doc:"True when the snapshot could not be loaded from the catalog"`
	Reason   string    `json:"reason,omitempty" doc:"Why the snapshot is degraded"`
}

// CacheStatusOutput is the response body for cache inspection.
type CacheStatusOutput struct {
	Body CacheStatus
}

// GetStatus returns the current snapshot's stats.
func (h *CacheHandler) GetStatus(_ context.Context, _ *struct{}) (*CacheStatusOutput, error) {
	return &CacheStatusOutput{Body: statusOf(h.cache.Snapshot())}, nil
}

// Reload rebuilds the snapshot from the catalog API.
func (h *CacheHandler) Reload(ctx context.Context, _ *struct{}) (*CacheStatusOutput, error) {
	snap, err := h.cache.Refresh(ctx)
	if err != nil {
		return nil, huma.Error502BadGateway("catalog refresh failed: " + err.Error())
	}

	return &CacheStatusOutput{Body: statusOf(snap)}, nil
}

func statusOf(snap *catalog.Snapshot) CacheStatus {
	return CacheStatus{
		Entries:  len(snap.Entries),
		LoadedAt: snap.LoadedAt,
		Degraded: snap.Degraded,
		Reason:   snap.Reason,
	}
}

// RegisterCacheRoutes registers cache endpoints with the Huma API.
func RegisterCacheRoutes(api huma.API, h *CacheHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-cache",
		Method:      http.MethodGet,
		Path:        "/api/v1/cache",
		Summary:     "Inspect the catalog snapshot",
		Description: "Returns entry count, load time and degradation state of the current snapshot.",
		Tags:        []string{"cache"},
	}, h.GetStatus)

	huma.Register(api, huma.Operation{
		OperationID: "reload-cache",
		Method:      http.MethodPost,
		Path:        "/api/v1/cache/reload",
		Summary:     "Reload the catalog snapshot",
		Description: "Re-runs all configured search terms against the catalog API and swaps in a fresh snapshot.",
		Tags:        []string{"cache"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Reload)
}
