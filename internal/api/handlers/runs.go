package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundline/catalog-sync/internal/store"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// RunsProvider defines the store methods required by the runs handler.
type RunsProvider interface {
	ListSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)
	GetSyncRun(ctx context.Context, id string) (*domain.SyncRun, error)
	ListMatchResults(ctx context.Context, runID string, opts *store.ResultQuery) ([]domain.StoredMatch, int, error)
}

// RunsHandler handles sync-run history requests.
type RunsHandler struct {
	store RunsProvider
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(s RunsProvider) *RunsHandler {
	return &RunsHandler{store: s}
}

const defaultRunListLimit = 20

// ListRunsInput is the request query for listing runs.
type ListRunsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"200" default:"20" doc:"Maximum number of runs to return"`
}

// ListRunsOutput is the response body for listing sync runs.
type ListRunsOutput struct {
	Body []domain.SyncRun
}

// GetRunInput is the request path for fetching one run.
type GetRunInput struct {
	ID string `path:"id" doc:"Sync run ID"`
}

// GetRunOutput is the response body for a single run.
type GetRunOutput struct {
	Body domain.SyncRun
}

// GetResultsInput is the request for listing a run's match results.
type GetResultsInput struct {
	ID        string `path:"id" doc:"Sync run ID"`
	Action    string `query:"action" doc:"Filter by recommended action (create, update, skip)"`
	MatchType string `query:"match_type" doc:"Filter by match strategy (e.g. exact_sku, fuzzy_name)"`
	Limit     int    `query:"limit" minimum:"1" maximum:"500" default:"100" doc:"Page size"`
	Offset    int    `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

// ResultsPage is one page of match results plus the total count.
type ResultsPage struct {
	Results []domain.StoredMatch `json:"results"`
	Total   int                  `json:"total" doc:"Total matching results before paging"`
}

// GetResultsOutput is the response body for a run's results.
type GetResultsOutput struct {
	Body ResultsPage
}

// ListRuns returns the most recent sync runs, newest first.
func (h *RunsHandler) ListRuns(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunListLimit
	}

	runs, err := h.store.ListSyncRuns(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing runs failed: " + err.Error())
	}

	if runs == nil {
		runs = []domain.SyncRun{}
	}

	return &ListRunsOutput{Body: runs}, nil
}

// GetRun returns one sync run by ID.
func (h *RunsHandler) GetRun(ctx context.Context, input *GetRunInput) (*GetRunOutput, error) {
	run, err := h.store.GetSyncRun(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("run not found: " + input.ID)
		}
		return nil, huma.Error500InternalServerError("fetching run failed: " + err.Error())
	}

	return &GetRunOutput{Body: *run}, nil
}

// GetResults returns the match results recorded for one run.
func (h *RunsHandler) GetResults(ctx context.Context, input *GetResultsInput) (*GetResultsOutput, error) {
	// Distinguish "unknown run" from "run with no results".
	if _, err := h.store.GetSyncRun(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("run not found: " + input.ID)
		}
		return nil, huma.Error500InternalServerError("fetching run failed: " + err.Error())
	}

	q := &store.ResultQuery{Limit: input.Limit, Offset: input.Offset}
	if input.Action != "" {
		q.Action = &input.Action
	}
	if input.MatchType != "" {
		q.MatchType = &input.MatchType
	}

	results, total, err := h.store.ListMatchResults(ctx, input.ID, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing results failed: " + err.Error())
	}

	if results == nil {
		results = []domain.StoredMatch{}
	}

	return &GetResultsOutput{Body: ResultsPage{Results: results, Total: total}}, nil
}

// RegisterRunRoutes registers run history endpoints with the Huma API.
func RegisterRunRoutes(api huma.API, h *RunsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs",
		Summary:     "List sync runs",
		Description: "Returns recent pricelist sync runs, newest first.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListRuns)

	huma.Register(api, huma.Operation{
		OperationID: "get-run",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs/{id}",
		Summary:     "Get a sync run",
		Description: "Returns one sync run with its summary.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetRun)

	huma.Register(api, huma.Operation{
		OperationID: "get-run-results",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs/{id}/results",
		Summary:     "Get match results for a run",
		Description: "Returns the per-record match results of a run, ordered by source row.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetResults)
}
