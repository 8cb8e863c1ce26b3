package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

// TriggerSync processes a server-side pricelist file and returns the run.
func (c *Client) TriggerSync(ctx context.Context, path string) (*domain.SyncRun, error) {
	var run domain.SyncRun
	body := map[string]string{"path": path}
	if err := c.post(ctx, "/api/v1/sync", body, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns recent sync runs, newest first.
func (c *Client) ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	path := "/api/v1/runs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var runs []domain.SyncRun
	if err := c.get(ctx, path, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun returns one sync run by ID.
func (c *Client) GetRun(ctx context.Context, id string) (*domain.SyncRun, error) {
	var run domain.SyncRun
	if err := c.get(ctx, "/api/v1/runs/"+url.PathEscape(id), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ResultsParams filters a results query.
type ResultsParams struct {
	Action    string
	MatchType string
	Limit     int
	Offset    int
}

// ResultsResponse is one page of match results plus the total count.
type ResultsResponse struct {
	Results []domain.StoredMatch `json:"results"`
	Total   int                  `json:"total"`
}

// GetResults returns the match results recorded for one run.
func (c *Client) GetResults(ctx context.Context, runID string, params *ResultsParams) (*ResultsResponse, error) {
	path := fmt.Sprintf("/api/v1/runs/%s/results", url.PathEscape(runID))

	if params != nil {
		q := url.Values{}
		if params.Action != "" {
			q.Set("action", params.Action)
		}
		if params.MatchType != "" {
			q.Set("match_type", params.MatchType)
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.Offset > 0 {
			q.Set("offset", strconv.Itoa(params.Offset))
		}
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
	}

	var resp ResultsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
