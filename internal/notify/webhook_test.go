package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundline/catalog-sync/internal/notify"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

func sampleRun() *domain.SyncRun {
	return &domain.SyncRun{
		ID:       "run-1",
		FileName: "march.xlsx",
		Status:   domain.RunStatusCompleted,
		Summary: domain.RunSummary{
			RecordsTotal: 10,
			Created:      3,
			Updated:      5,
			Skipped:      2,
		},
	}
}

func TestWebhookNotifier_SendRunSummary(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "s3cret", r.Header.Get("X-Auth"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sync_run_completed", payload["event"])
		assert.Equal(t, "run-1", payload["run_id"])
		assert.Equal(t, "march.xlsx", payload["file_name"])

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(srv.URL, notify.WithHeaders(map[string]string{"X-Auth": "s3cret"}))
	require.NoError(t, n.SendRunSummary(context.Background(), sampleRun()))
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(srv.URL)
	err := n.SendRunSummary(context.Background(), sampleRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNoopNotifier(t *testing.T) {
	t.Parallel()

	assert.NoError(t, notify.Noop{}.SendRunSummary(context.Background(), sampleRun()))
}
