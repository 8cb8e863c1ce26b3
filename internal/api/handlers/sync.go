package handlers

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

// FileProcessor defines the interface for running a pricelist through the
// matching pipeline.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (*domain.SyncRun, error)
}

// SyncHandler handles manual pricelist sync requests.
type SyncHandler struct {
	engine FileProcessor
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(eng FileProcessor) *SyncHandler {
	return &SyncHandler{engine: eng}
}

// SyncInput is the request body for triggering a sync.
type SyncInput struct {
	Body struct {
		Path string `json:"path" minLength:"1" doc:"Server-side path to the pricelist file (.xlsx, .xlsm or .csv)"`
	}
}

// SyncOutput is the response body for a completed sync run.
type SyncOutput struct {
	Body domain.SyncRun
}

// Sync processes one pricelist file and returns the completed run.
func (h *SyncHandler) Sync(ctx context.Context, input *SyncInput) (*SyncOutput, error) {
	run, err := h.engine.ProcessFile(ctx, input.Body.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, huma.Error404NotFound("pricelist not found: " + input.Body.Path)
		}
		return nil, huma.Error422UnprocessableEntity("processing failed: " + err.Error())
	}

	return &SyncOutput{Body: *run}, nil
}

// RegisterSyncRoutes registers sync endpoints with the Huma API.
func RegisterSyncRoutes(api huma.API, h *SyncHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync",
		Summary:     "Process a pricelist file",
		Description: "Parses the given pricelist, matches every record against the " +
			"catalog snapshot and applies create/update actions.",
		Tags:   []string{"sync"},
		Errors: []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.Sync)
}
