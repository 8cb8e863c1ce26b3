// Package domain defines the core business types for catalog-sync.
package domain

import (
	"time"
)

// MatchType identifies which strategy produced a match.
type MatchType string

// Match type constants, in strategy priority order.
const (
	MatchExactSKU       MatchType = "exact_sku"
	MatchExactModel     MatchType = "exact_model"
	MatchModelExtracted MatchType = "model_extracted"
	MatchFuzzyName      MatchType = "fuzzy_name"
	MatchPartial        MatchType = "partial_match"
	MatchNone           MatchType = "no_match"
)

// ConfidenceTier buckets a confidence score.
type ConfidenceTier string

// Confidence tier constants.
const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
	TierNone   ConfidenceTier = "none"
)

// Action is the downstream operation implied by a match result.
type Action string

// Action constants.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// IncomingRecord is a single parsed pricelist product, pre-resolution.
// Every field is best-effort and may be empty.
type IncomingRecord struct {
	Name         string `json:"name"`
	Model        string `json:"model,omitempty"`
	SKU          string `json:"sku,omitempty"`
	PriceRaw     string `json:"price,omitempty"`
	Description  string `json:"description,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`

	// DisplayName is an optional externally generated store name used as an
	// extra fuzzy-matching signal. Matching works without it.
	DisplayName string `json:"display_name,omitempty"`

	// SourceRow is the 1-based row in the source pricelist, 0 if unknown.
	SourceRow int `json:"source_row,omitempty"`
}

// CatalogEntry is a product already present in the target catalog.
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Model       string `json:"model,omitempty"`
	SKU         string `json:"sku,omitempty"`
	PriceRaw    string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
}

// CandidateScore records how one catalog candidate scored against a record,
// kept for diagnostics.
type CandidateScore struct {
	EntryID   string    `json:"entry_id"`
	EntryName string    `json:"entry_name"`
	MatchType MatchType `json:"match_type"`
	Score     float64   `json:"score"`
}

// MatchResult is the outcome of resolving one incoming record against the
// catalog snapshot.
type MatchResult struct {
	Record          IncomingRecord   `json:"record"`
	Matched         *CatalogEntry    `json:"matched,omitempty"`
	MatchType       MatchType        `json:"match_type"`
	ConfidenceScore float64          `json:"confidence_score"`
	ConfidenceTier  ConfidenceTier   `json:"confidence_tier"`
	Action          Action           `json:"action"`
	Issues          []string         `json:"issues,omitempty"`
	PriceDelta      *float64         `json:"price_delta,omitempty"`
	Diagnostics     []CandidateScore `json:"diagnostics,omitempty"`
}

// SyncRun records a single pricelist processing run.
type SyncRun struct {
	ID          string     `json:"id"                     db:"id"`
	FileName    string     `json:"file_name"              db:"file_name"`
	Status      string     `json:"status"                 db:"status"`
	ErrorText   string     `json:"error_text,omitempty"   db:"error_text"`
	StartedAt   time.Time  `json:"started_at"             db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Summary     RunSummary `json:"summary"`
}

// Run status constants.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunSummary aggregates the outcomes of one run.
type RunSummary struct {
	RecordsTotal int `json:"records_total" db:"records_total"`
	Created      int `json:"created"       db:"created"`
	Updated      int `json:"updated"       db:"updated"`
	Skipped      int `json:"skipped"       db:"skipped"`
	Failed       int `json:"failed"        db:"failed"`

	ByMatchType map[MatchType]int      `json:"by_match_type,omitempty"`
	ByTier      map[ConfidenceTier]int `json:"by_tier,omitempty"`

	CacheDegraded bool `json:"cache_degraded,omitempty"`
}

// Add folds one match result (and whether applying it failed) into the summary.
func (s *RunSummary) Add(r *MatchResult, applyFailed bool) {
	s.RecordsTotal++

	if s.ByMatchType == nil {
		s.ByMatchType = make(map[MatchType]int)
	}
	if s.ByTier == nil {
		s.ByTier = make(map[ConfidenceTier]int)
	}
	s.ByMatchType[r.MatchType]++
	s.ByTier[r.ConfidenceTier]++

	if applyFailed {
		s.Failed++
		return
	}

	switch r.Action {
	case ActionCreate:
		s.Created++
	case ActionUpdate:
		s.Updated++
	case ActionSkip:
		s.Skipped++
	}
}

// StoredMatch is the persisted projection of a MatchResult.
type StoredMatch struct {
	ID          string    `json:"id"                     db:"id"`
	RunID       string    `json:"run_id"                 db:"run_id"`
	SourceRow   int       `json:"source_row"             db:"source_row"`
	RecordName  string    `json:"record_name"            db:"record_name"`
	RecordModel string    `json:"record_model,omitempty" db:"record_model"`
	RecordSKU   string    `json:"record_sku,omitempty"   db:"record_sku"`
	RecordPrice string    `json:"record_price,omitempty" db:"record_price"`
	MatchedID   string    `json:"matched_id,omitempty"   db:"matched_id"`
	MatchedName string    `json:"matched_name,omitempty" db:"matched_name"`
	MatchType   MatchType `json:"match_type"             db:"match_type"`
	Confidence  float64   `json:"confidence"             db:"confidence"`
	Tier        string    `json:"tier"                   db:"tier"`
	Action      Action    `json:"action"                 db:"action"`
	PriceDelta  *float64  `json:"price_delta,omitempty"  db:"price_delta"`
	Issues      []string  `json:"issues,omitempty"       db:"issues"`
	CreatedAt   time.Time `json:"created_at"             db:"created_at"`
}
