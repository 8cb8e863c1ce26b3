// Package matcher resolves incoming pricelist records against catalog
// candidates. Matching is a pure function over its inputs: no I/O, no clock,
// no randomness, so identical inputs always produce identical results.
package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/soundline/catalog-sync/pkg/extract"
	"github.com/soundline/catalog-sync/pkg/normalize"
	"github.com/soundline/catalog-sync/pkg/similarity"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// Fixed scores for the deterministic strategies.
const (
	scoreExactSKU       = 1.0
	scoreExactModel     = 0.95
	scoreModelExtracted = 0.90
)

// Config holds the matching thresholds. All values are in [0,1] except
// PriceTolerancePct and MinModelTokenLen.
type Config struct {
	FuzzyThreshold   float64
	PartialThreshold float64

	HighTier   float64
	MediumTier float64
	LowTier    float64

	// UpdateThreshold is the minimum confidence to update an existing catalog
	// entry instead of creating a new one.
	UpdateThreshold float64

	// PriceTolerancePct flags matches whose price differs by more than this
	// percentage of the catalog price.
	PriceTolerancePct float64

	MinModelTokenLen int
	VocabBonusCap    float64
	MaxDiagnostics   int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:    0.75,
		PartialThreshold:  0.55,
		HighTier:          0.85,
		MediumTier:        0.65,
		LowTier:           0.45,
		UpdateThreshold:   0.65,
		PriceTolerancePct: 20,
		MinModelTokenLen:  3,
		VocabBonusCap:     0.10,
		MaxDiagnostics:    5,
	}
}

// Matcher resolves records against candidate sets. Safe for concurrent use.
type Matcher struct {
	cfg       Config
	scorer    *similarity.Scorer
	extractor *extract.ModelExtractor
}

// New builds a Matcher from cfg, falling back to DefaultConfig values for
// zero thresholds.
func New(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if cfg.PartialThreshold == 0 {
		cfg.PartialThreshold = def.PartialThreshold
	}
	if cfg.HighTier == 0 {
		cfg.HighTier = def.HighTier
	}
	if cfg.MediumTier == 0 {
		cfg.MediumTier = def.MediumTier
	}
	if cfg.LowTier == 0 {
		cfg.LowTier = def.LowTier
	}
	if cfg.UpdateThreshold == 0 {
		cfg.UpdateThreshold = def.UpdateThreshold
	}
	if cfg.PriceTolerancePct == 0 {
		cfg.PriceTolerancePct = def.PriceTolerancePct
	}
	if cfg.MinModelTokenLen == 0 {
		cfg.MinModelTokenLen = def.MinModelTokenLen
	}
	if cfg.MaxDiagnostics == 0 {
		cfg.MaxDiagnostics = def.MaxDiagnostics
	}

	return &Matcher{
		cfg:       cfg,
		scorer:    similarity.NewScorer(similarity.WithVocabBonusCap(cfg.VocabBonusCap)),
		extractor: extract.NewModelExtractor(extract.WithMinLength(cfg.MinModelTokenLen)),
	}
}

// Match resolves one record against the candidate set and returns the best
// match with its confidence, tier, recommended action and any data issues.
// Candidates are never mutated.
func (m *Matcher) Match(rec domain.IncomingRecord, candidates []domain.CatalogEntry) domain.MatchResult {
	res := domain.MatchResult{
		Record:    rec,
		MatchType: domain.MatchNone,
	}

	best := m.bestCandidate(rec, candidates, &res)
	if best != nil {
		res.Matched = best
	}

	// A score below the lowest tier is not a match at all.
	if res.ConfidenceScore < m.cfg.LowTier {
		res.Matched = nil
		res.MatchType = domain.MatchNone
	}

	res.ConfidenceTier = m.tier(res.ConfidenceScore)
	m.decideAction(&res)
	m.collectIssues(&res)

	return res
}

// bestCandidate scores every candidate and returns a copy of the winner.
// Ties break toward the lexicographically lowest candidate ID.
func (m *Matcher) bestCandidate(rec domain.IncomingRecord, candidates []domain.CatalogEntry, res *domain.MatchResult) *domain.CatalogEntry {
	var (
		best      *domain.CatalogEntry
		bestType  = domain.MatchNone
		bestScore = 0.0
	)

	for i := range candidates {
		c := &candidates[i]
		mt, score := m.scoreCandidate(rec, c)

		res.Diagnostics = append(res.Diagnostics, domain.CandidateScore{
			EntryID:   c.ID,
			EntryName: c.Name,
			MatchType: mt,
			Score:     score,
		})

		if mt == domain.MatchNone {
			continue
		}

		switch {
		case score > bestScore:
			best, bestType, bestScore = c, mt, score
		case score == bestScore && best != nil && c.ID < best.ID:
			best, bestType = c, mt
		}
	}

	m.trimDiagnostics(res)

	if best == nil {
		return nil
	}

	res.MatchType = bestType
	res.ConfidenceScore = bestScore

	found := *best
	return &found
}

// scoreCandidate runs the strategy cascade against one candidate and returns
// the first strategy that fires.
func (m *Matcher) scoreCandidate(rec domain.IncomingRecord, c *domain.CatalogEntry) (domain.MatchType, float64) {
	if normalize.Equal(rec.SKU, c.SKU) {
		return domain.MatchExactSKU, scoreExactSKU
	}

	if normalize.Equal(rec.Model, c.Model) || normalize.Equal(rec.Model, c.SKU) {
		return domain.MatchExactModel, scoreExactModel
	}

	tok := m.extractor.ModelToken(rec.Name)
	if tok == "" {
		// The model column often carries a usable token inside bundle or
		// promo text even when the name does not.
		tok = m.extractor.ModelToken(rec.Model)
	}
	if tok != "" {
		if normalize.Equal(tok, c.Model) || normalize.Equal(tok, c.SKU) ||
			containsToken(c.Name, tok) {
			return domain.MatchModelExtracted, scoreModelExtracted
		}
	}

	sim := m.scorer.Score(rec.Name, c.Name)
	if rec.DisplayName != "" {
		if ds := m.scorer.Score(rec.DisplayName, c.Name); ds > sim {
			sim = ds
		}
	}

	if sim >= m.cfg.FuzzyThreshold {
		return domain.MatchFuzzyName, sim
	}
	if sim >= m.cfg.PartialThreshold {
		return domain.MatchPartial, sim
	}

	return domain.MatchNone, 0
}

func (m *Matcher) tier(score float64) domain.ConfidenceTier {
	switch {
	case score >= m.cfg.HighTier:
		return domain.TierHigh
	case score >= m.cfg.MediumTier:
		return domain.TierMedium
	case score >= m.cfg.LowTier:
		return domain.TierLow
	default:
		return domain.TierNone
	}
}

// decideAction picks skip, update or create. Unusable source data always
// skips, regardless of how well the record matched.
func (m *Matcher) decideAction(res *domain.MatchResult) {
	rec := res.Record

	price, priceOK := extract.Price(rec.PriceRaw)
	unusable := strings.TrimSpace(rec.Name) == "" ||
		strings.TrimSpace(rec.Model) == "" ||
		!priceOK || price <= 0

	switch {
	case unusable:
		res.Action = domain.ActionSkip
	case res.Matched != nil && res.ConfidenceScore >= m.cfg.UpdateThreshold:
		res.Action = domain.ActionUpdate
	default:
		res.Action = domain.ActionCreate
	}

	if res.Matched != nil && priceOK {
		if cp, ok := extract.Price(res.Matched.PriceRaw); ok {
			delta := price - cp
			res.PriceDelta = &delta
		}
	}
}

// collectIssues annotates the result with data-quality warnings. Issues never
// change the action; they surface in reports and persisted results.
func (m *Matcher) collectIssues(res *domain.MatchResult) {
	rec := res.Record

	if strings.TrimSpace(rec.Name) == "" {
		res.Issues = append(res.Issues, "missing product name")
	}
	if strings.TrimSpace(rec.Model) == "" {
		res.Issues = append(res.Issues, "missing model number")
	}
	if price, ok := extract.Price(rec.PriceRaw); !ok || price <= 0 {
		res.Issues = append(res.Issues, "missing or invalid price")
	}
	if strings.TrimSpace(rec.Description) == "" {
		res.Issues = append(res.Issues, "missing description")
	}

	if res.Matched == nil {
		return
	}

	if res.ConfidenceTier == domain.TierLow {
		res.Issues = append(res.Issues,
			fmt.Sprintf("low confidence match (%.2f) against %q", res.ConfidenceScore, res.Matched.Name))
	}

	if res.PriceDelta != nil {
		if cp, ok := extract.Price(res.Matched.PriceRaw); ok && cp > 0 {
			pct := math.Abs(*res.PriceDelta) / cp * 100
			if pct > m.cfg.PriceTolerancePct {
				res.Issues = append(res.Issues,
					fmt.Sprintf("price differs by %.1f%% from catalog", pct))
			}
		}
	}

	if rec.Model != "" && res.Matched.Model != "" && !normalize.Equal(rec.Model, res.Matched.Model) {
		res.Issues = append(res.Issues, "model differs from matched entry")
	}
	if rec.SKU != "" && res.Matched.SKU != "" && !normalize.Equal(rec.SKU, res.Matched.SKU) {
		res.Issues = append(res.Issues, "sku differs from matched entry")
	}
}

// trimDiagnostics keeps only the top-scoring candidates, sorted by score then
// ID for stable output.
func (m *Matcher) trimDiagnostics(res *domain.MatchResult) {
	sort.Slice(res.Diagnostics, func(i, j int) bool {
		if res.Diagnostics[i].Score != res.Diagnostics[j].Score {
			return res.Diagnostics[i].Score > res.Diagnostics[j].Score
		}
		return res.Diagnostics[i].EntryID < res.Diagnostics[j].EntryID
	})
	if len(res.Diagnostics) > m.cfg.MaxDiagnostics {
		res.Diagnostics = res.Diagnostics[:m.cfg.MaxDiagnostics]
	}
}

// containsToken reports whether the normalized name contains tok as a whole
// token.
func containsToken(name, tok string) bool {
	nt := normalize.Normalize(tok)
	if nt == "" {
		return false
	}
	for _, t := range normalize.Tokens(name) {
		if t == nt {
			return true
		}
	}
	return false
}
