package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundline/catalog-sync/pkg/matcher"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

func catalogFixture() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{
			ID:       "101",
			Name:     "Denon AVR-X1800H 7.2 Channel 8K AV Receiver",
			Model:    "AVR-X1800H",
			SKU:      "DEN-AVRX1800H",
			PriceRaw: "1299.00",
		},
		{
			ID:       "102",
			Name:     "Pioneer CDJ-3000 Professional DJ Multi Player",
			Model:    "CDJ-3000",
			SKU:      "PIO-CDJ3000",
			PriceRaw: "2499.00",
		},
		{
			ID:       "103",
			Name:     "AKG C414 XLII Condenser Microphone",
			Model:    "C414",
			SKU:      "AKG-C414",
			PriceRaw: "999.00",
		},
	}
}

func TestMatchExactSKU(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "Some listing title",
		Model:    "AVR-X1800H",
		SKU:      "den-avrx1800h",
		PriceRaw: "1199.00",
	}

	res := m.Match(rec, catalogFixture())

	require.NotNil(t, res.Matched)
	assert.Equal(t, "101", res.Matched.ID)
	assert.Equal(t, domain.MatchExactSKU, res.MatchType)
	assert.Equal(t, 1.0, res.ConfidenceScore)
	assert.Equal(t, domain.TierHigh, res.ConfidenceTier)
	assert.Equal(t, domain.ActionUpdate, res.Action)
}

func TestMatchExactModel(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "Denon AV Receiver bundle",
		Model:    "avr-x1800h",
		PriceRaw: "R1,299.00",
	}

	res := m.Match(rec, catalogFixture())

	require.NotNil(t, res.Matched)
	assert.Equal(t, "101", res.Matched.ID)
	assert.Equal(t, domain.MatchExactModel, res.MatchType)
	assert.Equal(t, 0.95, res.ConfidenceScore)
	assert.Equal(t, domain.TierHigh, res.ConfidenceTier)
	assert.Equal(t, domain.ActionUpdate, res.Action)

	require.NotNil(t, res.PriceDelta)
	assert.InDelta(t, 0.0, *res.PriceDelta, 1e-9)
}

func TestMatchModelExtractedFromName(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "Pioneer CDJ-3000 multi player (demo unit)",
		Model:    "N/A-UNKNOWN",
		PriceRaw: "2299.00",
	}

	res := m.Match(rec, catalogFixture())

	require.NotNil(t, res.Matched)
	assert.Equal(t, "102", res.Matched.ID)
	assert.Equal(t, domain.MatchModelExtracted, res.MatchType)
	assert.Equal(t, 0.90, res.ConfidenceScore)
	assert.Equal(t, domain.ActionUpdate, res.Action)
}

func TestMatchModelExtractedFromModelField(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "Denon flagship AV receiver promo bundle",
		Model:    "Bundle AVR-X1800H promo",
		PriceRaw: "1199.00",
	}

	res := m.Match(rec, catalogFixture())

	require.NotNil(t, res.Matched)
	assert.Equal(t, "101", res.Matched.ID)
	assert.Equal(t, domain.MatchModelExtracted, res.MatchType)
	assert.Equal(t, 0.90, res.ConfidenceScore)
	assert.Equal(t, domain.ActionUpdate, res.Action)
}

func TestMatchFuzzyName(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "AKG C-FOUR-ONE-FOUR XLII Condenser Microphone",
		Model:    "XL2",
		PriceRaw: "950.00",
	}

	res := m.Match(rec, catalogFixture())

	require.NotNil(t, res.Matched)
	assert.Equal(t, "103", res.Matched.ID)
	assert.Equal(t, domain.MatchFuzzyName, res.MatchType)
	assert.GreaterOrEqual(t, res.ConfidenceScore, 0.75)
}

func TestNoMatchCreates(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "Unknown Widget XYZ-9999",
		Model:    "XYZ-9999",
		PriceRaw: "49.99",
	}

	res := m.Match(rec, catalogFixture())

	assert.Nil(t, res.Matched)
	assert.Equal(t, domain.MatchNone, res.MatchType)
	assert.Equal(t, domain.TierNone, res.ConfidenceTier)
	assert.Equal(t, domain.ActionCreate, res.Action)
	assert.Nil(t, res.PriceDelta)
}

func TestSkipDominates(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())

	tests := []struct {
		name string
		rec  domain.IncomingRecord
	}{
		{
			name: "missing name",
			rec:  domain.IncomingRecord{Model: "AVR-X1800H", SKU: "DEN-AVRX1800H", PriceRaw: "1299.00"},
		},
		{
			name: "missing model",
			rec:  domain.IncomingRecord{Name: "Denon AVR-X1800H", SKU: "DEN-AVRX1800H", PriceRaw: "1299.00"},
		},
		{
			name: "unparsable price",
			rec:  domain.IncomingRecord{Name: "Denon AVR-X1800H", Model: "AVR-X1800H", PriceRaw: "call us"},
		},
		{
			name: "zero price",
			rec:  domain.IncomingRecord{Name: "Denon AVR-X1800H", Model: "AVR-X1800H", PriceRaw: "0"},
		},
		{
			name: "negative price",
			rec:  domain.IncomingRecord{Name: "Denon AVR-X1800H", Model: "AVR-X1800H", PriceRaw: "-10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := m.Match(tt.rec, catalogFixture())
			assert.Equal(t, domain.ActionSkip, res.Action,
				"unusable data skips even when the record matches well")
			assert.NotEmpty(t, res.Issues)
		})
	}
}

func TestTieBreakLowestID(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	candidates := []domain.CatalogEntry{
		{ID: "205", Name: "Denon AVR-X1800H Receiver", Model: "AVR-X1800H", PriceRaw: "1299.00"},
		{ID: "104", Name: "Denon AVR-X1800H Receiver", Model: "AVR-X1800H", PriceRaw: "1299.00"},
	}
	rec := domain.IncomingRecord{
		Name:     "Denon AVR-X1800H Receiver",
		Model:    "AVR-X1800H",
		PriceRaw: "1299.00",
	}

	res := m.Match(rec, candidates)

	require.NotNil(t, res.Matched)
	assert.Equal(t, "104", res.Matched.ID)
}

func TestMatchIsDeterministic(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "Denon AVR-X1800H 7.2Ch Receiver",
		Model:    "AVR-X1800H",
		PriceRaw: "1250.00",
	}

	first := m.Match(rec, catalogFixture())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Match(rec, catalogFixture()))
	}
}

func TestCandidatesNotMutated(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	candidates := catalogFixture()
	want := catalogFixture()

	rec := domain.IncomingRecord{Name: "Denon AVR-X1800H", Model: "AVR-X1800H", PriceRaw: "1299.00"}
	res := m.Match(rec, candidates)

	require.NotNil(t, res.Matched)
	res.Matched.Name = "mutated"

	assert.Equal(t, want, candidates)
}

func TestIssuesOnMatchedRecord(t *testing.T) {
	t.Parallel()

	m := matcher.New(matcher.DefaultConfig())
	rec := domain.IncomingRecord{
		Name:     "Denon AVR-X1800H 7.2 Channel 8K AV Receiver",
		Model:    "AVR-X1800H",
		PriceRaw: "2000.00", // 54% above catalog
	}

	res := m.Match(rec, catalogFixture())

	require.NotNil(t, res.Matched)
	assert.Contains(t, res.Issues, "missing description")

	var priceIssue bool
	for _, is := range res.Issues {
		if len(is) > 0 && is[0] == 'p' {
			priceIssue = true
		}
	}
	assert.True(t, priceIssue, "large price delta is flagged: %v", res.Issues)
}

func TestDiagnosticsTrimmedAndSorted(t *testing.T) {
	t.Parallel()

	cfg := matcher.DefaultConfig()
	cfg.MaxDiagnostics = 2
	m := matcher.New(cfg)

	rec := domain.IncomingRecord{
		Name:     "Denon AVR-X1800H 7.2 Channel 8K AV Receiver",
		Model:    "AVR-X1800H",
		PriceRaw: "1299.00",
	}

	res := m.Match(rec, catalogFixture())

	require.Len(t, res.Diagnostics, 2)
	assert.GreaterOrEqual(t, res.Diagnostics[0].Score, res.Diagnostics[1].Score)
	assert.Equal(t, "101", res.Diagnostics[0].EntryID)
}
