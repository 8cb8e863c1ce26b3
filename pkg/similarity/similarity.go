// Package similarity scores how alike two product strings are, combining
// Damerau-Levenshtein edit distance with token-order-insensitive variants and
// a small bonus for shared audio-domain vocabulary.
package similarity

import (
	"sort"
	"strings"

	"github.com/soundline/catalog-sync/pkg/normalize"
)

// domainVocab is the fixed set of audio terms that raise confidence when both
// sides mention them. Normalization has already expanded abbreviations, so only
// canonical forms appear here.
var domainVocab = map[string]struct{}{
	"receiver":   {},
	"amplifier":  {},
	"speaker":    {},
	"microphone": {},
	"channel":    {},
	"dolby":      {},
	"dts":        {},
	"hdmi":       {},
}

const perTermBonus = 0.03

// Scorer computes string similarity in [0,1]. Safe for concurrent use.
type Scorer struct {
	vocabBonusCap float64
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithVocabBonusCap bounds the total domain-vocabulary bonus (default 0.10).
// A cap of 0 disables the bonus.
func WithVocabBonusCap(cap float64) ScorerOption {
	return func(s *Scorer) {
		if cap >= 0 {
			s.vocabBonusCap = cap
		}
	}
}

// NewScorer builds a Scorer with the default bonus cap.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{vocabBonusCap: 0.10}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the similarity of a and b in [0,1]. Either side empty after
// normalization scores 0. Identical normalized strings score 1.
func (s *Scorer) Score(a, b string) float64 {
	na, nb := normalize.Normalize(a), normalize.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	base := ratio(na, nb)
	if ts := tokenSortRatio(na, nb); ts > base {
		base = ts
	}
	if ts := tokenSetRatio(na, nb); ts > base {
		base = ts
	}

	score := base + s.vocabBonus(na, nb)
	return clamp01(score)
}

// vocabBonus counts domain terms present on both sides, bounded by the cap.
func (s *Scorer) vocabBonus(na, nb string) float64 {
	if s.vocabBonusCap == 0 {
		return 0
	}

	ta := tokenSet(strings.Fields(na))
	bonus := 0.0
	seen := make(map[string]struct{})

	for _, tok := range strings.Fields(nb) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}

		if _, inVocab := domainVocab[tok]; !inVocab {
			continue
		}
		if _, shared := ta[tok]; shared {
			bonus += perTermBonus
		}
	}

	if bonus > s.vocabBonusCap {
		bonus = s.vocabBonusCap
	}
	return bonus
}

// tokenSortRatio compares the two strings with their tokens sorted, making the
// score insensitive to word order.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortedTokens(a), sortedTokens(b))
}

// tokenSetRatio compares the shared-token core against each full token set,
// rewarding one string being a subset of the other.
func tokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(strings.Fields(a)), tokenSet(strings.Fields(b))

	var shared []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared = append(shared, tok)
		}
	}
	if len(shared) == 0 {
		return 0
	}
	sort.Strings(shared)
	core := strings.Join(shared, " ")

	r1 := ratio(core, sortedTokens(a))
	r2 := ratio(core, sortedTokens(b))
	if r2 > r1 {
		return r2
	}
	return r1
}

func sortedTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func tokenSet(toks []string) map[string]struct{} {
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
