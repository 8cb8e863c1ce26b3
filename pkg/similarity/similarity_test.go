package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soundline/catalog-sync/pkg/similarity"
)

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	s := similarity.NewScorer()

	tests := []struct {
		name string
		a, b string
	}{
		{"identical", "Denon AVR-X1800H Receiver", "Denon AVR-X1800H Receiver"},
		{"disjoint", "Pioneer CDJ-3000", "garden hose reel"},
		{"empty left", "", "anything"},
		{"empty both", "", ""},
		{"transposition", "Deonn AVR", "Denon AVR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.Score(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	s := similarity.NewScorer()

	t.Run("identical after normalization", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1.0, s.Score("Denon 7.2Ch Receiver", "denon 7.2 channel receiver"))
	})

	t.Run("empty sides score zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, s.Score("", "Denon"))
		assert.Equal(t, 0.0, s.Score("Denon", ""))
		assert.Equal(t, 0.0, s.Score("", ""))
	})

	t.Run("word order does not matter much", func(t *testing.T) {
		t.Parallel()
		ordered := s.Score("Denon AVR-X1800H Receiver", "Receiver Denon AVR-X1800H")
		assert.GreaterOrEqual(t, ordered, 0.95)
	})

	t.Run("near duplicates score high", func(t *testing.T) {
		t.Parallel()
		got := s.Score("Denon AVR-X1800H 7.2 Channel Receiver",
			"Denon AVR-X1800H 7.2Ch AV Receiver")
		assert.Greater(t, got, 0.80)
	})

	t.Run("unrelated products score low", func(t *testing.T) {
		t.Parallel()
		got := s.Score("Pioneer CDJ-3000", "AKG C414 XLII microphone")
		assert.Less(t, got, 0.45)
	})

	t.Run("transposition tolerated", func(t *testing.T) {
		t.Parallel()
		got := s.Score("Deonn AVR-X1800H", "Denon AVR-X1800H")
		assert.Greater(t, got, 0.85)
	})
}

func TestVocabBonus(t *testing.T) {
	t.Parallel()

	plain := similarity.NewScorer(similarity.WithVocabBonusCap(0))
	boosted := similarity.NewScorer()

	a := "Denon 7.2 channel receiver dolby"
	b := "Marantz 7.2 channel receiver dolby"

	without := plain.Score(a, b)
	with := boosted.Score(a, b)

	assert.Greater(t, with, without, "shared vocabulary raises the score")
	assert.LessOrEqual(t, with-without, 0.10+1e-9, "bonus is capped")
}
