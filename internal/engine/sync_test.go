package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundline/catalog-sync/internal/engine"
	"github.com/soundline/catalog-sync/pkg/logger"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

func TestSynchronizerApply(t *testing.T) {
	t.Parallel()

	t.Run("create uses display name when present", func(t *testing.T) {
		t.Parallel()

		writer := newFakeWriter()
		s := engine.NewSynchronizer(writer, logger.Nop())

		err := s.Apply(context.Background(), &domain.MatchResult{
			Record: domain.IncomingRecord{
				Name:        "denon avr-x1800h 7.2ch rec",
				DisplayName: "Denon AVR-X1800H AV Receiver",
				Model:       "AVR-X1800H",
				PriceRaw:    "R1,299.00",
			},
			Action: domain.ActionCreate,
		})
		require.NoError(t, err)
		require.Len(t, writer.created, 1)
		assert.Equal(t, "Denon AVR-X1800H AV Receiver", writer.created[0].Name)
		assert.InDelta(t, 1299.0, writer.created[0].Price, 1e-9)
	})

	t.Run("skip is a no-op", func(t *testing.T) {
		t.Parallel()

		writer := newFakeWriter()
		s := engine.NewSynchronizer(writer, logger.Nop())

		require.NoError(t, s.Apply(context.Background(), &domain.MatchResult{
			Action: domain.ActionSkip,
		}))
		assert.Empty(t, writer.created)
		assert.Empty(t, writer.updated)
	})

	t.Run("update without match is an error", func(t *testing.T) {
		t.Parallel()

		writer := newFakeWriter()
		s := engine.NewSynchronizer(writer, logger.Nop())

		err := s.Apply(context.Background(), &domain.MatchResult{
			Record: domain.IncomingRecord{Name: "x"},
			Action: domain.ActionUpdate,
		})
		assert.Error(t, err)
	})

	t.Run("unknown action is an error", func(t *testing.T) {
		t.Parallel()

		writer := newFakeWriter()
		s := engine.NewSynchronizer(writer, logger.Nop())

		assert.Error(t, s.Apply(context.Background(), &domain.MatchResult{
			Action: domain.Action("explode"),
		}))
	})
}
