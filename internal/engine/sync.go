package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundline/catalog-sync/internal/catalog"
	"github.com/soundline/catalog-sync/pkg/extract"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// Synchronizer turns match results into catalog writes: create for new
// products, update for confident matches.
type Synchronizer struct {
	writer catalog.Writer
	log    *slog.Logger
}

// NewSynchronizer creates a Synchronizer over the catalog write API.
func NewSynchronizer(writer catalog.Writer, log *slog.Logger) *Synchronizer {
	return &Synchronizer{writer: writer, log: log}
}

// Apply executes one result's action against the catalog. Skip is a no-op.
func (s *Synchronizer) Apply(ctx context.Context, r *domain.MatchResult) error {
	switch r.Action {
	case domain.ActionSkip:
		return nil

	case domain.ActionCreate:
		id, err := s.writer.CreateProduct(ctx, productInput(r))
		if err != nil {
			return fmt.Errorf("creating product %q: %w", r.Record.Name, err)
		}
		s.log.Debug("product created", "id", id, "name", r.Record.Name)
		return nil

	case domain.ActionUpdate:
		if r.Matched == nil {
			return fmt.Errorf("update action without a matched entry for %q", r.Record.Name)
		}
		if err := s.writer.UpdateProduct(ctx, r.Matched.ID, productInput(r)); err != nil {
			return fmt.Errorf("updating product %s: %w", r.Matched.ID, err)
		}
		s.log.Debug("product updated",
			"id", r.Matched.ID, "name", r.Record.Name, "confidence", r.ConfidenceScore)
		return nil

	default:
		return fmt.Errorf("unknown action %q", r.Action)
	}
}

func productInput(r *domain.MatchResult) catalog.ProductInput {
	price, _ := extract.Price(r.Record.PriceRaw)

	name := r.Record.DisplayName
	if name == "" {
		name = r.Record.Name
	}

	return catalog.ProductInput{
		Name:         name,
		Model:        r.Record.Model,
		SKU:          r.Record.SKU,
		Price:        price,
		Description:  r.Record.Description,
		Manufacturer: r.Record.Manufacturer,
	}
}
