// Package catalog provides the target e-commerce catalog API client and an
// in-memory snapshot cache built from its search results, abstracted behind
// interfaces for testability.
package catalog

import (
	"context"
	"errors"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

// ErrUnavailable indicates the catalog API could not be reached at all.
var ErrUnavailable = errors.New("catalog unavailable")

// Searcher is the read side of the catalog API. An empty result is an empty
// slice with a nil error, never an error.
type Searcher interface {
	Search(ctx context.Context, term string) ([]domain.CatalogEntry, error)
}

// Writer is the write side of the catalog API.
type Writer interface {
	CreateProduct(ctx context.Context, p ProductInput) (string, error)
	UpdateProduct(ctx context.Context, id string, p ProductInput) error
}

// Client is the full catalog API surface.
type Client interface {
	Searcher
	Writer
}

// ProductInput is the payload for creating or updating a catalog product.
type ProductInput struct {
	Name         string  `json:"name"`
	Model        string  `json:"model,omitempty"`
	SKU          string  `json:"sku,omitempty"`
	Price        float64 `json:"price"`
	Description  string  `json:"description,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
}
