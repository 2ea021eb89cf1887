package catalog

import (
	"context"

	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/search"
)

// Accessor is the read-only view of the product catalog consumed by the
// search subsystem. Implementations may be in-memory or Postgres-backed.
// The search subsystem never mutates catalog data through this interface.
type Accessor interface {
	// FindActive returns all active products matching the compiled filter spec.
	FindActive(ctx context.Context, spec search.FilterSpec) ([]domain.Product, error)

	// CountActive returns the number of active products matching the spec.
	CountActive(ctx context.Context, spec search.FilterSpec) (int, error)

	// GetByID returns the product with the given ID, or nil when absent.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Writer is implemented by catalog stores this service keeps in sync itself
// (the in-memory store, fed by sync endpoints and product events). The
// Postgres store is owned by the product service and has no Writer.
type Writer interface {
	Upsert(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	BulkUpsert(ctx context.Context, products []domain.Product) error
}
