package memory

import (
	"context"
	"sync"

	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/search"
)

// Store is an in-memory catalog accessor. It is the default backend and is
// populated through the catalog sync endpoints and product events.
// Thread-safe via sync.RWMutex.
type Store struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// New creates an empty in-memory catalog store.
func New() *Store {
	return &Store{products: make(map[string]domain.Product)}
}

// FindActive returns all active products matching the spec.
func (s *Store) FindActive(_ context.Context, spec search.FilterSpec) ([]domain.Product, error) {
	if spec.EmptyRange() {
		return []domain.Product{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Product, 0)
	for _, p := range s.products {
		if !p.Active {
			continue
		}
		if !spec.Match(p) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// CountActive returns the number of active products matching the spec.
func (s *Store) CountActive(ctx context.Context, spec search.FilterSpec) (int, error) {
	matched, err := s.FindActive(ctx, spec)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// GetByID returns the product with the given ID, or nil when absent.
func (s *Store) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Upsert adds or replaces a product.
func (s *Store) Upsert(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = *p
	return nil
}

// Delete removes a product by ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

// BulkUpsert adds or replaces multiple products.
func (s *Store) BulkUpsert(_ context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range products {
		s.products[products[i].ID] = products[i]
	}
	return nil
}

// Len returns the number of stored products, active or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
