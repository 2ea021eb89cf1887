package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/search"
)

// DB is the subset of pgxpool.Pool used by the store. pgxmock satisfies it
// in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store is a Postgres-backed catalog accessor. The products table is owned by
// the product service; this store only reads it.
type Store struct {
	db DB
}

// New creates a Postgres-backed catalog store.
func New(db DB) *Store {
	return &Store{db: db}
}

const productColumns = `id, name_es, name_en, description_es, description_en,
		category, subcategory, brand, model, price, rating, review_count,
		stock, featured, is_new, active, image_url, specs, created_at, updated_at`

// FindActive returns all active products matching the spec. Text-term
// matching and relevance scoring happen in-process; only the structured
// filters are pushed down to SQL.
func (s *Store) FindActive(ctx context.Context, spec search.FilterSpec) ([]domain.Product, error) {
	if spec.EmptyRange() {
		return []domain.Product{}, nil
	}

	where, args := buildConditions(spec)
	query := fmt.Sprintf("SELECT %s FROM products WHERE %s", productColumns, where)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// CountActive returns the number of active products matching the spec.
func (s *Store) CountActive(ctx context.Context, spec search.FilterSpec) (int, error) {
	if spec.EmptyRange() {
		return 0, nil
	}

	where, args := buildConditions(spec)
	query := "SELECT COUNT(*) FROM products WHERE " + where

	var count int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return count, nil
}

// GetByID returns the product with the given ID, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)

	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query product by id: %w", err)
		}
		return nil, nil
	}

	p, err := scanProduct(rows)
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

// Ping verifies database connectivity, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// buildConditions translates the filter spec into a WHERE clause with
// positional args. The base visibility predicate is always included.
func buildConditions(spec search.FilterSpec) (string, []any) {
	conditions := []string{"active = TRUE"}
	var args []any
	argIndex := 1

	add := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIndex))
		args = append(args, value)
		argIndex++
	}

	if spec.Category != "" {
		add("category = $%d", spec.Category)
	}
	if spec.Subcategory != "" {
		add("subcategory = $%d", spec.Subcategory)
	}
	if spec.Brand != "" {
		add("brand ILIKE $%d", "%"+spec.Brand+"%")
	}
	if spec.MinPrice != nil {
		add("price >= $%d", *spec.MinPrice)
	}
	if spec.MaxPrice != nil {
		add("price <= $%d", *spec.MaxPrice)
	}
	if spec.MinRating != nil {
		add("rating >= $%d", *spec.MinRating)
	}
	if spec.InStock {
		conditions = append(conditions, "stock > 0")
	}
	if spec.Featured {
		conditions = append(conditions, "featured = TRUE")
	}

	// Spec keys come back in map order; sort them so the generated SQL is
	// deterministic for tests and query-plan caching.
	keys := make([]string, 0, len(spec.Specs))
	for k := range spec.Specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		conditions = append(conditions,
			fmt.Sprintf("specs->>$%d ILIKE $%d", argIndex, argIndex+1))
		args = append(args, k, "%"+spec.Specs[k]+"%")
		argIndex += 2
	}

	return strings.Join(conditions, " AND "), args
}

func scanProduct(rows pgx.Rows) (domain.Product, error) {
	var (
		p         domain.Product
		nameEn    *string
		descEn    *string
		specsJSON []byte
	)

	err := rows.Scan(
		&p.ID,
		&p.Name.Es,
		&nameEn,
		&p.Description.Es,
		&descEn,
		&p.Category,
		&p.Subcategory,
		&p.Brand,
		&p.Model,
		&p.Price,
		&p.Rating,
		&p.ReviewCount,
		&p.Stock,
		&p.Featured,
		&p.IsNew,
		&p.Active,
		&p.ImageURL,
		&specsJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	if nameEn != nil {
		p.Name.En = *nameEn
	}
	if descEn != nil {
		p.Description.En = *descEn
	}
	if len(specsJSON) > 0 {
		if err := json.Unmarshal(specsJSON, &p.Specs); err != nil {
			return p, fmt.Errorf("unmarshal specs: %w", err)
		}
	}

	return p, nil
}
