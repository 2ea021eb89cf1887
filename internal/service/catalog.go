package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/charlysdark22/store-search/internal/catalog"
	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/search"
	apperrors "github.com/charlysdark22/store-search/pkg/errors"
)

// CatalogService keeps the locally owned catalog store in sync with the
// product service, via the sync endpoints and product events. It is only
// wired when the configured catalog backend has a Writer (the memory store);
// the Postgres backend is synced by the product service itself.
type CatalogService struct {
	writer   catalog.Writer
	accessor catalog.Accessor
	logger   *slog.Logger
}

// NewCatalogService creates a catalog sync service.
func NewCatalogService(writer catalog.Writer, accessor catalog.Accessor, logger *slog.Logger) *CatalogService {
	return &CatalogService{writer: writer, accessor: accessor, logger: logger}
}

// UpsertProductInput holds the fields of a product snapshot to store.
type UpsertProductInput struct {
	ID            string            `json:"id"`
	NameEs        string            `json:"name_es"`
	NameEn        string            `json:"name_en"`
	DescriptionEs string            `json:"description_es"`
	DescriptionEn string            `json:"description_en"`
	Category      string            `json:"category"`
	Subcategory   string            `json:"subcategory"`
	Brand         string            `json:"brand"`
	Model         string            `json:"model"`
	Price         float64           `json:"price"`
	Rating        float64           `json:"rating"`
	ReviewCount   int               `json:"review_count"`
	Stock         int               `json:"stock"`
	Featured      bool              `json:"featured"`
	IsNew         bool              `json:"is_new"`
	Active        bool              `json:"active"`
	ImageURL      string            `json:"image_url"`
	Specs         map[string]string `json:"specs"`
}

func (in *UpsertProductInput) validate() error {
	if in.ID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if in.NameEs == "" && in.NameEn == "" {
		return apperrors.InvalidInput("product name is required")
	}
	if in.Price < 0 {
		return apperrors.InvalidInput("price must not be negative")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return apperrors.InvalidInput("rating must be between 0 and 5")
	}
	return nil
}

func (in *UpsertProductInput) toProduct(now time.Time) domain.Product {
	specs := in.Specs
	if specs == nil {
		specs = map[string]string{}
	}
	return domain.Product{
		ID:          in.ID,
		Name:        domain.LocalizedText{Es: in.NameEs, En: in.NameEn},
		Description: domain.LocalizedText{Es: in.DescriptionEs, En: in.DescriptionEn},
		Category:    in.Category,
		Subcategory: in.Subcategory,
		Brand:       in.Brand,
		Model:       in.Model,
		Price:       in.Price,
		Rating:      in.Rating,
		ReviewCount: in.ReviewCount,
		Stock:       in.Stock,
		Featured:    in.Featured,
		IsNew:       in.IsNew,
		Active:      in.Active,
		ImageURL:    in.ImageURL,
		Specs:       specs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpsertProduct stores or replaces a product snapshot. The original creation
// time is preserved across updates.
func (c *CatalogService) UpsertProduct(ctx context.Context, input *UpsertProductInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	product := input.toProduct(now)

	if existing, err := c.accessor.GetByID(ctx, input.ID); err == nil && existing != nil {
		product.CreatedAt = existing.CreatedAt
	}

	if err := c.writer.Upsert(ctx, &product); err != nil {
		return apperrors.Wrap(err, "upsert product")
	}

	c.logger.InfoContext(ctx, "product stored",
		slog.String("product_id", input.ID),
		slog.String("category", input.Category),
	)
	return nil
}

// RemoveProduct drops a product snapshot from the local store.
func (c *CatalogService) RemoveProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if err := c.writer.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, "remove product")
	}

	c.logger.InfoContext(ctx, "product removed", slog.String("product_id", id))
	return nil
}

// BulkUpsert stores multiple product snapshots, skipping invalid entries.
// Returns the number of stored products.
func (c *CatalogService) BulkUpsert(ctx context.Context, inputs []UpsertProductInput) (int, error) {
	now := time.Now().UTC()
	products := make([]domain.Product, 0, len(inputs))

	for i := range inputs {
		if err := inputs[i].validate(); err != nil {
			c.logger.WarnContext(ctx, "skipping invalid product in bulk upsert",
				slog.String("product_id", inputs[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		products = append(products, inputs[i].toProduct(now))
	}

	if err := c.writer.BulkUpsert(ctx, products); err != nil {
		return 0, apperrors.Wrap(err, "bulk upsert")
	}

	c.logger.InfoContext(ctx, "bulk upsert completed", slog.Int("count", len(products)))
	return len(products), nil
}

// ActiveCount returns the number of active products visible to search.
func (c *CatalogService) ActiveCount(ctx context.Context) (int, error) {
	count, err := c.accessor.CountActive(ctx, search.FilterSpec{})
	if err != nil {
		return 0, apperrors.Unavailable("search", err)
	}
	return count, nil
}
