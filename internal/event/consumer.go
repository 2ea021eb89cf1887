package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/charlysdark22/store-search/internal/service"
	pkgkafka "github.com/charlysdark22/store-search/pkg/kafka"
)

// Kafka topic constants for product domain events consumed by the search service.
const (
	TopicProductCreated = "store.product.created"
	TopicProductUpdated = "store.product.updated"
	TopicProductDeleted = "store.product.deleted"
)

// ProductEventData represents the payload from product domain events.
type ProductEventData struct {
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

// ProductDeletedData represents the payload from a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// Consumer handles Kafka events related to product changes so the local
// catalog store tracks the product service.
type Consumer struct {
	catalogService *service.CatalogService
	logger         *slog.Logger
}

// NewConsumer creates a new event consumer for the search service.
func NewConsumer(catalogService *service.CatalogService, logger *slog.Logger) *Consumer {
	return &Consumer{
		catalogService: catalogService,
		logger:         logger,
	}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return c.handleProductUpsert(ctx, event)
	case TopicProductDeleted:
		return c.handleProductDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleProductUpsert stores the product snapshot carried by a created or
// updated event.
func (c *Consumer) handleProductUpsert(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	input := &service.UpsertProductInput{
		ID:            data.ID,
		NameEs:        data.NameEs,
		NameEn:        data.NameEn,
		DescriptionEs: data.DescriptionEs,
		DescriptionEn: data.DescriptionEn,
		Category:      data.Category,
		Subcategory:   data.Subcategory,
		Brand:         data.Brand,
		Model:         data.Model,
		Price:         data.Price,
		Rating:        data.Rating,
		ReviewCount:   data.ReviewCount,
		Stock:         data.Stock,
		Featured:      data.Featured,
		IsNew:         data.IsNew,
		Active:        data.Active,
		ImageURL:      data.ImageURL,
		Specs:         data.Specs,
	}

	if err := c.catalogService.UpsertProduct(ctx, input); err != nil {
		return fmt.Errorf("store product from %s event: %w", event.EventType, err)
	}

	c.logger.InfoContext(ctx, "stored product from event",
		slog.String("event_type", event.EventType),
		slog.String("product_id", data.ID),
	)

	return nil
}

// handleProductDeleted removes a deleted product from the local store.
func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}

	if err := c.catalogService.RemoveProduct(ctx, data.ID); err != nil {
		return fmt.Errorf("remove product from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "removed product from deleted event",
		slog.String("product_id", data.ID),
	)

	return nil
}
