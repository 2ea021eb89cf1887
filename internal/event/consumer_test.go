package event

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlysdark22/store-search/internal/catalog/memory"
	"github.com/charlysdark22/store-search/internal/service"
	pkgkafka "github.com/charlysdark22/store-search/pkg/kafka"
)

func newTestConsumer() (*Consumer, *memory.Store) {
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewCatalogService(store, store, logger)
	return NewConsumer(svc, logger), store
}

func productEvent(t *testing.T, eventType string, data any) *pkgkafka.Event {
	t.Helper()
	event, err := pkgkafka.NewEvent(eventType, "p-1", "product", "product-service", data)
	require.NoError(t, err)
	return event
}

func TestHandle_ProductCreatedStoresSnapshot(t *testing.T) {
	consumer, store := newTestConsumer()
	ctx := context.Background()

	event := productEvent(t, TopicProductCreated, ProductEventData{
		ID:       "p-1",
		NameEs:   "Teclado mecánico",
		Category: "peripherals",
		Price:    89.99,
		Rating:   4.7,
		Stock:    25,
		Active:   true,
	})

	require.NoError(t, consumer.Handle(ctx, event))

	p, err := store.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Teclado mecánico", p.Name.Es)
	assert.Equal(t, 25, p.Stock)
}

func TestHandle_ProductUpdatedReplacesSnapshot(t *testing.T) {
	consumer, store := newTestConsumer()
	ctx := context.Background()

	created := productEvent(t, TopicProductCreated, ProductEventData{
		ID: "p-1", NameEs: "Teclado", Price: 89.99, Stock: 25, Active: true,
	})
	require.NoError(t, consumer.Handle(ctx, created))

	updated := productEvent(t, TopicProductUpdated, ProductEventData{
		ID: "p-1", NameEs: "Teclado", Price: 79.99, Stock: 5, Active: true,
	})
	require.NoError(t, consumer.Handle(ctx, updated))

	p, err := store.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 79.99, p.Price)
	assert.Equal(t, 5, p.Stock)
}

func TestHandle_ProductDeletedRemovesSnapshot(t *testing.T) {
	consumer, store := newTestConsumer()
	ctx := context.Background()

	created := productEvent(t, TopicProductCreated, ProductEventData{
		ID: "p-1", NameEs: "Teclado", Active: true,
	})
	require.NoError(t, consumer.Handle(ctx, created))

	deleted := productEvent(t, TopicProductDeleted, ProductDeletedData{ID: "p-1"})
	require.NoError(t, consumer.Handle(ctx, deleted))

	p, err := store.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestHandle_UnknownEventTypeIgnored(t *testing.T) {
	consumer, store := newTestConsumer()

	event := productEvent(t, "store.order.created", map[string]string{"id": "o-1"})
	require.NoError(t, consumer.Handle(context.Background(), event))
	assert.Equal(t, 0, store.Len())
}

func TestHandle_InvalidPayloadFails(t *testing.T) {
	consumer, _ := newTestConsumer()

	event := productEvent(t, TopicProductCreated, ProductEventData{ID: ""})
	assert.Error(t, consumer.Handle(context.Background(), event))
}
