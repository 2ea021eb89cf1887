package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlysdark22/store-search/internal/catalog/memory"
	apperrors "github.com/charlysdark22/store-search/pkg/errors"
)

func newTestCatalogService() (*CatalogService, *memory.Store) {
	store := memory.New()
	return NewCatalogService(store, store, testLogger()), store
}

func validInput(id string) *UpsertProductInput {
	return &UpsertProductInput{
		ID:       id,
		NameEs:   "Producto de prueba",
		Category: "electronics",
		Price:    99.99,
		Rating:   4.5,
		Stock:    10,
		Active:   true,
	}
}

func TestUpsertProduct_Stores(t *testing.T) {
	svc, store := newTestCatalogService()
	ctx := context.Background()

	require.NoError(t, svc.UpsertProduct(ctx, validInput("p-1")))

	p, err := store.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Producto de prueba", p.Name.Es)
	assert.NotNil(t, p.Specs)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestUpsertProduct_PreservesCreatedAt(t *testing.T) {
	svc, store := newTestCatalogService()
	ctx := context.Background()

	require.NoError(t, svc.UpsertProduct(ctx, validInput("p-1")))
	first, err := store.GetByID(ctx, "p-1")
	require.NoError(t, err)

	updated := validInput("p-1")
	updated.Stock = 0
	require.NoError(t, svc.UpsertProduct(ctx, updated))

	second, err := store.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 0, second.Stock)
}

func TestUpsertProduct_Validation(t *testing.T) {
	svc, _ := newTestCatalogService()
	ctx := context.Background()

	noID := validInput("")
	err := svc.UpsertProduct(ctx, noID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	noName := validInput("p-1")
	noName.NameEs = ""
	assert.Error(t, svc.UpsertProduct(ctx, noName))

	badPrice := validInput("p-1")
	badPrice.Price = -1
	assert.Error(t, svc.UpsertProduct(ctx, badPrice))

	badRating := validInput("p-1")
	badRating.Rating = 5.1
	assert.Error(t, svc.UpsertProduct(ctx, badRating))

	// An English-only name is acceptable.
	enOnly := validInput("p-2")
	enOnly.NameEs = ""
	enOnly.NameEn = "Test product"
	assert.NoError(t, svc.UpsertProduct(ctx, enOnly))
}

func TestRemoveProduct(t *testing.T) {
	svc, store := newTestCatalogService()
	ctx := context.Background()

	require.NoError(t, svc.UpsertProduct(ctx, validInput("p-1")))
	require.NoError(t, svc.RemoveProduct(ctx, "p-1"))

	p, err := store.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Nil(t, p)

	err = svc.RemoveProduct(ctx, "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestBulkUpsert_SkipsInvalidEntries(t *testing.T) {
	svc, store := newTestCatalogService()
	ctx := context.Background()

	inputs := []UpsertProductInput{
		*validInput("p-1"),
		{ID: "", NameEs: "sin id"},
		*validInput("p-2"),
	}

	stored, err := svc.BulkUpsert(ctx, inputs)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.Equal(t, 2, store.Len())
}

func TestActiveCount(t *testing.T) {
	svc, _ := newTestCatalogService()
	ctx := context.Background()

	require.NoError(t, svc.UpsertProduct(ctx, validInput("p-1")))
	inactive := validInput("p-2")
	inactive.Active = false
	require.NoError(t, svc.UpsertProduct(ctx, inactive))

	count, err := svc.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
