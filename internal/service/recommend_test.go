package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlysdark22/store-search/internal/domain"
	apperrors "github.com/charlysdark22/store-search/pkg/errors"
)

func relatedCatalog() []domain.Product {
	return []domain.Product{
		{ID: "ref", Category: "electronics", Subcategory: "smartphones", Brand: "Apple", Price: 1000, Active: true},
		{ID: "same-all", Category: "electronics", Subcategory: "smartphones", Brand: "Apple", Price: 1100, Rating: 4.0, Active: true},
		{ID: "same-cat", Category: "electronics", Subcategory: "tablets", Brand: "Samsung", Price: 5000, Rating: 4.9, Active: true},
		{ID: "same-brand", Category: "accessories", Subcategory: "cases", Brand: "Apple", Price: 30, Rating: 4.5, Active: true},
		{ID: "unrelated", Category: "furniture", Brand: "IKEA", Price: 10, Active: true},
		{ID: "inactive", Category: "electronics", Subcategory: "smartphones", Brand: "Apple", Price: 1000, Active: false},
	}
}

func TestRelatedProducts_RankedBySimilarity(t *testing.T) {
	svc, _ := newTestService(t, relatedCatalog()...)

	products, err := svc.RelatedProducts(context.Background(), "ref", 10)
	require.NoError(t, err)

	require.Len(t, products, 3)
	assert.Equal(t, "same-all", products[0].ID)   // 5+2+3+1
	assert.Equal(t, "same-cat", products[1].ID)   // 5
	assert.Equal(t, "same-brand", products[2].ID) // 3
}

func TestRelatedProducts_ExcludesSelfAndUnrelated(t *testing.T) {
	svc, _ := newTestService(t, relatedCatalog()...)

	products, err := svc.RelatedProducts(context.Background(), "ref", 10)
	require.NoError(t, err)

	for _, p := range products {
		assert.NotEqual(t, "ref", p.ID)
		assert.NotEqual(t, "unrelated", p.ID)
		assert.NotEqual(t, "inactive", p.ID)
	}
}

func TestRelatedProducts_Limit(t *testing.T) {
	svc, _ := newTestService(t, relatedCatalog()...)

	products, err := svc.RelatedProducts(context.Background(), "ref", 1)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "same-all", products[0].ID)
}

func TestRelatedProducts_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, relatedCatalog()...)

	_, err := svc.RelatedProducts(context.Background(), "missing", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestPersonalizedSuggestions_UsesHistoryPreferences(t *testing.T) {
	svc, hist := newTestService(t,
		domain.Product{ID: "tv", Category: "electronics", Brand: "LG", Rating: 4.0, Active: true},
		domain.Product{ID: "phone", Category: "electronics", Brand: "Apple", Rating: 4.8, Active: true},
		domain.Product{ID: "sofa", Category: "furniture", Brand: "IKEA", Rating: 5.0, Active: true},
	)

	hist.Record("u1", "tele", domain.FilterSet{Category: "electronics"})

	products, err := svc.PersonalizedSuggestions(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, products, 2)
	// Quality ranking within the preferred set.
	assert.Equal(t, "phone", products[0].ID)
	assert.Equal(t, "tv", products[1].ID)
}

func TestPersonalizedSuggestions_BrandPreferenceIsSubstringMatch(t *testing.T) {
	svc, hist := newTestService(t,
		domain.Product{ID: "phone", Category: "electronics", Brand: "Apple Inc.", Rating: 4.8, Active: true},
		domain.Product{ID: "sofa", Category: "furniture", Brand: "IKEA", Rating: 5.0, Active: true},
	)

	hist.Record("u1", "movil", domain.FilterSet{Brand: "apple"})

	products, err := svc.PersonalizedSuggestions(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "phone", products[0].ID)
}

func TestPersonalizedSuggestions_FallbackToFeatured(t *testing.T) {
	svc, _ := newTestService(t,
		domain.Product{ID: "featured", Featured: true, Rating: 4.0, Active: true},
		domain.Product{ID: "regular", Rating: 5.0, Active: true},
	)

	products, err := svc.PersonalizedSuggestions(context.Background(), "nobody", 10)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "featured", products[0].ID)
}

func TestPersonalizedSuggestions_QueriesWithoutFiltersDontBuildPreferences(t *testing.T) {
	svc, hist := newTestService(t,
		domain.Product{ID: "featured", Featured: true, Rating: 4.0, Active: true},
		domain.Product{ID: "tv", Category: "electronics", Rating: 4.9, Active: true},
	)

	hist.Record("u1", "algo", domain.FilterSet{})

	products, err := svc.PersonalizedSuggestions(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "featured", products[0].ID)
}
