package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlysdark22/store-search/internal/domain"
)

func TestFacets_WholeCatalog(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	summary, err := svc.Facets(context.Background(), "", domain.FilterSet{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, []string{"accessories", "electronics"}, summary.Categories)
	assert.Equal(t, []string{"Apple", "Samsung", "Spigen"}, summary.Brands)
	assert.Equal(t, domain.Range{Min: 25, Max: 1199}, summary.Price)
}

func TestFacets_ScopedToMatchingSubset(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	summary, err := svc.Facets(context.Background(), "iphone", domain.FilterSet{})
	require.NoError(t, err)

	// Only the two iphone matches contribute values.
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, []string{"accessories", "electronics"}, summary.Categories)
	assert.Equal(t, []string{"Apple", "Spigen"}, summary.Brands)
	assert.Equal(t, domain.Range{Min: 25, Max: 1199}, summary.Price)

	summary, err = svc.Facets(context.Background(), "iphone", domain.FilterSet{Category: "electronics"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, []string{"Apple"}, summary.Brands)
	assert.Equal(t, domain.Range{Min: 1199, Max: 1199}, summary.Price)
}

func TestFacets_EmptySubsetYieldsZeroWidthRanges(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	summary, err := svc.Facets(context.Background(), "nonexistent", domain.FilterSet{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.Categories)
	assert.Empty(t, summary.Brands)
	assert.Equal(t, domain.Range{}, summary.Price)
	assert.Equal(t, domain.Range{}, summary.Rating)
}

func TestFacets_EmptyPriceRange(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	min, max := 500.0, 100.0
	summary, err := svc.Facets(context.Background(), "", domain.FilterSet{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.Categories)
}

func TestFacets_CollectsSpecValues(t *testing.T) {
	svc, _ := newTestService(t,
		domain.Product{ID: "a", Active: true, Specs: map[string]string{"ram": "16GB", "color": "negro"}},
		domain.Product{ID: "b", Active: true, Specs: map[string]string{"ram": "8GB", "color": ""}},
	)

	summary, err := svc.Facets(context.Background(), "", domain.FilterSet{})
	require.NoError(t, err)

	assert.Equal(t, []string{"16GB", "8GB"}, summary.Specs["ram"])
	// Blank values are not facetable.
	assert.Equal(t, []string{"negro"}, summary.Specs["color"])
}
