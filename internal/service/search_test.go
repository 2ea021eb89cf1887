package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlysdark22/store-search/internal/catalog/memory"
	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/history"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, products ...domain.Product) (*SearchService, *history.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.BulkUpsert(context.Background(), products))
	hist := history.NewStore()
	return NewSearchService(store, hist, testLogger()), hist
}

func catalogProducts() []domain.Product {
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Product{
		{
			ID:        "iphone",
			Name:      domain.LocalizedText{Es: "iPhone 15 Pro"},
			Category:  "electronics",
			Brand:     "Apple",
			Price:     1199,
			Rating:    4.8,
			Stock:     10,
			Featured:  true,
			Active:    true,
			CreatedAt: base.Add(48 * time.Hour),
		},
		{
			ID:          "funda",
			Name:        domain.LocalizedText{Es: "Funda para iPhone"},
			Description: domain.LocalizedText{Es: "Funda de silicona"},
			Category:    "accessories",
			Brand:       "Spigen",
			Price:       25,
			Rating:      4.2,
			Stock:       100,
			Active:      true,
			CreatedAt:   base.Add(24 * time.Hour),
		},
		{
			ID:        "galaxy",
			Name:      domain.LocalizedText{Es: "Galaxy S24"},
			Category:  "electronics",
			Brand:     "Samsung",
			Price:     999,
			Rating:    4.6,
			Stock:     3,
			Active:    true,
			CreatedAt: base,
		},
		{
			ID:       "hidden",
			Name:     domain.LocalizedText{Es: "iPhone retirado"},
			Category: "electronics",
			Brand:    "Apple",
			Price:    500,
			Stock:    1,
			Active:   false,
		},
	}
}

func TestSearch_TextQueryFiltersAndRanks(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "iphone"})
	require.NoError(t, err)

	// The inactive product never surfaces; the Galaxy does not match.
	require.Equal(t, 2, result.Total)
	assert.Equal(t, "iphone", result.Products[0].Product.ID)
	assert.Equal(t, "funda", result.Products[1].Product.ID)
	assert.Greater(t, result.Products[0].Score, result.Products[1].Score)
}

func TestSearch_AllTermsMustMatch(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "iphone silicona"})
	require.NoError(t, err)

	require.Equal(t, 1, result.Total)
	assert.Equal(t, "funda", result.Products[0].Product.ID)
}

func TestSearch_NoQueryBrowsesWholeCatalog(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	// Browse mode surfaces featured products first.
	assert.Equal(t, "iphone", result.Products[0].Product.ID)
}

func TestSearch_FiltersCombineWithQuery(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{
		Query:   "iphone",
		Filters: domain.FilterSet{Category: "accessories"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.Total)
	assert.Equal(t, "funda", result.Products[0].Product.ID)
}

func TestSearch_EmptyPriceRangeYieldsZeroResults(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	min, max := 500.0, 100.0
	result, err := svc.Search(context.Background(), &domain.SearchRequest{
		Filters: domain.FilterSet{MinPrice: &min, MaxPrice: &max},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Products)
}

func TestSearch_PaginationDefaultsAndClamping(t *testing.T) {
	products := make([]domain.Product, 0, 30)
	for i := 0; i < 30; i++ {
		products = append(products, domain.Product{
			ID:     string(rune('a' + i)),
			Name:   domain.LocalizedText{Es: "Producto"},
			Active: true,
		})
	}
	svc, _ := newTestService(t, products...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 12, result.PerPage)
	assert.Len(t, result.Products, 12)
	assert.Equal(t, 30, result.Total)

	// A page past the end is valid and empty.
	result, err = svc.Search(context.Background(), &domain.SearchRequest{Page: 10, PerPage: 12})
	require.NoError(t, err)
	assert.Empty(t, result.Products)
	assert.Equal(t, 30, result.Total)

	// Invalid values are coerced, not rejected.
	result, err = svc.Search(context.Background(), &domain.SearchRequest{Page: -1, PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PerPage)
}

func TestSearch_SortByPrice(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{SortBy: domain.SortPrice})
	require.NoError(t, err)
	assert.Equal(t, "funda", result.Products[0].Product.ID)

	result, err = svc.Search(context.Background(), &domain.SearchRequest{SortBy: domain.SortPrice, Order: domain.OrderDesc})
	require.NoError(t, err)
	assert.Equal(t, "iphone", result.Products[0].Product.ID)
}

func TestSearch_SortByNewest(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{SortBy: domain.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, "iphone", result.Products[0].Product.ID)
	assert.Equal(t, "galaxy", result.Products[2].Product.ID)
}

func TestSearch_UnknownSortFallsBackToNewest(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{SortBy: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, "iphone", result.Products[0].Product.ID)
}

func TestSearch_RecordsHistoryOnlyForIdentifiedUsersWithQuery(t *testing.T) {
	svc, hist := newTestService(t, catalogProducts()...)
	ctx := context.Background()

	_, err := svc.Search(ctx, &domain.SearchRequest{Query: "iphone", UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, hist.History("u1", 0), 1)
	assert.Equal(t, 1, hist.PopularityCount("iphone"))

	// Anonymous searches do not record anything.
	_, err = svc.Search(ctx, &domain.SearchRequest{Query: "galaxy"})
	require.NoError(t, err)
	assert.Equal(t, 0, hist.PopularityCount("galaxy"))

	// Browsing without a query does not record either.
	_, err = svc.Search(ctx, &domain.SearchRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, hist.History("u1", 0), 1)
}

func TestSearch_HistoryRecordedEvenWithZeroResults(t *testing.T) {
	svc, hist := newTestService(t, catalogProducts()...)

	result, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "nonexistent", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Total)
	assert.Len(t, hist.History("u1", 0), 1)
	assert.Equal(t, 1, hist.PopularityCount("nonexistent"))
}

func TestSearch_EchoesQueryAndFilters(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)

	filters := domain.FilterSet{Category: "electronics"}
	result, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "  iphone  ", Filters: filters})
	require.NoError(t, err)

	assert.Equal(t, "iphone", result.Query)
	assert.Equal(t, filters, result.Filters)
	assert.GreaterOrEqual(t, result.TookMs, int64(0))
}

func TestUserHistoryAndClear(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts()...)
	ctx := context.Background()

	_, err := svc.Search(ctx, &domain.SearchRequest{Query: "iphone", UserID: "u1"})
	require.NoError(t, err)

	entries := svc.UserHistory(ctx, "u1", 0)
	require.Len(t, entries, 1)
	assert.Equal(t, "iphone", entries[0].Query)

	svc.ClearUserHistory(ctx, "u1")
	assert.Empty(t, svc.UserHistory(ctx, "u1", 0))
}

func TestTopPopularSearches(t *testing.T) {
	svc, hist := newTestService(t, catalogProducts()...)

	hist.IncrementPopularity("iphone")
	hist.IncrementPopularity("iphone")
	hist.IncrementPopularity("galaxy")

	popular := svc.TopPopularSearches(context.Background(), 0)
	require.Len(t, popular, 2)
	assert.Equal(t, "iphone", popular[0].Text)
	assert.Equal(t, 2, popular[0].Count)
}
