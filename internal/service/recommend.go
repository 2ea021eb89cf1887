package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/search"
	apperrors "github.com/charlysdark22/store-search/pkg/errors"
)

const (
	defaultRelatedLimit     = 8
	defaultRecommendLimit   = 10
	personalizationTopAttrs = 3
)

// RelatedProducts ranks other active products by similarity to the reference
// product: shared category, brand, subcategory, and a ±30% price band.
func (s *SearchService) RelatedProducts(ctx context.Context, productID string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}

	ref, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Unavailable("search", err)
	}
	if ref == nil {
		return nil, apperrors.NotFound("product", productID)
	}

	candidates, err := s.catalog.FindActive(ctx, search.FilterSpec{})
	if err != nil {
		return nil, apperrors.Unavailable("search", err)
	}

	type scored struct {
		product domain.Product
		sim     int
	}
	related := make([]scored, 0)
	for _, p := range candidates {
		if p.ID == ref.ID {
			continue
		}
		if sim := search.Similarity(*ref, p); sim > 0 {
			related = append(related, scored{product: p, sim: sim})
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		if related[i].sim != related[j].sim {
			return related[i].sim > related[j].sim
		}
		return related[i].product.Rating > related[j].product.Rating
	})

	if len(related) > limit {
		related = related[:limit]
	}

	out := make([]domain.Product, len(related))
	for i, r := range related {
		out[i] = r.product
	}
	return out, nil
}

// PersonalizedSuggestions recommends products matching the user's most
// frequently filtered categories and brands. Users without history get the
// featured-product set instead.
func (s *SearchService) PersonalizedSuggestions(ctx context.Context, userID string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	entries := s.history.History(userID, 0)
	topCategories := topFilterValues(entries, func(e domain.HistoryEntry) string { return e.Filters.Category })
	topBrands := topFilterValues(entries, func(e domain.HistoryEntry) string { return e.Filters.Brand })

	if len(topCategories) == 0 && len(topBrands) == 0 {
		products, err := s.catalog.FindActive(ctx, search.FilterSpec{Featured: true})
		if err != nil {
			return nil, apperrors.Unavailable("search", err)
		}
		return rankByQuality(products, limit), nil
	}

	products, err := s.catalog.FindActive(ctx, search.FilterSpec{})
	if err != nil {
		return nil, apperrors.Unavailable("search", err)
	}

	matched := make([]domain.Product, 0)
	for _, p := range products {
		if matchesAny(p, topCategories, topBrands) {
			matched = append(matched, p)
		}
	}

	s.logger.DebugContext(ctx, "personalized suggestions computed",
		slog.String("user_id", userID),
		slog.Any("categories", topCategories),
		slog.Any("brands", topBrands),
		slog.Int("matched", len(matched)),
	)

	return rankByQuality(matched, limit), nil
}

// matchesAny reports whether the product belongs to any of the preferred
// categories (exact) or brands (case-insensitive substring, mirroring the
// brand filter semantics the preferences were derived from).
func matchesAny(p domain.Product, categories, brands []string) bool {
	for _, c := range categories {
		if p.Category == c {
			return true
		}
	}
	brand := strings.ToLower(p.Brand)
	for _, b := range brands {
		if b != "" && strings.Contains(brand, strings.ToLower(b)) {
			return true
		}
	}
	return false
}

// rankByQuality sorts by rating then review count, descending, and caps.
func rankByQuality(products []domain.Product, limit int) []domain.Product {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Rating != products[j].Rating {
			return products[i].Rating > products[j].Rating
		}
		return products[i].ReviewCount > products[j].ReviewCount
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}

// topFilterValues extracts the most frequent non-empty filter values from the
// user's history, first-seen order breaking frequency ties.
func topFilterValues(entries []domain.HistoryEntry, extract func(domain.HistoryEntry) string) []string {
	counts := map[string]int{}
	order := make([]string, 0)

	for _, e := range entries {
		v := strings.TrimSpace(extract(e))
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > personalizationTopAttrs {
		order = order[:personalizationTopAttrs]
	}
	return order
}
