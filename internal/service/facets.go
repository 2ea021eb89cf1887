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

// Facets computes the filter values available within the subset matching the
// given query and filters. The scope is the same as a search with those
// parameters, before sorting and pagination, so facet values never lead to a
// dead-end narrowing.
func (s *SearchService) Facets(ctx context.Context, query string, filters domain.FilterSet) (*domain.FacetSummary, error) {
	terms := search.Terms(query)
	spec := search.Compile(filters)

	summary := &domain.FacetSummary{
		Categories:    []string{},
		Subcategories: []string{},
		Brands:        []string{},
		Specs:         map[string][]string{},
	}

	if spec.EmptyRange() {
		return summary, nil
	}

	products, err := s.catalog.FindActive(ctx, spec)
	if err != nil {
		return nil, apperrors.Unavailable("search", err)
	}

	categories := map[string]struct{}{}
	subcategories := map[string]struct{}{}
	brands := map[string]struct{}{}
	specValues := map[string]map[string]struct{}{}

	first := true
	for _, p := range products {
		if len(terms) > 0 && !search.MatchesTerms(p, terms) {
			continue
		}

		summary.Total++
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
		if p.Subcategory != "" {
			subcategories[p.Subcategory] = struct{}{}
		}
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
		for key, value := range p.Specs {
			if strings.TrimSpace(value) == "" {
				continue
			}
			if specValues[key] == nil {
				specValues[key] = map[string]struct{}{}
			}
			specValues[key][value] = struct{}{}
		}

		if first {
			summary.Price = domain.Range{Min: p.Price, Max: p.Price}
			summary.Rating = domain.Range{Min: p.Rating, Max: p.Rating}
			first = false
			continue
		}
		if p.Price < summary.Price.Min {
			summary.Price.Min = p.Price
		}
		if p.Price > summary.Price.Max {
			summary.Price.Max = p.Price
		}
		if p.Rating < summary.Rating.Min {
			summary.Rating.Min = p.Rating
		}
		if p.Rating > summary.Rating.Max {
			summary.Rating.Max = p.Rating
		}
	}

	summary.Categories = sortedKeys(categories)
	summary.Subcategories = sortedKeys(subcategories)
	summary.Brands = sortedKeys(brands)
	for key, values := range specValues {
		summary.Specs[key] = sortedKeys(values)
	}

	s.logger.DebugContext(ctx, "facets computed",
		slog.String("query", query),
		slog.Int("matched", summary.Total),
		slog.Int("categories", len(summary.Categories)),
	)

	return summary, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
