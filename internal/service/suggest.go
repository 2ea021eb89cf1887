package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/search"
	apperrors "github.com/charlysdark22/store-search/pkg/errors"
)

const (
	// minSuggestionInput is the noise-reduction floor: shorter inputs return
	// an empty sequence, not an error.
	minSuggestionInput = 2

	defaultSuggestLimit      = 10
	defaultAutocompleteLimit = 5

	// popularScanDepth bounds how many popularity entries are considered as
	// suggestion candidates.
	popularScanDepth = 100
)

// Suggest returns free-text suggestions: catalog name/brand/model substring
// matches merged with globally popular queries containing the input.
func (s *SearchService) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	input := strings.TrimSpace(query)
	if len([]rune(input)) < minSuggestionInput {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	cacheKey := fmt.Sprintf("suggest:%s:%d", strings.ToLower(input), limit)
	var cached []string
	if s.cacheGet(ctx, "suggest", cacheKey, &cached) {
		return cached, nil
	}

	products, err := s.catalog.FindActive(ctx, search.FilterSpec{})
	if err != nil {
		return nil, apperrors.Unavailable("search", err)
	}

	needle := strings.ToLower(input)
	seen := map[string]struct{}{}
	fromCatalog := make([]string, 0)

	addCatalog := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" || !strings.Contains(strings.ToLower(value), needle) {
			return
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		fromCatalog = append(fromCatalog, value)
	}

	for _, p := range products {
		for _, name := range p.Name.Values() {
			addCatalog(name)
		}
		addCatalog(p.Brand)
		addCatalog(p.Model)
	}
	// Map iteration order is random in the memory store; keep output stable.
	sort.Slice(fromCatalog, func(i, j int) bool {
		return strings.ToLower(fromCatalog[i]) < strings.ToLower(fromCatalog[j])
	})

	suggestions := fromCatalog
	for _, pop := range s.history.TopPopular(popularScanDepth) {
		if !strings.Contains(pop.Text, needle) {
			continue
		}
		if _, ok := seen[pop.Text]; ok {
			continue
		}
		seen[pop.Text] = struct{}{}
		suggestions = append(suggestions, pop.Text)
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	s.cacheSet(ctx, "suggest", cacheKey, suggestions)

	s.logger.DebugContext(ctx, "suggestions computed",
		slog.String("input", input),
		slog.Int("count", len(suggestions)),
	)

	return suggestions, nil
}

// Autocomplete returns prefix-matched catalog entries with display metadata.
func (s *SearchService) Autocomplete(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	input := strings.TrimSpace(query)
	if len([]rune(input)) < minSuggestionInput {
		return []domain.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = defaultAutocompleteLimit
	}

	cacheKey := fmt.Sprintf("autocomplete:%s:%d", strings.ToLower(input), limit)
	var cached []domain.Suggestion
	if s.cacheGet(ctx, "autocomplete", cacheKey, &cached) {
		return cached, nil
	}

	products, err := s.catalog.FindActive(ctx, search.FilterSpec{})
	if err != nil {
		return nil, apperrors.Unavailable("search", err)
	}

	prefix := strings.ToLower(input)
	seen := map[string]struct{}{}
	entries := make([]domain.Suggestion, 0)

	add := func(value string, p domain.Product) {
		value = strings.TrimSpace(value)
		if value == "" || !strings.HasPrefix(strings.ToLower(value), prefix) {
			return
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		entries = append(entries, domain.Suggestion{
			Text:     value,
			Category: p.Category,
			ImageURL: p.ImageURL,
			Price:    p.Price,
		})
	}

	for _, p := range products {
		for _, name := range p.Name.Values() {
			add(name, p)
		}
		add(p.Brand, p)
		add(p.Model, p)
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Text) < strings.ToLower(entries[j].Text)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	s.cacheSet(ctx, "autocomplete", cacheKey, entries)

	return entries, nil
}

// cacheGet reads a JSON value from the read-side cache. Returns false when
// the cache is disabled, the key is absent, or the read fails; cache failures
// never fail a request.
func (s *SearchService) cacheGet(ctx context.Context, op, key string, target any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		cacheEvents.WithLabelValues(op, "miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		cacheEvents.WithLabelValues(op, "miss").Inc()
		return false
	}
	cacheEvents.WithLabelValues(op, "hit").Inc()
	return true
}

// cacheSet writes a JSON value to the read-side cache, best effort.
func (s *SearchService) cacheSet(ctx context.Context, op, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.DebugContext(ctx, "cache write failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
}
