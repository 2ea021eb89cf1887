package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/charlysdark22/store-search/internal/domain"
)

const defaultPopularLimit = 10

// UserHistory returns the user's recorded searches, most recent first.
func (s *SearchService) UserHistory(_ context.Context, userID string, limit int) []domain.HistoryEntry {
	return s.history.History(userID, limit)
}

// ClearUserHistory drops all history for the user. Global popularity counters
// are unaffected.
func (s *SearchService) ClearUserHistory(ctx context.Context, userID string) {
	s.history.Clear(userID)
	s.logger.InfoContext(ctx, "user history cleared", slog.String("user_id", userID))
}

// TopPopularSearches returns the globally most frequent normalized queries.
func (s *SearchService) TopPopularSearches(ctx context.Context, limit int) []domain.PopularQuery {
	if limit <= 0 {
		limit = defaultPopularLimit
	}

	cacheKey := "popular:" + strconv.Itoa(limit)
	var cached []domain.PopularQuery
	if s.cacheGet(ctx, "popular", cacheKey, &cached) {
		return cached
	}

	popular := s.history.TopPopular(limit)
	s.cacheSet(ctx, "popular", cacheKey, popular)
	return popular
}
