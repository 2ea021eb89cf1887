package service

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/charlysdark22/store-search/internal/catalog"
	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/history"
	"github.com/charlysdark22/store-search/internal/search"
	apperrors "github.com/charlysdark22/store-search/pkg/errors"
	pkgkafka "github.com/charlysdark22/store-search/pkg/kafka"
	"github.com/charlysdark22/store-search/pkg/pagination"
)

// TopicSearchPerformed carries search analytics events for downstream
// consumers (campaign targeting, demand planning).
const TopicSearchPerformed = "store.search.performed"

// EventPublisher publishes analytics events. *pkgkafka.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// SearchService implements the search, facet, suggestion, and
// recommendation operations over the catalog accessor.
type SearchService struct {
	catalog   catalog.Accessor
	history   *history.Store
	logger    *slog.Logger
	cache     *redis.Client
	cacheTTL  time.Duration
	publisher EventPublisher
}

// Option configures optional SearchService dependencies.
type Option func(*SearchService)

// WithCache enables the Redis read-side cache for suggestion, autocomplete,
// and popular-query responses.
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(s *SearchService) {
		s.cache = client
		s.cacheTTL = ttl
	}
}

// WithAnalytics enables fire-and-forget publication of search events.
func WithAnalytics(pub EventPublisher) Option {
	return func(s *SearchService) {
		s.publisher = pub
	}
}

// NewSearchService creates a new search service.
func NewSearchService(cat catalog.Accessor, hist *history.Store, logger *slog.Logger, opts ...Option) *SearchService {
	s := &SearchService{
		catalog: cat,
		history: hist,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the full query pipeline: filter, hard text match, score, sort,
// count, paginate, and record history/popularity side effects.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	start := time.Now()

	req.Page, req.PerPage = pagination.Normalize(req.Page, req.PerPage)
	req.Query = strings.TrimSpace(req.Query)

	if req.SortBy == "" {
		req.SortBy = domain.SortRelevance
	} else if !domain.IsValidSort(req.SortBy) {
		req.SortBy = domain.SortNewest
	}

	terms := search.Terms(req.Query)
	spec := search.Compile(req.Filters)

	matched := make([]domain.ScoredProduct, 0)
	if !spec.EmptyRange() {
		products, err := s.catalog.FindActive(ctx, spec)
		if err != nil {
			return nil, apperrors.Unavailable("search", err)
		}
		for _, p := range products {
			if len(terms) > 0 {
				if !search.MatchesTerms(p, terms) {
					continue
				}
				matched = append(matched, domain.ScoredProduct{Product: p, Score: search.Score(p, terms)})
			} else {
				matched = append(matched, domain.ScoredProduct{Product: p})
			}
		}
	}

	sortResults(matched, req.SortBy, req.Order, len(terms) > 0)

	total := len(matched)
	offset := (req.Page - 1) * req.PerPage
	if offset > total {
		offset = total
	}
	end := offset + req.PerPage
	if end > total {
		end = total
	}

	if req.UserID != "" && req.Query != "" {
		s.history.Record(req.UserID, req.Query, req.Filters)
		s.history.IncrementPopularity(req.Query)
	}

	searchesTotal.WithLabelValues(strconv.FormatBool(len(terms) > 0)).Inc()
	searchResultCount.Observe(float64(total))

	result := &domain.SearchResult{
		Products: matched[offset:end],
		Total:    total,
		Page:     req.Page,
		PerPage:  req.PerPage,
		Query:    req.Query,
		Filters:  req.Filters,
		TookMs:   time.Since(start).Milliseconds(),
	}

	s.publishSearchEvent(req, result)

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", req.Query),
		slog.Int("total", total),
		slog.String("sort", req.SortBy),
		slog.Int64("took_ms", result.TookMs),
	)

	return result, nil
}

// publishSearchEvent emits an analytics event without blocking the request.
func (s *SearchService) publishSearchEvent(req *domain.SearchRequest, result *domain.SearchResult) {
	if s.publisher == nil || req.Query == "" {
		return
	}

	payload := struct {
		Query   string           `json:"query"`
		Total   int              `json:"total"`
		UserID  string           `json:"user_id,omitempty"`
		Filters domain.FilterSet `json:"filters"`
		TookMs  int64            `json:"took_ms"`
	}{req.Query, result.Total, req.UserID, req.Filters, result.TookMs}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		event, err := pkgkafka.NewEvent(TopicSearchPerformed, uuid.New().String(), "search", "search-service", payload)
		if err != nil {
			s.logger.Error("build search event", slog.String("error", err.Error()))
			return
		}
		if err := s.publisher.Publish(ctx, TopicSearchPerformed, event); err != nil {
			s.logger.Warn("publish search event", slog.String("error", err.Error()))
		}
	}()
}

// sortResults orders the matched set in place according to the requested key.
func sortResults(items []domain.ScoredProduct, sortBy, order string, hasQuery bool) {
	switch sortBy {
	case domain.SortRelevance:
		if hasQuery {
			sort.SliceStable(items, func(i, j int) bool {
				if items[i].Score != items[j].Score {
					return items[i].Score > items[j].Score
				}
				return items[i].Product.Rating > items[j].Product.Rating
			})
			return
		}
		// Browse mode: surface featured, then best rated.
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Product.Featured != items[j].Product.Featured {
				return items[i].Product.Featured
			}
			return items[i].Product.Rating > items[j].Product.Rating
		})
	case domain.SortPrice:
		sort.SliceStable(items, func(i, j int) bool {
			if order == domain.OrderDesc {
				return items[i].Product.Price > items[j].Product.Price
			}
			return items[i].Product.Price < items[j].Product.Price
		})
	case domain.SortRating:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Product.Rating != items[j].Product.Rating {
				return items[i].Product.Rating > items[j].Product.Rating
			}
			return items[i].Product.ReviewCount > items[j].Product.ReviewCount
		})
	case domain.SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Product.ReviewCount != items[j].Product.ReviewCount {
				return items[i].Product.ReviewCount > items[j].Product.ReviewCount
			}
			return items[i].Product.Rating > items[j].Product.Rating
		})
	case domain.SortName:
		sort.SliceStable(items, func(i, j int) bool {
			a := strings.ToLower(items[i].Product.Name.Resolve("es"))
			b := strings.ToLower(items[j].Product.Name.Resolve("es"))
			if order == domain.OrderDesc {
				return a > b
			}
			return a < b
		})
	default: // SortNewest and unrecognized keys.
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Product.CreatedAt.After(items[j].Product.CreatedAt)
		})
	}
}
