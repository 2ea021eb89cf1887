package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/charlysdark22/store-search/internal/domain"
	"github.com/charlysdark22/store-search/internal/service"
	"github.com/charlysdark22/store-search/pkg/httputil"
	"github.com/charlysdark22/store-search/pkg/pagination"
)

// specParamPrefix marks query parameters that filter on technical
// specifications, e.g. spec.ram=16GB.
const specParamPrefix = "spec."

// SearchHandler handles HTTP requests for search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// parseFilters builds a filter set from query parameters. Filters are
// advisory: malformed numeric values are dropped rather than rejected, so a
// bad min_price narrows nothing instead of failing the request.
func parseFilters(r *http.Request) domain.FilterSet {
	q := r.URL.Query()

	filters := domain.FilterSet{
		Category:    strings.TrimSpace(q.Get("category")),
		Subcategory: strings.TrimSpace(q.Get("subcategory")),
		Brand:       strings.TrimSpace(q.Get("brand")),
	}

	if v := q.Get("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil && price >= 0 {
			filters.MinPrice = &price
		}
	}
	if v := q.Get("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil && price >= 0 {
			filters.MaxPrice = &price
		}
	}
	if v := q.Get("min_rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil && rating >= 0 {
			filters.MinRating = &rating
		}
	}
	if v := q.Get("in_stock"); v != "" {
		filters.InStock, _ = strconv.ParseBool(v)
	}
	if v := q.Get("featured"); v != "" {
		filters.Featured, _ = strconv.ParseBool(v)
	}

	for key, values := range q {
		if !strings.HasPrefix(key, specParamPrefix) || len(values) == 0 {
			continue
		}
		specKey := strings.TrimSpace(strings.TrimPrefix(key, specParamPrefix))
		specValue := strings.TrimSpace(values[0])
		if specKey == "" || specValue == "" {
			continue
		}
		if filters.Specs == nil {
			filters.Specs = map[string]string{}
		}
		filters.Specs[specKey] = specValue
	}

	return filters
}

// parseLimit reads a positive limit query parameter, returning 0 (meaning
// "use the default") when absent or malformed.
func parseLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			return limit
		}
	}
	return 0
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	req := &domain.SearchRequest{
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		Filters: parseFilters(r),
		SortBy:  r.URL.Query().Get("sort"),
		Order:   r.URL.Query().Get("order"),
		Page:    params.Page,
		PerPage: params.PerPage,
		UserID:  userID(r),
	}

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Facets handles GET /api/v1/search/facets
func (h *SearchHandler) Facets(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	summary, err := h.service.Facets(r.Context(), query, parseFilters(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// Suggest handles GET /api/v1/search/suggest
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Suggest(r.Context(), r.URL.Query().Get("q"), parseLimit(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"suggestions": suggestions}})
}

// Autocomplete handles GET /api/v1/search/autocomplete
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Autocomplete(r.Context(), r.URL.Query().Get("q"), parseLimit(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"suggestions": entries}})
}

// Popular handles GET /api/v1/search/popular
func (h *SearchHandler) Popular(w http.ResponseWriter, r *http.Request) {
	popular := h.service.TopPopularSearches(r.Context(), parseLimit(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"popular": popular}})
}

// History handles GET /api/v1/search/history
func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-User-ID header is required"},
		})
		return
	}

	entries := h.service.UserHistory(r.Context(), uid, parseLimit(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"history": entries}})
}

// ClearHistory handles DELETE /api/v1/search/history
func (h *SearchHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-User-ID header is required"},
		})
		return
	}

	h.service.ClearUserHistory(r.Context(), uid)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// Related handles GET /api/v1/products/{id}/related
func (h *SearchHandler) Related(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id is required"},
		})
		return
	}

	products, err := h.service.RelatedProducts(r.Context(), id, parseLimit(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"products": products}})
}

// Recommendations handles GET /api/v1/recommendations
func (h *SearchHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.PersonalizedSuggestions(r.Context(), userID(r), parseLimit(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"products": products}})
}
