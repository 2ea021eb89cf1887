package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlysdark22/store-search/internal/service"
	"github.com/charlysdark22/store-search/pkg/health"
	"github.com/charlysdark22/store-search/pkg/middleware"
)

// RouterConfig bundles the dependencies of the HTTP router. CatalogService is
// nil when the catalog backend is read-only; the sync endpoints are not
// mounted in that case.
type RouterConfig struct {
	SearchService  *service.SearchService
	CatalogService *service.CatalogService
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	TracingEnabled bool
}

// NewRouter creates a chi router with all search service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing("search"))
	}
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("search"))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(cfg.SearchService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/search", func(r chi.Router) {
			r.Get("/", searchHandler.Search)
			r.Get("/facets", searchHandler.Facets)
			r.Get("/suggest", searchHandler.Suggest)
			r.Get("/autocomplete", searchHandler.Autocomplete)
			r.Get("/popular", searchHandler.Popular)
			r.Get("/history", searchHandler.History)
			r.Delete("/history", searchHandler.ClearHistory)
		})

		r.Get("/products/{id}/related", searchHandler.Related)
		r.Get("/recommendations", searchHandler.Recommendations)

		if cfg.CatalogService != nil {
			catalogHandler := NewCatalogHandler(cfg.CatalogService, cfg.Logger)
			r.Route("/catalog", func(r chi.Router) {
				r.Get("/stats", catalogHandler.Stats)
				r.Delete("/{id}", catalogHandler.DeleteProduct)

				r.Group(func(r chi.Router) {
					r.Use(ContentTypeJSON)
					r.Post("/", catalogHandler.UpsertProduct)
					r.Post("/bulk", catalogHandler.BulkUpsert)
				})
			})
		}
	})

	return r
}
