package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/charlysdark22/store-search/internal/service"
	"github.com/charlysdark22/store-search/pkg/httputil"
	"github.com/charlysdark22/store-search/pkg/validator"
)

// CatalogHandler handles the catalog sync endpoints. These exist for the
// product service and operational tooling; end users only hit the search
// endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog sync HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// UpsertProductRequest is the JSON request body for storing a product.
type UpsertProductRequest struct {
	ID            string            `json:"id" validate:"required"`
	NameEs        string            `json:"name_es" validate:"required_without=NameEn"`
	NameEn        string            `json:"name_en"`
	DescriptionEs string            `json:"description_es"`
	DescriptionEn string            `json:"description_en"`
	Category      string            `json:"category"`
	Subcategory   string            `json:"subcategory"`
	Brand         string            `json:"brand"`
	Model         string            `json:"model"`
	Price         float64           `json:"price" validate:"gte=0"`
	Rating        float64           `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int               `json:"review_count" validate:"gte=0"`
	Stock         int               `json:"stock" validate:"gte=0"`
	Featured      bool              `json:"featured"`
	IsNew         bool              `json:"is_new"`
	Active        bool              `json:"active"`
	ImageURL      string            `json:"image_url"`
	Specs         map[string]string `json:"specs"`
}

// BulkUpsertRequest is the JSON request body for bulk catalog sync.
type BulkUpsertRequest struct {
	Products []UpsertProductRequest `json:"products" validate:"required,min=1,max=500,dive"`
}

func (req *UpsertProductRequest) toInput() service.UpsertProductInput {
	return service.UpsertProductInput{
		ID:            req.ID,
		NameEs:        req.NameEs,
		NameEn:        req.NameEn,
		DescriptionEs: req.DescriptionEs,
		DescriptionEn: req.DescriptionEn,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Brand:         req.Brand,
		Model:         req.Model,
		Price:         req.Price,
		Rating:        req.Rating,
		ReviewCount:   req.ReviewCount,
		Stock:         req.Stock,
		Featured:      req.Featured,
		IsNew:         req.IsNew,
		Active:        req.Active,
		ImageURL:      req.ImageURL,
		Specs:         req.Specs,
	}
}

// UpsertProduct handles POST /api/v1/catalog
func (h *CatalogHandler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := req.toInput()
	if err := h.service.UpsertProduct(r.Context(), &input); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": req.ID, "status": "stored"}})
}

// BulkUpsert handles POST /api/v1/catalog/bulk
func (h *CatalogHandler) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20) // 10MB limit for bulk endpoint

	var req BulkUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	inputs := make([]service.UpsertProductInput, 0, len(req.Products))
	for i := range req.Products {
		inputs = append(inputs, req.Products[i].toInput())
	}

	stored, err := h.service.BulkUpsert(r.Context(), inputs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"stored": stored, "status": "ok"}})
}

// DeleteProduct handles DELETE /api/v1/catalog/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.service.RemoveProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id, "status": "deleted"}})
}

// Stats handles GET /api/v1/catalog/stats
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ActiveCount(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int{"active_products": count}})
}
