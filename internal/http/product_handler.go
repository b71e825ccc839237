package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Bipin-Neupane/baby-sub001/internal/catalog"
	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewProductHandler(catalogSvc *catalog.Service, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalogSvc,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	IsFeatured  bool    `json:"is_featured"`
}

type CreateProductRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	IsActive    *bool   `json:"is_active"`
	IsFeatured  bool    `json:"is_featured"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		IsFeatured:  p.IsFeatured,
	}
}

// List serves GET /products. An absent or explicitly false featured
// parameter adds no featured constraint; only featured=true narrows the
// listing.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var filter catalog.Filter
	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		filter.Category = &category
	}
	if q.Has("featured") {
		featured, err := strconv.ParseBool(q.Get("featured"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_featured", "featured must be true or false")
			return
		}
		filter.Featured = &featured
	}

	products, err := h.catalog.List(ctx, filter)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.catalog.Get(ctx, id)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// New products default to active unless the payload says otherwise.
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product, err := h.catalog.Create(ctx, domain.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		IsActive:    isActive,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, catalog.ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
	case errors.Is(err, catalog.ErrInsertFailed):
		respondError(w, http.StatusInternalServerError, "insert_failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "query_failed", err.Error())
	}
}
