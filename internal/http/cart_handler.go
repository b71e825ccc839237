package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Bipin-Neupane/baby-sub001/internal/cart"
	"github.com/Bipin-Neupane/baby-sub001/internal/catalog"
	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
	"github.com/Bipin-Neupane/baby-sub001/internal/pricing"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartSessions is what the handlers need from the session layer.
type CartSessions interface {
	Load(ctx context.Context, sessionID string) (*cart.Store, error)
	Save(ctx context.Context, sessionID string, store *cart.Store) error
	Clear(ctx context.Context, sessionID string) error
}

// ProductGetter resolves cart lines to product data for pricing.
type ProductGetter interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type CartHandler struct {
	sessions CartSessions
	products ProductGetter
	calc     pricing.Calculator
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCartHandler(sessions CartSessions, products ProductGetter, calc pricing.Calculator, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		products: products,
		calc:     calc,
		timeout:  timeout,
		logger:   logger,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type CartResponse struct {
	Items     []CartLineResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Totals    pricing.Totals     `json:"totals"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	store, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	resp, err := resolveCart(ctx, h.products, h.calc, store, h.logger)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "pricing_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	// Only products that exist and are for sale can enter a cart.
	product, err := h.products.Get(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	if !product.IsActive {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	sessionID := sessionIDFromContext(r.Context())
	store, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	if err := store.Add(req.ProductID, req.Quantity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		return
	}

	if err := h.sessions.Save(ctx, sessionID, store); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	resp, err := resolveCart(ctx, h.products, h.calc, store, h.logger)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "pricing_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := sessionIDFromContext(r.Context())
	store, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	// A quantity of zero or less removes the line.
	if err := store.UpdateQuantity(productID, req.Quantity); err != nil {
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
		return
	}

	if err := h.sessions.Save(ctx, sessionID, store); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	resp, err := resolveCart(ctx, h.products, h.calc, store, h.logger)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "pricing_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	sessionID := sessionIDFromContext(r.Context())
	store, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	// Removing an absent product is a no-op.
	store.Remove(productID)

	if err := h.sessions.Save(ctx, sessionID, store); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	resp, err := resolveCart(ctx, h.products, h.calc, store, h.logger)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "pricing_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if err := h.sessions.Clear(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveCart prices the store's lines against the catalog. Lines whose
// product has disappeared since it was added are dropped rather than
// failing the whole cart.
func resolveCart(ctx context.Context, products ProductGetter, calc pricing.Calculator, store *cart.Store, logger *zap.Logger) (CartResponse, error) {
	items := store.Items()
	respItems := make([]CartLineResponse, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))

	for _, item := range items {
		product, err := products.Get(ctx, item.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			logger.Warn("dropping cart line for missing product", zap.Int64("product_id", item.ProductID))
			continue
		}
		if err != nil {
			return CartResponse{}, err
		}

		lines = append(lines, pricing.Line{
			ProductID: product.ID,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		respItems = append(respItems, CartLineResponse{
			ProductID: product.ID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			LineTotal: product.Price * float64(item.Quantity),
		})
	}

	totals, err := calc.Totals(lines)
	if err != nil {
		return CartResponse{}, err
	}

	itemCount := 0
	for _, item := range respItems {
		itemCount += item.Quantity
	}

	return CartResponse{
		Items:     respItems,
		ItemCount: itemCount,
		Totals:    totals,
	}, nil
}
