package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Bipin-Neupane/baby-sub001/internal/money"
	"github.com/Bipin-Neupane/baby-sub001/internal/pricing"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	sessions CartSessions
	products ProductGetter
	calc     pricing.Calculator
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCheckoutHandler(sessions CartSessions, products ProductGetter, calc pricing.Calculator, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		products: products,
		calc:     calc,
		timeout:  timeout,
		logger:   logger,
	}
}

// DisplayTotals carries the presentation-formatted amounts. Rounding to
// cents happens only here, never in the stored totals.
type DisplayTotals struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type SummaryResponse struct {
	Items     []CartLineResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Totals    pricing.Totals     `json:"totals"`
	Display   DisplayTotals      `json:"display"`
}

type CheckoutCompleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(w, http.StatusOK, SummaryResponse{
		Items:     resp.Items,
		ItemCount: resp.ItemCount,
		Totals:    resp.Totals,
		Display: DisplayTotals{
			Subtotal: money.Format(resp.Totals.Subtotal),
			Shipping: money.Format(resp.Totals.Shipping),
			Tax:      money.Format(resp.Totals.Tax),
			Total:    money.Format(resp.Totals.Total),
		},
	})
}

// Complete finishes the checkout flow in the only way this storefront
// knows: the cart is emptied. Payment is handled elsewhere.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if err := h.sessions.Clear(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	h.logger.Info("checkout completed", zap.String("session_id", sessionID))
	respondJSON(w, http.StatusOK, CheckoutCompleteResponse{
		Success: true,
		Message: "Checkout complete",
	})
}
