package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Bipin-Neupane/baby-sub001/internal/cart"
	"github.com/Bipin-Neupane/baby-sub001/internal/catalog"
	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
	"github.com/Bipin-Neupane/baby-sub001/internal/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	snapshots map[string]*domain.Cart
	err       error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{snapshots: make(map[string]*domain.Cart)}
}

func (f *fakeSessions) Load(_ context.Context, sessionID string) (*cart.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	return cart.NewStoreFromSnapshot(f.snapshots[sessionID]), nil
}

func (f *fakeSessions) Save(_ context.Context, sessionID string, store *cart.Store) error {
	if f.err != nil {
		return f.err
	}
	f.snapshots[sessionID] = store.Snapshot(sessionID)
	return nil
}

func (f *fakeSessions) Clear(_ context.Context, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.snapshots, sessionID)
	return nil
}

type fakeProducts struct {
	products map[int64]*domain.Product
	err      error
}

func (f *fakeProducts) Get(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrProductNotFound
}

func catalogWith(products ...*domain.Product) *fakeProducts {
	m := make(map[int64]*domain.Product)
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProducts{products: m}
}

func newCartRouter(sessions CartSessions, products ProductGetter) *chi.Mux {
	h := NewCartHandler(sessions, products, pricing.NewCalculator(), 5*time.Second, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{product_id}", h.UpdateQuantity)
	r.Delete("/cart/items/{product_id}", h.RemoveItem)
	r.Delete("/cart", h.ClearCart)
	return r
}

func TestGetCart_Empty(t *testing.T) {
	router := newCartRouter(newFakeSessions(), catalogWith())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/cart", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.ItemCount)
	assert.Equal(t, 0.0, resp.Totals.Subtotal)
	assert.Equal(t, pricing.DefaultShippingFee, resp.Totals.Shipping)
}

func TestAddItem_Success(t *testing.T) {
	sessions := newFakeSessions()
	products := catalogWith(&domain.Product{ID: 1, Name: "Wooden rattle", Price: 25.00, IsActive: true})
	router := newCartRouter(sessions, products)

	body := strings.NewReader(`{"product_id":1,"quantity":3}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", body))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.Equal(t, 75.00, resp.Items[0].LineTotal)
	assert.Equal(t, 75.00, resp.Totals.Subtotal)
	assert.Equal(t, 0.0, resp.Totals.Shipping)
	assert.Equal(t, 6.00, resp.Totals.Tax)
	assert.Equal(t, 81.00, resp.Totals.Total)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	sessions := newFakeSessions()
	products := catalogWith(&domain.Product{ID: 1, Name: "Wooden rattle", Price: 5.00, IsActive: true})
	router := newCartRouter(sessions, products)

	for _, qty := range []string{`{"product_id":1,"quantity":2}`, `{"product_id":1,"quantity":3}`} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", strings.NewReader(qty)))
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/cart", nil))

	var resp CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.Equal(t, 5, resp.ItemCount)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	router := newCartRouter(newFakeSessions(), catalogWith())

	body := strings.NewReader(`{"product_id":99,"quantity":1}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", body))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddItem_InactiveProduct(t *testing.T) {
	products := catalogWith(&domain.Product{ID: 1, Name: "Retired", Price: 5.00, IsActive: false})
	router := newCartRouter(newFakeSessions(), products)

	body := strings.NewReader(`{"product_id":1,"quantity":1}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", body))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	products := catalogWith(&domain.Product{ID: 1, Name: "Rattle", Price: 5.00, IsActive: true})
	router := newCartRouter(newFakeSessions(), products)

	body := strings.NewReader(`{"product_id":1,"quantity":0}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", body))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "invalid_quantity", resp.Code)
}

func TestAddItem_MalformedBody(t *testing.T) {
	router := newCartRouter(newFakeSessions(), catalogWith())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/items", strings.NewReader("{oops")))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	sessions := newFakeSessions()
	sessions.snapshots[""] = &domain.Cart{Items: []domain.CartItem{{ProductID: 1, Quantity: 2}}}
	products := catalogWith(&domain.Product{ID: 1, Name: "Rattle", Price: 5.00, IsActive: true})
	router := newCartRouter(sessions, products)

	body := strings.NewReader(`{"quantity":7}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/cart/items/1", body))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 7, resp.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	sessions := newFakeSessions()
	sessions.snapshots[""] = &domain.Cart{Items: []domain.CartItem{{ProductID: 1, Quantity: 2}}}
	products := catalogWith(&domain.Product{ID: 1, Name: "Rattle", Price: 5.00, IsActive: true})
	router := newCartRouter(sessions, products)

	body := strings.NewReader(`{"quantity":0}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/cart/items/1", body))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.ItemCount)
}

func TestUpdateQuantity_MissingItem(t *testing.T) {
	router := newCartRouter(newFakeSessions(), catalogWith())

	body := strings.NewReader(`{"quantity":2}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/cart/items/5", body))

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "item_not_found", resp.Code)
}

func TestRemoveItem_IsIdempotent(t *testing.T) {
	sessions := newFakeSessions()
	sessions.snapshots[""] = &domain.Cart{Items: []domain.CartItem{{ProductID: 1, Quantity: 2}}}
	products := catalogWith(&domain.Product{ID: 1, Name: "Rattle", Price: 5.00, IsActive: true})
	router := newCartRouter(sessions, products)

	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart/items/1", nil))
		require.Equal(t, http.StatusOK, recorder.Code, "attempt %d", i+1)
	}
}

func TestClearCart(t *testing.T) {
	sessions := newFakeSessions()
	sessions.snapshots[""] = &domain.Cart{Items: []domain.CartItem{{ProductID: 1, Quantity: 2}}}
	router := newCartRouter(sessions, catalogWith())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Nil(t, sessions.snapshots[""])
}

func TestGetCart_DropsLinesForMissingProducts(t *testing.T) {
	sessions := newFakeSessions()
	sessions.snapshots[""] = &domain.Cart{Items: []domain.CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}}
	// Product 2 has been deleted from the catalog since it was added.
	products := catalogWith(&domain.Product{ID: 1, Name: "Rattle", Price: 10.00, IsActive: true})
	router := newCartRouter(sessions, products)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/cart", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(1), resp.Items[0].ProductID)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, 20.00, resp.Totals.Subtotal)
}

func TestGetCart_SessionStoreFailure(t *testing.T) {
	sessions := newFakeSessions()
	sessions.err = errors.New("mongo unavailable")
	router := newCartRouter(sessions, catalogWith())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
