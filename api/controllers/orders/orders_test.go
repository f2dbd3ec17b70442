package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/o-complex/storefront-backend/api/middleware"
	cartsvc "github.com/o-complex/storefront-backend/internal/cart"
	"github.com/o-complex/storefront-backend/internal/checkout"
	ordersvc "github.com/o-complex/storefront-backend/internal/orders"
	"github.com/o-complex/storefront-backend/pkg/redis"
	"github.com/o-complex/storefront-backend/pkg/shop"
	"github.com/o-complex/storefront-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return nil
}

func (f *fakeKV) CartKey(sessionID string) string {
	return "sf:cart:" + sessionID
}

type fakePlacer struct {
	resp shop.OrderResponse
}

func (f *fakePlacer) PlaceOrder(context.Context, shop.OrderRequest) shop.OrderResponse {
	return f.resp
}

type fakeLister struct {
	entries []ordersvc.Entry
	err     error
}

func (f *fakeLister) Recent(context.Context, int) ([]ordersvc.Entry, error) {
	return f.entries, f.err
}

func checkoutFixture(t *testing.T, placer checkout.OrderPlacer) (http.Handler, *cartsvc.Manager, string) {
	t.Helper()
	manager, err := cartsvc.NewManager(newFakeKV(), time.Hour, nil)
	require.NoError(t, err)

	workflow, err := checkout.NewWorkflow(placer, nil, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.Session("sf_session", time.Hour, nil))
	r.Post("/api/checkout", Checkout(manager, workflow, nil))
	return r, manager, uuid.NewString()
}

func postCheckout(t *testing.T, handler http.Handler, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: sessionID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func seedCart(t *testing.T, manager *cartsvc.Manager, sessionID string) {
	t.Helper()
	ctx := context.Background()
	store, err := manager.ForSession(ctx, sessionID)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, shop.Product{ID: 1, Title: "Чайник", Price: 100}))
	require.NoError(t, store.Add(ctx, shop.Product{ID: 1, Title: "Чайник", Price: 100}))
	require.NoError(t, store.SetPhone(ctx, "+7 (912) 345-67-89"))
}

func TestCheckoutSuccess(t *testing.T) {
	handler, manager, sessionID := checkoutFixture(t, &fakePlacer{resp: shop.OrderResponse{Success: 1}})
	seedCart(t, manager, sessionID)

	rec := postCheckout(t, handler, sessionID)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Items []struct {
				ID       int `json:"id"`
				Quantity int `json:"quantity"`
			} `json:"items"`
			TotalPrice string `json:"total_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, 2, envelope.Data.Items[0].Quantity)
	assert.Equal(t, "200", envelope.Data.TotalPrice)

	// The cart is emptied only after a confirmed order.
	store, err := manager.ForSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, store.IsEmpty())
}

func TestCheckoutEmptyCart(t *testing.T) {
	handler, manager, sessionID := checkoutFixture(t, &fakePlacer{resp: shop.OrderResponse{Success: 1}})

	ctx := context.Background()
	store, err := manager.ForSession(ctx, sessionID)
	require.NoError(t, err)
	require.NoError(t, store.SetPhone(ctx, "79123456789"))

	rec := postCheckout(t, handler, sessionID)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestCheckoutUpstreamRejectionKeepsCart(t *testing.T) {
	handler, manager, sessionID := checkoutFixture(t, &fakePlacer{
		resp: shop.OrderResponse{Success: 0, Error: "товар закончился"},
	})
	seedCart(t, manager, sessionID)

	rec := postCheckout(t, handler, sessionID)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "товар закончился", envelope.Error.Message)

	store, err := manager.ForSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.False(t, store.IsEmpty())
}

func TestRecentOrders(t *testing.T) {
	lister := &fakeLister{entries: []ordersvc.Entry{
		{SessionID: "s1", Phone: "79123456789", Succeeded: true, Total: "250"},
	}}

	rec := httptest.NewRecorder()
	Recent(lister, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/orders/recent?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []ordersvc.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "250", envelope.Data[0].Total)
}

func TestRecentOrdersFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}

	rec := httptest.NewRecorder()
	Recent(lister, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/orders/recent", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
