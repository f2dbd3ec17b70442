package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/o-complex/storefront-backend/api/middleware"
	cartsvc "github.com/o-complex/storefront-backend/internal/cart"
	"github.com/o-complex/storefront-backend/pkg/redis"
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

func newTestRouter(t *testing.T) (chi.Router, string) {
	t.Helper()
	manager, err := cartsvc.NewManager(newFakeKV(), time.Hour, nil)
	require.NoError(t, err)

	sessionID := uuid.NewString()

	r := chi.NewRouter()
	r.Use(middleware.Session("sf_session", time.Hour, nil))
	r.Get("/api/cart", CartFetch(manager, nil))
	r.Post("/api/cart/items", CartAddItem(manager, nil))
	r.Patch("/api/cart/items/{productId}", CartSetQuantity(manager, nil))
	r.Delete("/api/cart/items/{productId}", CartRemoveItem(manager, nil))
	r.Put("/api/cart/phone", CartSetPhone(manager, nil))
	return r, sessionID
}

func doRequest(t *testing.T, r http.Handler, sessionID, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: sessionID})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) CartView {
	t.Helper()
	var envelope struct {
		Data CartView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCartFetchEmpty(t *testing.T) {
	r, sessionID := newTestRouter(t)

	rec := doRequest(t, r, sessionID, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.TotalItems)
	assert.Equal(t, "0", view.TotalPrice)
}

func TestCartAddAndAggregate(t *testing.T) {
	r, sessionID := newTestRouter(t)

	kettle := `{"id":1,"title":"Чайник","price":100}`
	rec := doRequest(t, r, sessionID, http.MethodPost, "/api/cart/items", kettle)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, sessionID, http.MethodPost, "/api/cart/items", kettle)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, sessionID, http.MethodPost, "/api/cart/items", `{"id":2,"title":"Кружка","price":50}`)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 1, view.Items[0].ID)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 3, view.TotalItems)
	assert.Equal(t, "250", view.TotalPrice)
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	r, sessionID := newTestRouter(t)

	doRequest(t, r, sessionID, http.MethodPost, "/api/cart/items", `{"id":1,"title":"Чайник","price":100}`)

	rec := doRequest(t, r, sessionID, http.MethodPatch, "/api/cart/items/1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartView(t, rec).Items)
}

func TestCartRemoveAbsentIsNoOp(t *testing.T) {
	r, sessionID := newTestRouter(t)

	rec := doRequest(t, r, sessionID, http.MethodDelete, "/api/cart/items/99", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartView(t, rec).Items)
}

func TestCartSetPhonePersists(t *testing.T) {
	r, sessionID := newTestRouter(t)

	rec := doRequest(t, r, sessionID, http.MethodPut, "/api/cart/phone", `{"phone":"+7 (912) 345-67-89"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+7 (912) 345-67-89", decodeCartView(t, rec).Phone)

	rec = doRequest(t, r, sessionID, http.MethodGet, "/api/cart", "")
	assert.Equal(t, "+7 (912) 345-67-89", decodeCartView(t, rec).Phone)
}

func TestCartSessionsAreIsolated(t *testing.T) {
	r, sessionA := newTestRouter(t)
	sessionB := uuid.NewString()

	doRequest(t, r, sessionA, http.MethodPost, "/api/cart/items", `{"id":1,"title":"Чайник","price":100}`)

	rec := doRequest(t, r, sessionB, http.MethodGet, "/api/cart", "")
	assert.Empty(t, decodeCartView(t, rec).Items)
}

func TestCartAddRejectsUnknownFields(t *testing.T) {
	r, sessionID := newTestRouter(t)

	rec := doRequest(t, r, sessionID, http.MethodPost, "/api/cart/items", `{"id":1,"title":"Чайник","color":"red"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}
