package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzyjizz/candycommerce/config"
	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/shop"
	"github.com/jazzyjizz/candycommerce/internal/store/memstore"
)

type testAPI struct {
	server *Server
	store  *memstore.Store
	cfg    *config.AppConfig
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := config.DefaultAppConfig()
	st := memstore.NewStore(nil)
	svc := shop.NewService(st, st)
	cache := shop.NewProductCache(st, nil)
	return &testAPI{
		server: NewServer(cfg, svc, cache, st),
		store:  st,
		cfg:    cfg,
	}
}

func (a *testAPI) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.server.Echo().ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	rec := a.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": a.cfg.Web.AdminUsername,
		"password": a.cfg.Web.AdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func (a *testAPI) seedProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
	}
	require.NoError(t, a.store.CreateProduct(context.Background(), p))
	return p
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Code
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newTestAPI(t)
	rec := a.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": a.cfg.Web.AdminUsername,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_FAILED", errorCode(t, rec))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)
	rec := a.request(t, http.MethodGet, "/api/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutSuccess(t *testing.T) {
	a := newTestAPI(t)
	p := a.seedProduct(t, "Sugar Sprinkle Delight", 5.15, 10)

	rec := a.request(t, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"customer": map[string]string{"name": "Ana", "email": "ana@example.com"},
		"items":    []map[string]interface{}{{"product_id": p.ID, "quantity": 2}},
		"total":    10.30,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data domain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.Data.Total)
	assert.Equal(t, domain.OrderStatusPending, resp.Data.Status)

	got, err := a.store.Product(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Stock)
}

func TestCheckoutRejectionCodes(t *testing.T) {
	a := newTestAPI(t)
	p := a.seedProduct(t, "Fruity Blast Chews", 1.99, 1)

	// insufficient stock
	rec := a.request(t, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"customer": map[string]string{"name": "Ana"},
		"items":    []map[string]interface{}{{"product_id": p.ID, "quantity": 5}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, rec))

	// daily limit after two successful placements
	big := a.seedProduct(t, "Chocolate Dream Bars", 3.49, 100)
	for i := 0; i < 2; i++ {
		rec = a.request(t, http.MethodPost, "/api/checkout", "", map[string]interface{}{
			"customer": map[string]string{"name": "Ben"},
			"items":    []map[string]interface{}{{"product_id": big.ID, "quantity": 1}},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = a.request(t, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"customer": map[string]string{"name": "Ben"},
		"items":    []map[string]interface{}{{"product_id": big.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DAILY_LIMIT_REACHED", errorCode(t, rec))

	// malformed request
	rec = a.request(t, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"customer": map[string]string{"name": ""},
		"items":    []map[string]interface{}{{"product_id": p.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rec))
}

func TestAdminProductCRUD(t *testing.T) {
	a := newTestAPI(t)
	token := a.login(t)

	rec := a.request(t, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"name":  "Caramel Twists",
		"price": 2.49,
		"stock": 7,
		"currencies": []map[string]interface{}{
			{"type": "crayon", "amount": 1.2},
		},
		"in_stock": false, // must be ignored and derived from stock
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Data.InStock)
	assert.Equal(t, 7, created.Data.Stock)

	// update to zero stock flips the derived flag
	rec = a.request(t, http.MethodPut, "/api/admin/products/"+created.Data.ID, token, map[string]interface{}{
		"name":  "Caramel Twists",
		"price": 2.49,
		"stock": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.False(t, updated.Data.InStock)

	rec = a.request(t, http.MethodDelete, "/api/admin/products/"+created.Data.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = a.request(t, http.MethodDelete, "/api/admin/products/"+created.Data.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminOrderStatusAndDelete(t *testing.T) {
	a := newTestAPI(t)
	token := a.login(t)
	p := a.seedProduct(t, "Sugar Sprinkle Delight", 2.99, 10)

	rec := a.request(t, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"customer": map[string]string{"name": "Ana"},
		"items":    []map[string]interface{}{{"product_id": p.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var placed struct {
		Data domain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec = a.request(t, http.MethodPut,
		fmt.Sprintf("/api/admin/orders/%s/status", placed.Data.ID), token,
		map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.request(t, http.MethodPut,
		fmt.Sprintf("/api/admin/orders/%s/status", placed.Data.ID), token,
		map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, rec))

	// delete restores stock
	rec = a.request(t, http.MethodDelete, "/api/admin/orders/"+placed.Data.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	got, err := a.store.Product(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)

	rec = a.request(t, http.MethodDelete, "/api/admin/orders/"+placed.Data.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorefrontOrderLookup(t *testing.T) {
	a := newTestAPI(t)
	p := a.seedProduct(t, "Sugar Sprinkle Delight", 2.99, 10)

	rec := a.request(t, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"customer": map[string]string{"name": "Ana"},
		"items":    []map[string]interface{}{{"product_id": p.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.request(t, http.MethodGet, "/api/orders?customer=Ana", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)

	rec = a.request(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
