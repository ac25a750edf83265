package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartsvc "github.com/blackboxinc/storefront-backend/internal/cart"
	catalogsvc "github.com/blackboxinc/storefront-backend/internal/catalog"
	checkoutsvc "github.com/blackboxinc/storefront-backend/internal/checkout"
	pkgauth "github.com/blackboxinc/storefront-backend/pkg/auth"
	"github.com/blackboxinc/storefront-backend/pkg/commerce"
	"github.com/blackboxinc/storefront-backend/pkg/config"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
	pkgredis "github.com/blackboxinc/storefront-backend/pkg/redis"
	"github.com/blackboxinc/storefront-backend/pkg/metrics"
)

type memoryCartRepo struct {
	states map[string]cartsvc.State
}

func (m *memoryCartRepo) Load(_ context.Context, shopperID string) (cartsvc.State, error) {
	return m.states[shopperID], nil
}

func (m *memoryCartRepo) Save(_ context.Context, shopperID string, state cartsvc.State) error {
	m.states[shopperID] = state
	return nil
}

type memoryGuestKV struct {
	values map[string]string
}

func (m *memoryGuestKV) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", pkgredis.Nil
}

func (m *memoryGuestKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = string(value.([]byte))
	return nil
}

func (m *memoryGuestKV) GuestInfoKey(sessionID string) string {
	return "test:guest-info:" + sessionID
}

func newTestRouter(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	client, err := commerce.New(config.CommerceConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, logg)
	require.NoError(t, err)

	carts, err := cartsvc.NewStore(&memoryCartRepo{states: map[string]cartsvc.State{}}, logg)
	require.NoError(t, err)

	guestInfo, err := checkoutsvc.NewGuestInfoStore(&memoryGuestKV{values: map[string]string{}}, time.Hour)
	require.NoError(t, err)

	checkout, err := checkoutsvc.NewService(carts, client, guestInfo, metrics.NewCheckoutMetrics(nil), logg, 0)
	require.NoError(t, err)

	catalog, err := catalogsvc.NewService(client)
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-test-secret"},
	}

	return NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Carts:     carts,
		Checkout:  checkout,
		GuestInfo: guestInfo,
		Catalog:   catalog,
		Metrics:   prometheus.NewRegistry(),
	})
}

func noUpstream(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s %s", r.Method, r.URL.Path)
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t, noUpstream(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", w.Header().Get("X-Storefront-Env"))
}

func TestRouterMintsGuestSession(t *testing.T) {
	router := newTestRouter(t, noUpstream(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Session-Id"))
}

func TestRouterCartFlow(t *testing.T) {
	router := newTestRouter(t, noUpstream(t))

	addBody := `{"product_id":10,"product_variant_id":3,"product_variant_size_id":7,"unit_price":"250000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addBody))
	req.Header.Set("X-Session-Id", "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"cart_id":"10-3-7"`)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/10-3-7/increase", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":2`)
	assert.Contains(t, w.Body.String(), `"total_items":2`)

	// Another session sees an empty cart.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-2")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_items":0`)
}

func TestRouterRejectsInvalidToken(t *testing.T) {
	router := newTestRouter(t, noUpstream(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterAcceptsShopperToken(t *testing.T) {
	router := newTestRouter(t, noUpstream(t))

	claims := pkgauth.ShopperClaims{
		Email: "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "shopper-9",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("router-test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Session-Id"))
}

func TestRouterGuestCheckoutValidation(t *testing.T) {
	router := newTestRouter(t, noUpstream(t))

	// Missing guest_email: rejected before any upstream call.
	body := `{
		"name":"Budi","address_1":"Jl. Sudirman 2","postal_code":"40115","district_id":327301,
		"payment_type":"manual","shipping_option":{"service":"REG","cost":"12000"}
	}`
	addReq := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":10}`))
	addReq.Header.Set("X-Session-Id", "sess-3")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, addReq)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "sess-3")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "guest_email")
}

func TestRouterGuestCheckoutSubmits(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/public/transaction", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok","data":{"reference":"INV-55"}}`))
	}))

	addReq := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":10}`))
	addReq.Header.Set("X-Session-Id", "sess-4")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, addReq)
	require.Equal(t, http.StatusCreated, w.Code)

	body := `{
		"guest_email":"guest@example.com","name":"Budi","address_1":"Jl. Sudirman 2",
		"postal_code":"40115","district_id":327301,"payment_type":"manual",
		"shipping_option":{"service":"REG","cost":"12000"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "sess-4")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "INV-55")

	// Cart cleared after the recognized success.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-4")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"total_items":0`)

	// Shipping details remembered for prefill.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/checkout/guest-info", nil)
	req.Header.Set("X-Session-Id", "sess-4")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "guest@example.com")
}

func TestRouterCatalogProxy(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/product", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok","data":{"current_page":1,"last_page":1,"total":1,"per_page":12,
			"data":[{"id":7,"slug":"summer-dress","name":"Summer Dress","price":"250000"}]}}`))
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "summer-dress")
	assert.Contains(t, w.Body.String(), `"current_page":1`)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, noUpstream(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
