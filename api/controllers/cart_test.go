package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackboxinc/storefront-backend/api/middleware"
	cartsvc "github.com/blackboxinc/storefront-backend/internal/cart"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
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

func newTestCartStore(t *testing.T) *cartsvc.Store {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "cart-controller-test", Output: io.Discard})
	store, err := cartsvc.NewStore(&memoryCartRepo{states: map[string]cartsvc.State{}}, logg)
	require.NoError(t, err)
	return store
}

func addItemRequestWithShopper(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	return req.WithContext(middleware.WithShopperID(req.Context(), "sess-1"))
}

func TestCartAddItemSanitizesDisplayFields(t *testing.T) {
	store := newTestCartStore(t)

	body := `{"product_id":10,"name":"  Summer Dress  ","variant_label":"  Navy  "}`
	w := httptest.NewRecorder()
	CartAddItem(store, nil)(w, addItemRequestWithShopper(body))
	require.Equal(t, http.StatusCreated, w.Code)

	state := store.Current(context.Background(), "sess-1")
	require.Len(t, state.Lines, 1)
	assert.Equal(t, "Summer Dress", state.Lines[0].Name)
	assert.Equal(t, "Navy", state.Lines[0].VariantLabel)
}

func TestCartAddItemBoundsNameLength(t *testing.T) {
	store := newTestCartStore(t)

	long := strings.Repeat("a", 400)
	body := `{"product_id":10,"name":"` + long + `"}`
	w := httptest.NewRecorder()
	CartAddItem(store, nil)(w, addItemRequestWithShopper(body))
	require.Equal(t, http.StatusCreated, w.Code)

	state := store.Current(context.Background(), "sess-1")
	require.Len(t, state.Lines, 1)
	assert.Len(t, state.Lines[0].Name, 255)
}

func TestCartAddItemRejectsMissingProduct(t *testing.T) {
	store := newTestCartStore(t)

	w := httptest.NewRecorder()
	CartAddItem(store, nil)(w, addItemRequestWithShopper(`{"name":"No Product"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.Current(context.Background(), "sess-1").Lines)
}
