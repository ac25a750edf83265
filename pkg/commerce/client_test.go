package commerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/blackboxinc/storefront-backend/pkg/config"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(config.CommerceConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	return client, server
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(config.CommerceConfig{BaseURL: "api.commerce.example"}, nil)
	require.Error(t, err)

	_, err = New(config.CommerceConfig{BaseURL: "  "}, nil)
	require.Error(t, err)
}

func TestGetUnwrapsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/summer-dress", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok","data":{"id":7,"slug":"summer-dress"}}`))
	}))

	var product struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	}
	err := client.Get(context.Background(), "/product/summer-dress", nil, &product)
	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, "summer-dress", product.Slug)
}

func TestGetPageFlattensNestedList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12", r.URL.Query().Get("per_page"))
		w.Write([]byte(`{"code":200,"message":"ok","data":{"current_page":2,"last_page":5,"total":55,"per_page":12,"data":[{"id":1},{"id":2}]}}`))
	}))

	type row struct {
		ID int64 `json:"id"`
	}
	query := url.Values{}
	query.Set("per_page", "12")
	page, err := GetPage[row](context.Background(), client, "/product", query)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 5, page.LastPage)
	assert.Equal(t, 55, page.Total)
	assert.Equal(t, 12, page.PerPage)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Data[1].ID)
}

func TestGetPageTreatsNullRowsAsEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"message":"ok","data":{"current_page":1,"last_page":1,"total":0,"per_page":12,"data":null}}`))
	}))

	type row struct{}
	page, err := GetPage[row](context.Background(), client, "/product", nil)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestErrorStatusSurfacesAsDependencyError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":422,"message":"voucher expired","data":null}`))
	}))

	var out any
	err := client.Get(context.Background(), "/product", nil, &out)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, "voucher expired", typed.Message())
}

func TestSubmitTransactionClassifiesPaymentLink(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"code":200,"message":"ok","data":{"reference":"INV-1","payment":{"account_number":"https://pay.example/abc"}}}`))
	}))

	result, err := client.SubmitTransaction(context.Background(), "token-1", TransactionRequest{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreatedWithPayment, result.Outcome)
	assert.Equal(t, "INV-1", result.Reference)
	assert.Equal(t, "https://pay.example/abc", result.PaymentURL)
}

func TestSubmitTransactionClassifiesReferenceOnly(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"message":"ok","data":{"reference":"INV-2","payment":null}}`))
	}))

	result, err := client.SubmitTransaction(context.Background(), "token-1", TransactionRequest{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, "INV-2", result.Reference)
	assert.Empty(t, result.PaymentURL)
}

func TestSubmitTransactionAmbiguousSuccessIsAccepted(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"message":"ok","data":{}}`))
	}))

	result, err := client.SubmitTransaction(context.Background(), "token-1", TransactionRequest{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
}

func TestSubmitGuestTransactionUsesPublicEndpointAndArrayData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/transaction", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"code":200,"message":"ok","data":[{"reference":"INV-3"}]}`))
	}))

	result, err := client.SubmitGuestTransaction(context.Background(), GuestTransactionRequest{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, "INV-3", result.Reference)
}

func TestSubmitTransactionRejectionKeepsError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":400,"message":"address unreachable","data":null}`))
	}))

	_, err := client.SubmitTransaction(context.Background(), "token-1", TransactionRequest{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
