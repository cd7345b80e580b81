package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/checkout/model"
)

func TestCreateSession(t *testing.T) {
	var gotForm map[string]string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k, v := range r.PostForm {
			gotForm[k] = v[0]
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_123","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`))
	}))
	defer server.Close()

	client, err := NewClient(NewConfig("sk_test_abc", server.URL, "USD", "https://shop.example.com/"))
	require.NoError(t, err)

	session, err := client.CreateSession(context.Background(), []model.LineItem{
		{Name: "Rocket", Price: decimal.RequireFromString("49.99")},
		{Name: "Fuel", Price: decimal.RequireFromString("0.125")},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", session.URL)
	assert.Equal(t, ProviderName, session.Provider)
	assert.Equal(t, "Bearer sk_test_abc", gotAuth)

	assert.Equal(t, "card", gotForm["payment_method_types[0]"])
	assert.Equal(t, "payment", gotForm["mode"])
	assert.Equal(t, "https://shop.example.com/success", gotForm["success_url"])
	assert.Equal(t, "https://shop.example.com/", gotForm["cancel_url"])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"])
	assert.Equal(t, "Rocket", gotForm["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, "4999", gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "1", gotForm["line_items[0][quantity]"])
	assert.Equal(t, "13", gotForm["line_items[1][price_data][unit_amount]"])
}

func TestCreateSession_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	}))
	defer server.Close()

	client, err := NewClient(NewConfig("sk_bad", server.URL, "usd", "http://localhost:3000"))
	require.NoError(t, err)

	_, err = client.CreateSession(context.Background(), []model.LineItem{{Name: "Rocket", Price: decimal.NewFromInt(1)}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API Key provided")
}

func TestNewClient_RequiresSecret(t *testing.T) {
	_, err := NewClient(NewConfig("", "https://api.stripe.com", "usd", "http://localhost:3000"))
	assert.Error(t, err)
}
