package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/checkout/gateway/mock"
	"storefront-backend/internal/domains/checkout/model"
)

func items(n int) []model.LineItem {
	out := make([]model.LineItem, n)
	for i := range out {
		out[i] = model.LineItem{Name: "Rocket", Price: decimal.RequireFromString("49.99")}
	}
	return out
}

func TestCreateSession_Success(t *testing.T) {
	gw := mock.NewGateway("http://localhost:3000")
	svc := NewCheckoutService(gw, mock.ProviderName, nil)

	session, err := svc.CreateSession(context.Background(), model.CheckoutRequest{Items: items(2)})

	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)
	assert.Equal(t, 1, gw.Calls())
	assert.Len(t, gw.LastItems(), 2)
}

func TestCreateSession_Validation(t *testing.T) {
	gw := mock.NewGateway("http://localhost:3000")
	svc := NewCheckoutService(gw, mock.ProviderName, nil)

	cases := map[string]model.CheckoutRequest{
		"no items":       {},
		"too many items": {Items: items(model.MaxLineItems + 1)},
		"missing name":   {Items: []model.LineItem{{Price: decimal.NewFromInt(1)}}},
		"negative price": {Items: []model.LineItem{{Name: "x", Price: decimal.NewFromInt(-1)}}},
		"price overflows processor limit": {Items: []model.LineItem{
			{Name: "x", Price: decimal.RequireFromString("100000000000000000")},
		}},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateSession(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidRequest)
			assert.Equal(t, 400, model.MapErrorToHTTP(err))
		})
	}
	assert.Equal(t, 0, gw.Calls())
}

func TestCreateSession_NotConfigured(t *testing.T) {
	svc := NewCheckoutService(nil, "stripe", nil)

	_, err := svc.CreateSession(context.Background(), model.CheckoutRequest{Items: items(1)})

	require.Error(t, err)
	assert.True(t, model.IsConfigurationError(err))
	assert.Equal(t, 503, model.MapErrorToHTTP(err))
}

func TestCreateSession_ProviderError(t *testing.T) {
	gw := mock.NewGateway("http://localhost:3000")
	gw.SetFail(true)
	svc := NewCheckoutService(gw, mock.ProviderName, nil)

	_, err := svc.CreateSession(context.Background(), model.CheckoutRequest{Items: items(1)})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProviderFailed)
	assert.Equal(t, 502, model.MapErrorToHTTP(err))
}

func TestCheckoutResponse(t *testing.T) {
	assert.Equal(t, model.CheckoutResponse{URL: "https://pay"}, model.NewCheckoutResponse(&model.Session{ID: "cs_1", URL: "https://pay"}))
	assert.Equal(t, model.CheckoutResponse{ID: "cs_1"}, model.NewCheckoutResponse(&model.Session{ID: "cs_1"}))
}

func TestUnitAmountCents(t *testing.T) {
	assert.Equal(t, int64(4999), model.LineItem{Price: decimal.RequireFromString("49.99")}.UnitAmountCents())
	assert.Equal(t, int64(1), model.LineItem{Price: decimal.RequireFromString("0.005")}.UnitAmountCents())
	assert.Equal(t, int64(0), model.LineItem{Price: decimal.Zero}.UnitAmountCents())
}
