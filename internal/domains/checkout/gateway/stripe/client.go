package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/checkout/model"
)

const ProviderName = "stripe"

// =====================================================
// STRIPE CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) (backend.PaymentSessions, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type sessionResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession tạo hosted Checkout Session (card, mode=payment, quantity 1)
func (c *Client) CreateSession(ctx context.Context, items []model.LineItem) (*model.Session, error) {
	// Step 1: Build form body
	form := c.buildForm(items)

	// Step 2: Call Stripe API
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GetSessionsURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Stripe API: %w", err)
	}
	defer resp.Body.Close()

	// Step 3: Parse response
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var respData sessionResponse
	if err := json.Unmarshal(bodyBytes, &respData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 || respData.Error != nil {
		if respData.Error != nil {
			return nil, fmt.Errorf("Stripe API error: %s", respData.Error.Message)
		}
		return nil, fmt.Errorf("Stripe API error: status %d", resp.StatusCode)
	}

	return &model.Session{
		ID:       respData.ID,
		URL:      respData.URL,
		Provider: ProviderName,
	}, nil
}

func (c *Client) buildForm(items []model.LineItem) url.Values {
	form := url.Values{}
	form.Set("payment_method_types[0]", "card")
	form.Set("mode", "payment")
	form.Set("success_url", c.config.SuccessURL)
	form.Set("cancel_url", c.config.CancelURL)

	for i, item := range items {
		prefix := "line_items[" + strconv.Itoa(i) + "]"
		form.Set(prefix+"[price_data][currency]", c.config.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmountCents(), 10))
		form.Set(prefix+"[quantity]", "1")
	}
	return form
}
