package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/checkout/model"
)

const ProviderName = "square"

// =====================================================
// SQUARE CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
	newKey     func() string
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
		newKey: func() string { return uuid.NewString() },
	}, nil
}

type money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type orderLineItem struct {
	Name           string `json:"name"`
	Quantity       string `json:"quantity"`
	BasePriceMoney money  `json:"base_price_money"`
}

type paymentLinkRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	Order          struct {
		LocationID string          `json:"location_id"`
		LineItems  []orderLineItem `json:"line_items"`
	} `json:"order"`
	CheckoutOptions struct {
		RedirectURL string `json:"redirect_url"`
	} `json:"checkout_options"`
}

type paymentLinkResponse struct {
	PaymentLink *struct {
		ID      string `json:"id"`
		URL     string `json:"url"`
		OrderID string `json:"order_id"`
	} `json:"payment_link"`
	Errors []struct {
		Category string `json:"category"`
		Code     string `json:"code"`
		Detail   string `json:"detail"`
	} `json:"errors"`
}

// CreateSession tạo Square payment link cho một quick order
func (c *Client) CreateSession(ctx context.Context, items []model.LineItem) (*model.Session, error) {
	// Step 1: Build request body
	var reqBody paymentLinkRequest
	reqBody.IdempotencyKey = c.newKey()
	reqBody.Order.LocationID = c.config.LocationID
	reqBody.CheckoutOptions.RedirectURL = c.config.RedirectURL
	for _, item := range items {
		reqBody.Order.LineItems = append(reqBody.Order.LineItems, orderLineItem{
			Name:     item.Name,
			Quantity: "1",
			BasePriceMoney: money{
				Amount:   item.UnitAmountCents(),
				Currency: c.config.Currency,
			},
		})
	}

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Step 2: Call Square API
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GetPaymentLinksURL(), bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	if c.config.APIVersion != "" {
		httpReq.Header.Set("Square-Version", c.config.APIVersion)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Square API: %w", err)
	}
	defer resp.Body.Close()

	// Step 3: Parse response
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var respData paymentLinkResponse
	if err := json.Unmarshal(bodyBytes, &respData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if len(respData.Errors) > 0 {
		details := make([]string, 0, len(respData.Errors))
		for _, e := range respData.Errors {
			details = append(details, fmt.Sprintf("%s: %s", e.Code, e.Detail))
		}
		return nil, fmt.Errorf("Square API error: %s", strings.Join(details, "; "))
	}
	if resp.StatusCode >= 300 || respData.PaymentLink == nil {
		return nil, fmt.Errorf("Square API error: status %d", resp.StatusCode)
	}

	return &model.Session{
		ID:       respData.PaymentLink.ID,
		URL:      respData.PaymentLink.URL,
		Provider: ProviderName,
	}, nil
}
