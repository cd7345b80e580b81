package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const MaxLineItems = 100

// MaxUnitAmountCents: trần amount một line item ($999,999.99) của Stripe/Square
const MaxUnitAmountCents = 99_999_999

// =====================================================
// CHECKOUT REQUEST
// =====================================================

// CheckoutRequest body của POST /api/checkout
// {items: [{name, price}, ...]}
type CheckoutRequest struct {
	Items []LineItem `json:"items"`
}

// LineItem: mỗi item quantity = 1
type LineItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items,
			validation.Required.Error("at least one item is required"),
			validation.Length(1, MaxLineItems),
		),
	)
}

func (i LineItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required.Error("item name is required")),
		validation.Field(&i.Price, validation.By(chargeableAmount)),
	)
}

var maxUnitAmount = decimal.NewFromInt(MaxUnitAmountCents)

// chargeableAmount: 0 <= round(price*100) <= MaxUnitAmountCents
// Chặn trước khi UnitAmountCents đổi sang int64
func chargeableAmount(value interface{}) error {
	amount, _ := value.(decimal.Decimal)
	if amount.IsNegative() {
		return validation.NewError("validation_price_negative", "price must not be negative")
	}
	if toCents(amount).GreaterThan(maxUnitAmount) {
		return validation.NewError("validation_price_too_large", "price must not exceed 999999.99")
	}
	return nil
}

func toCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(100)).Round(0)
}

// UnitAmountCents = round(price * 100)
func (i LineItem) UnitAmountCents() int64 {
	return toCents(i.Price).IntPart()
}

// =====================================================
// CHECKOUT SESSION
// =====================================================

// Session là hosted checkout session trả về từ payment processor
type Session struct {
	ID       string `json:"id"`
	URL      string `json:"url,omitempty"`
	Provider string `json:"provider"`
}

// CheckoutResponse: {url} nếu processor trả URL, ngược lại {id}
type CheckoutResponse struct {
	URL string `json:"url,omitempty"`
	ID  string `json:"id,omitempty"`
}

func NewCheckoutResponse(s *Session) CheckoutResponse {
	if s.URL != "" {
		return CheckoutResponse{URL: s.URL}
	}
	return CheckoutResponse{ID: s.ID}
}
