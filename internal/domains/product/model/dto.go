package model

import (
	"errors"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// =====================================================
// PUBLISH REQUEST
// =====================================================

// PublishRequest là các text field của form đăng sản phẩm
// File ảnh đi riêng (UploadedFile) vì không echo lại khi lỗi
type PublishRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price"`
	PaymentLink string `form:"payment_link" json:"payment_link,omitempty"`
}

// thứ tự field dùng để báo lỗi đầu tiên một cách ổn định
var publishFieldOrder = []string{"name", "description", "price", "payment_link"}

// Normalize trim khoảng trắng các field
func (r *PublishRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Price = strings.TrimSpace(r.Price)
	r.PaymentLink = strings.TrimSpace(r.PaymentLink)
}

// Validate kiểm tra form, trả về *PublishError (VALIDATION_ERROR) cho field lỗi đầu tiên
func (r PublishRequest) Validate(requirePaymentLink bool) error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
		),
		validation.Field(&r.Price,
			validation.Required.Error("price is required"),
			validation.By(priceRule),
		),
		validation.Field(&r.PaymentLink,
			validation.When(requirePaymentLink, validation.Required.Error("payment link is required")),
			validation.When(r.PaymentLink != "", is.URL, validation.By(httpURLRule)),
		),
	)
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return NewValidationError("form", err.Error())
	}
	for _, field := range publishFieldOrder {
		if fieldErr, ok := verrs[field]; ok && fieldErr != nil {
			return NewValidationError(field, fieldErr.Error())
		}
	}
	return NewValidationError("form", err.Error())
}

// ParsedPrice chỉ gọi sau khi Validate thành công
func (r PublishRequest) ParsedPrice() decimal.Decimal {
	price, _ := decimal.NewFromString(r.Price)
	return price
}

// ToProduct build catalog entry từ form đã validate và locator của ảnh
func (r PublishRequest) ToProduct(imageURL string) *Product {
	p := &Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.ParsedPrice(),
		ImageURL:    imageURL,
		Published:   true,
	}
	if r.PaymentLink != "" {
		link := r.PaymentLink
		p.PaymentLink = &link
	}
	return p
}

// Form trả về các text field để echo lại cho operator khi publish thất bại
func (r PublishRequest) Form() map[string]string {
	return map[string]string{
		"name":         r.Name,
		"description":  r.Description,
		"price":        r.Price,
		"payment_link": r.PaymentLink,
	}
}

// =====================================================
// RULES
// =====================================================

// MaxPrice: giới hạn của cột products.price NUMERIC(10, 2)
var MaxPrice = decimal.RequireFromString("99999999.99")

func priceRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("price must be a number")
	}
	if price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if !price.Equal(price.Round(2)) {
		return errors.New("price must have at most 2 decimal places")
	}
	if price.GreaterThan(MaxPrice) {
		return errors.New("price must not exceed 99999999.99")
	}
	return nil
}

func httpURLRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return errors.New("payment link must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("payment link must use http or https")
	}
	return nil
}

// =====================================================
// RESPONSES
// =====================================================

// PublishResponse trả về khi workflow đến Published
type PublishResponse struct {
	Product *Product     `json:"product"`
	Asset   *StoredAsset `json:"asset"`
	State   PublishState `json:"state"`
	Trace   []Transition `json:"trace"`
}

// StatusResponse cho GET /admin/status
type StatusResponse struct {
	StorageConfigured bool   `json:"storage_configured"`
	CatalogConfigured bool   `json:"catalog_configured"`
	DemoMode          bool   `json:"demo_mode"`
	Namespace         string `json:"namespace"`
	Message           string `json:"message,omitempty"`
}
