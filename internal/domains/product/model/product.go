package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product là một catalog entry trong bảng products
// Workflow chỉ insert, không bao giờ update/delete
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	PaymentLink *string         `json:"payment_link,omitempty"`
	Published   bool            `json:"published"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StoredAsset mô tả file ảnh đã được ghi vào object storage
type StoredAsset struct {
	Namespace   string `json:"namespace"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Locator     string `json:"locator,omitempty"`
}

// UploadedFile là file nhận từ multipart form hoặc CLI
type UploadedFile struct {
	Filename string
	Data     []byte
}

func (f *UploadedFile) Empty() bool {
	return f == nil || len(f.Data) == 0
}
