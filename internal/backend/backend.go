// Package backend khai báo các external service mà storefront phụ thuộc.
// Config được resolve một lần lúc startup (pkg/container) rồi truyền
// tường minh vào services; không có client dạng biến package-level.
package backend

import (
	"context"

	"github.com/google/uuid"

	checkoutModel "storefront-backend/internal/domains/checkout/model"
	productModel "storefront-backend/internal/domains/product/model"
)

// ObjectStorage: blob store có namespace (bucket) và public-read prefix
type ObjectStorage interface {
	Put(ctx context.Context, namespace, key string, data []byte, contentType string) error
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Delete(ctx context.Context, namespace, key string) error
	// PublicURL là phép suy ra thuần túy, không gọi network
	PublicURL(namespace, key string) (string, error)
}

// CatalogStore: bảng catalog entries
type CatalogStore interface {
	Insert(ctx context.Context, p *productModel.Product) (uuid.UUID, error)
	SelectPublished(ctx context.Context) ([]*productModel.Product, error)
	// ExistsByImageURL: có entry nào đang trỏ tới locator này không
	ExistsByImageURL(ctx context.Context, imageURL string) (bool, error)
}

// PaymentSessions: hosted checkout của payment processor
type PaymentSessions interface {
	CreateSession(ctx context.Context, items []checkoutModel.LineItem) (*checkoutModel.Session, error)
}

// Config gom các backend; field nil = backend chưa được cấu hình
type Config struct {
	Storage ObjectStorage
	Catalog CatalogStore
	Payment PaymentSessions
}

// PublishReady: đủ storage + catalog để chạy publish workflow
func (c Config) PublishReady() bool {
	return c.Storage != nil && c.Catalog != nil
}

func (c Config) CheckoutReady() bool {
	return c.Payment != nil
}
