package service

import (
	"context"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/product/model"
)

// PublishService chạy publish workflow: upload ảnh -> resolve URL -> insert entry
type PublishService interface {
	Publish(ctx context.Context, sub *Submission) (*model.PublishResponse, error)
	Status() model.StatusResponse
}

// CatalogService đọc danh sách sản phẩm public (có cache)
type CatalogService interface {
	ListPublished(ctx context.Context) ([]*model.Product, error)
	Invalidate(ctx context.Context)
	Warm(ctx context.Context) (int, error)
}

// TaskEnqueuer là phần của queue.Client mà services cần
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}
