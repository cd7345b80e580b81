package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/domains/product/service"
	"storefront-backend/internal/infrastructure/storage"
)

// GenerateThumbnailHandler tạo ảnh thumbnail 300px cho asset vừa publish
// Catalog entry không bị sửa
type GenerateThumbnailHandler struct {
	storage backend.ObjectStorage
	images  *storage.ImageProcessor
}

func NewGenerateThumbnailHandler(store backend.ObjectStorage, images *storage.ImageProcessor) *GenerateThumbnailHandler {
	return &GenerateThumbnailHandler{storage: store, images: images}
}

func (h *GenerateThumbnailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.GenerateThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal GenerateThumbnail payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("product_id", payload.ProductID).
		Str("key", payload.Key).
		Msg("Generating thumbnail")

	original, err := h.storage.Get(ctx, payload.Namespace, payload.Key)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	thumb, err := h.images.Thumbnail(original)
	if err != nil {
		// ảnh hỏng thì retry cũng không giúp được
		log.Error().Err(err).Str("key", payload.Key).Msg("Failed to build thumbnail")
		return fmt.Errorf("thumbnail: %w: %w", err, asynq.SkipRetry)
	}

	thumbKey := service.ThumbnailKey(payload.Key)
	if err := h.storage.Put(ctx, payload.Namespace, thumbKey, thumb, "image/jpeg"); err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}

	log.Info().
		Str("product_id", payload.ProductID).
		Str("thumbnail_key", thumbKey).
		Msg("Thumbnail generated successfully")
	return nil
}
