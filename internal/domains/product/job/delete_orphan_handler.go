package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/infrastructure/storage"
)

// DeleteOrphanHandler xóa asset đã upload nhưng commit catalog thất bại
// Chỉ xóa khi không có catalog entry nào tham chiếu tới locator của asset
type DeleteOrphanHandler struct {
	storage backend.ObjectStorage
	catalog backend.CatalogStore
}

func NewDeleteOrphanHandler(store backend.ObjectStorage, catalog backend.CatalogStore) *DeleteOrphanHandler {
	return &DeleteOrphanHandler{storage: store, catalog: catalog}
}

func (h *DeleteOrphanHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.DeleteOrphanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteOrphan payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	// chỉ xóa trong prefix public/ do workflow tạo ra
	if payload.Namespace == "" || !strings.HasPrefix(payload.Key, storage.PublicPrefix) {
		log.Warn().Str("key", payload.Key).Msg("Refusing to delete asset outside public prefix")
		return fmt.Errorf("invalid orphan key %q: %w", payload.Key, asynq.SkipRetry)
	}

	// Không xác minh được thì giữ asset
	if h.catalog == nil {
		log.Warn().Str("key", payload.Key).Msg("Catalog not configured, keeping possibly orphaned asset")
		return fmt.Errorf("cannot verify orphan %q: %w", payload.Key, asynq.SkipRetry)
	}

	locator := payload.Locator
	if locator == "" {
		url, err := h.storage.PublicURL(payload.Namespace, payload.Key)
		if err != nil {
			return fmt.Errorf("resolve locator: %w: %w", err, asynq.SkipRetry)
		}
		locator = url
	}

	referenced, err := h.catalog.ExistsByImageURL(ctx, locator)
	if err != nil {
		log.Error().Err(err).Str("key", payload.Key).Msg("Failed to check catalog reference")
		return fmt.Errorf("check reference: %w", err)
	}
	if referenced {
		log.Info().
			Str("key", payload.Key).
			Str("reason", payload.Reason).
			Msg("Asset is referenced by a catalog entry, not an orphan")
		return nil
	}

	if err := h.storage.Delete(ctx, payload.Namespace, payload.Key); err != nil {
		log.Error().Err(err).Str("key", payload.Key).Msg("Failed to delete orphaned asset")
		return fmt.Errorf("delete orphan: %w", err)
	}

	log.Info().
		Str("namespace", payload.Namespace).
		Str("key", payload.Key).
		Str("reason", payload.Reason).
		Msg("Orphaned asset deleted")
	return nil
}
