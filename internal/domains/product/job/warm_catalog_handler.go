package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/domains/product/service"
)

// WarmCatalogHandler nạp lại cache danh sách sản phẩm (cron 5 phút)
type WarmCatalogHandler struct {
	catalog service.CatalogService
}

func NewWarmCatalogHandler(catalog service.CatalogService) *WarmCatalogHandler {
	return &WarmCatalogHandler{catalog: catalog}
}

func (h *WarmCatalogHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	n, err := h.catalog.Warm(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to warm catalog cache")
		return fmt.Errorf("warm catalog: %w", err)
	}

	log.Debug().Int("products", n).Msg("Catalog cache warmed")
	return nil
}
