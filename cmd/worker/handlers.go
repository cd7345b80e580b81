package main

import (
	"log"

	"github.com/hibiken/asynq"

	productJob "storefront-backend/internal/domains/product/job"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
// Handler nào thiếu backend thì = nil và không được đăng ký
type HandlerRegistry struct {
	// Image handlers
	generateThumbnail *productJob.GenerateThumbnailHandler
	deleteOrphan      *productJob.DeleteOrphanHandler

	// Catalog handlers
	warmCatalog *productJob.WarmCatalogHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	h := &HandlerRegistry{
		warmCatalog: productJob.NewWarmCatalogHandler(c.CatalogService),
	}

	if c.Backends.Storage != nil {
		h.generateThumbnail = productJob.NewGenerateThumbnailHandler(c.Backends.Storage, c.Images)
		h.deleteOrphan = productJob.NewDeleteOrphanHandler(c.Backends.Storage, c.Backends.Catalog)
	} else {
		log.Println("[Worker] ⚠️ Storage not configured, image tasks will not be processed")
	}

	return h
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Image tasks
	if h.generateThumbnail != nil {
		mux.HandleFunc(shared.TypeGenerateThumbnail, h.generateThumbnail.ProcessTask)
	}
	if h.deleteOrphan != nil {
		mux.HandleFunc(shared.TypeDeleteOrphanAsset, h.deleteOrphan.ProcessTask)
	}

	// Catalog tasks
	mux.HandleFunc(shared.TypeWarmCatalogCache, h.warmCatalog.ProcessTask)
}
