package shared

// Asynq task types
const (
	TypeGenerateThumbnail = "product:generate_thumbnail"
	TypeDeleteOrphanAsset = "asset:delete_orphan"
	TypeWarmCatalogCache  = "catalog:warm_cache"
)

// Asynq queues (priority cấu hình trong cmd/worker)
const (
	QueueImages  = "images"
	QueueCatalog = "catalog"
	QueueDefault = "default"
)
