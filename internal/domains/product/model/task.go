package model

// Task payloads cho asynq

type GenerateThumbnailPayload struct {
	ProductID string `json:"product_id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

type DeleteOrphanPayload struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Locator   string `json:"locator"`
	Reason    string `json:"reason"`
}

type WarmCatalogPayload struct{}
