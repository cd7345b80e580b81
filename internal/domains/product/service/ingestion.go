package service

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/xid"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/infrastructure/storage"
)

const fallbackExtension = "bin"

// AssetIngestor ghi file ảnh vào object storage dưới key public/<token>.<ext>
type AssetIngestor struct {
	storage  backend.ObjectStorage
	newToken func() string
}

func NewAssetIngestor(store backend.ObjectStorage) *AssetIngestor {
	return &AssetIngestor{
		storage:  store,
		newToken: func() string { return xid.New().String() },
	}
}

// Ingest upload một file, không retry
func (i *AssetIngestor) Ingest(ctx context.Context, namespace string, file *model.UploadedFile) (*model.StoredAsset, error) {
	if file.Empty() {
		return nil, model.NewMissingInputError("file")
	}

	key := DeriveKey(file.Filename, i.newToken())
	contentType := mimetype.Detect(file.Data).String()

	if err := i.storage.Put(ctx, namespace, key, file.Data, contentType); err != nil {
		return nil, model.NewStorageWriteError(err)
	}

	return &model.StoredAsset{
		Namespace:   namespace,
		Key:         key,
		Size:        int64(len(file.Data)),
		ContentType: contentType,
	}, nil
}

// DeriveKey: public/<token>.<ext>
func DeriveKey(filename, token string) string {
	return storage.PublicPrefix + token + "." + FileExtension(filename)
}

// FileExtension lấy segment cuối sau dấu '.', lower-case
// Không có extension (hoặc ký tự lạ) -> "bin"
func FileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return fallbackExtension
	}

	ext := strings.ToLower(filename[idx+1:])
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fallbackExtension
		}
	}
	return ext
}

// ThumbnailKey: public/thumbnails/<token>.jpg cho asset key public/<token>.<ext>
func ThumbnailKey(assetKey string) string {
	name := strings.TrimPrefix(assetKey, storage.PublicPrefix)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return storage.PublicPrefix + "thumbnails/" + name + ".jpg"
}
