package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"storefront-backend/internal/config"
)

// PublicPrefix là prefix được set public-read trên mỗi bucket
const PublicPrefix = "public/"

var (
	ErrNoPublicBase = errors.New("namespace has no public base URL")
	ErrNotPublicKey = errors.New("key is not under the public-read prefix")
)

// MinIOStorage implement backend.ObjectStorage
// namespace = bucket name
type MinIOStorage struct {
	client     *minio.Client
	publicBase string // scheme://host, không có dấu / cuối
}

// NewMinIOStorage khởi tạo MinIO client
// Không gọi network; dùng EnsureNamespace để tạo bucket + policy
func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL, // false cho local, true cho production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" && client.EndpointURL() != nil && client.EndpointURL().Host != "" {
		base = fmt.Sprintf("%s://%s", client.EndpointURL().Scheme, client.EndpointURL().Host)
	}

	return &MinIOStorage{
		client:     client,
		publicBase: strings.TrimRight(base, "/"),
	}, nil
}

// EnsureNamespace tạo bucket nếu chưa có và cho phép anonymous GET trên public/*
func (s *MinIOStorage) EnsureNamespace(ctx context.Context, namespace string) error {
	exists, err := s.client.BucketExists(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, namespace, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	if err := s.client.SetBucketPolicy(ctx, namespace, publicReadPolicy(namespace)); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s*"]}]}`,
		bucket, PublicPrefix)
}

// Put upload bytes lên MinIO
// key: đường dẫn trong bucket (vd: public/cv37img5tppgl0lq5mrg.png)
func (s *MinIOStorage) Put(ctx context.Context, namespace, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)

	_, err := s.client.PutObject(
		ctx,
		namespace,
		key,
		reader,
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upload to minio: %w", err)
	}
	return nil
}

// Get đọc toàn bộ object vào memory
func (s *MinIOStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, namespace, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, namespace, key string) error {
	err := s.client.RemoveObject(ctx, namespace, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL: <public base>/<bucket>/<key>
func (s *MinIOStorage) PublicURL(namespace, key string) (string, error) {
	if s.publicBase == "" || namespace == "" {
		return "", ErrNoPublicBase
	}
	if !strings.HasPrefix(key, PublicPrefix) {
		return "", fmt.Errorf("%w: %s", ErrNotPublicKey, key)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, namespace, key), nil
}

// Ping dùng cho health check
func (s *MinIOStorage) Ping(ctx context.Context, namespace string) error {
	if _, err := s.client.BucketExists(ctx, namespace); err != nil {
		return fmt.Errorf("minio unreachable: %w", err)
	}
	return nil
}
