package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/product/model"
	"storefront-backend/pkg/cache"
)

const publishedCacheKey = "catalog:published"

type catalogService struct {
	store backend.CatalogStore // nil = demo mode
	cache cache.Cache          // nil = không cache
	ttl   time.Duration
}

func NewCatalogService(store backend.CatalogStore, c cache.Cache, ttl time.Duration) CatalogService {
	return &catalogService{store: store, cache: c, ttl: ttl}
}

// ListPublished: cache-aside, Redis lỗi thì đọc thẳng DB
func (s *catalogService) ListPublished(ctx context.Context) ([]*model.Product, error) {
	if s.store == nil {
		return []*model.Product{}, nil
	}

	if s.cache != nil {
		var cached []*model.Product
		found, err := s.cache.Get(ctx, publishedCacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("Catalog cache read failed")
		} else if found {
			return cached, nil
		}
	}

	products, err := s.store.SelectPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("select published: %w", err)
	}

	s.writeCache(ctx, products)
	return products, nil
}

func (s *catalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey); err != nil {
		log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}

// Warm đọc DB và ghi đè cache, trả về số entry
func (s *catalogService) Warm(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}

	products, err := s.store.SelectPublished(ctx)
	if err != nil {
		return 0, fmt.Errorf("select published: %w", err)
	}

	s.writeCache(ctx, products)
	return len(products), nil
}

func (s *catalogService) writeCache(ctx context.Context, products []*model.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, publishedCacheKey, products, s.ttl); err != nil {
		log.Warn().Err(err).Msg("Catalog cache write failed")
	}
}
