package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/product/model"
)

func seedCatalog(t *testing.T, store *mockCatalog) {
	t.Helper()
	_, err := store.Insert(context.Background(), &model.Product{
		Name: "Rocket", Description: "fast", Price: decimal.RequireFromString("49.99"), Published: true,
	})
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), &model.Product{
		Name: "Draft", Description: "hidden", Price: decimal.Zero, Published: false,
	})
	require.NoError(t, err)
}

func TestListPublished_CacheAside(t *testing.T) {
	store := &mockCatalog{}
	seedCatalog(t, store)
	c := newMockCache()
	svc := NewCatalogService(store, c, time.Minute)

	first, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Rocket", first[0].Name)

	second, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Price.Equal(decimal.RequireFromString("49.99")))

	// lần 2 đọc từ cache
	assert.Equal(t, 1, store.selectCalls)

	svc.Invalidate(context.Background())
	_, err = svc.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.selectCalls)
}

func TestListPublished_CacheErrorFallsBackToStore(t *testing.T) {
	store := &mockCatalog{}
	seedCatalog(t, store)
	c := newMockCache()
	c.getErr = errors.New("redis down")
	svc := NewCatalogService(store, c, time.Minute)

	products, err := svc.ListPublished(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestListPublished_DemoMode(t *testing.T) {
	svc := NewCatalogService(nil, nil, time.Minute)

	products, err := svc.ListPublished(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestWarm(t *testing.T) {
	store := &mockCatalog{}
	seedCatalog(t, store)
	c := newMockCache()
	svc := NewCatalogService(store, c, time.Minute)

	n, err := svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.selectCalls)
}
