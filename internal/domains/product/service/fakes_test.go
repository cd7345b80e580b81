package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/product/model"
)

// ==================== storage ====================

type mockStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	putCalls   int
	putErr     error
	block      bool // Put chờ tới khi ctx hết hạn
	noBase     bool
	deleteKeys []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string][]byte)}
}

func (m *mockStorage) Put(ctx context.Context, namespace, key string, data []byte, contentType string) error {
	m.mu.Lock()
	m.putCalls++
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if m.putErr != nil {
		return m.putErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[namespace+"/"+key] = data
	return nil
}

func (m *mockStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[namespace+"/"+key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (m *mockStorage) Delete(ctx context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, namespace+"/"+key)
	m.deleteKeys = append(m.deleteKeys, key)
	return nil
}

func (m *mockStorage) PublicURL(namespace, key string) (string, error) {
	if m.noBase {
		return "", errors.New("namespace has no public base URL")
	}
	if !strings.HasPrefix(key, "public/") {
		return "", fmt.Errorf("key %s is not public", key)
	}
	return "https://cdn.test/" + namespace + "/" + key, nil
}

func (m *mockStorage) objectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// ==================== catalog ====================

type mockCatalog struct {
	mu          sync.Mutex
	rows        []*model.Product
	insertCalls int
	insertErr   error
	selectCalls int
	block       bool // Insert chờ tới khi ctx hết hạn
	ackLost     bool // row được ghi nhưng client nhận DeadlineExceeded
}

func (m *mockCatalog) Insert(ctx context.Context, p *model.Product) (uuid.UUID, error) {
	m.mu.Lock()
	m.insertCalls++
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return uuid.Nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return uuid.Nil, m.insertErr
	}

	clone := *p
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	m.rows = append(m.rows, &clone)
	if m.ackLost {
		return uuid.Nil, context.DeadlineExceeded
	}
	return clone.ID, nil
}

func (m *mockCatalog) ExistsByImageURL(ctx context.Context, imageURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.ImageURL == imageURL {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCatalog) SelectPublished(ctx context.Context) ([]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectCalls++

	out := make([]*model.Product, 0, len(m.rows))
	for _, p := range m.rows {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

// ==================== cache ====================

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deletes++
	return nil
}

func (m *mockCache) Ping(ctx context.Context) error { return nil }

// ==================== tasks ====================

type enqueuedTask struct {
	Type    string
	Payload interface{}
}

type mockEnqueuer struct {
	mu    sync.Mutex
	tasks []enqueuedTask
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, enqueuedTask{Type: taskType, Payload: payload})
	return nil
}

func (m *mockEnqueuer) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.Type)
	}
	return out
}

func (m *mockEnqueuer) payloads(taskType string) []interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []interface{}
	for _, t := range m.tasks {
		if t.Type == taskType {
			out = append(out, t.Payload)
		}
	}
	return out
}
