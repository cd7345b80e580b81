package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/xid"

	"storefront-backend/internal/domains/checkout/model"
)

const ProviderName = "mock"

// =====================================================
// MOCK PAYMENT GATEWAY (dev + tests)
// =====================================================

type Gateway struct {
	mu          sync.Mutex
	successURL  string
	withoutURL  bool
	shouldFail  bool
	lastItems   []model.LineItem
	calledTimes int
}

func NewGateway(siteURL string) *Gateway {
	return &Gateway{successURL: siteURL + "/success"}
}

func (g *Gateway) CreateSession(ctx context.Context, items []model.LineItem) (*model.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calledTimes++
	g.lastItems = append([]model.LineItem(nil), items...)

	if g.shouldFail {
		return nil, fmt.Errorf("mock session creation failed")
	}

	id := "mock_cs_" + xid.New().String()
	session := &model.Session{ID: id, Provider: ProviderName}
	if !g.withoutURL {
		session.URL = fmt.Sprintf("%s?session_id=%s", g.successURL, id)
	}
	return session, nil
}

// SetFail sets whether session creation should fail
func (g *Gateway) SetFail(shouldFail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shouldFail = shouldFail
}

// SetWithoutURL: processor chỉ trả id (client tự redirect bằng id)
func (g *Gateway) SetWithoutURL(withoutURL bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.withoutURL = withoutURL
}

func (g *Gateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calledTimes
}

func (g *Gateway) LastItems() []model.LineItem {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastItems
}
