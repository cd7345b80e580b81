package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/checkout/model"
	"storefront-backend/internal/infrastructure/metrics"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, req model.CheckoutRequest) (*model.Session, error)
}

type checkoutService struct {
	payment  backend.PaymentSessions // nil = chưa cấu hình
	provider string
	observer metrics.CheckoutObserver
}

func NewCheckoutService(payment backend.PaymentSessions, provider string, observer metrics.CheckoutObserver) CheckoutService {
	if observer == nil {
		observer = metrics.NopObserver{}
	}
	return &checkoutService{payment: payment, provider: provider, observer: observer}
}

// CreateSession validate items rồi gọi payment processor
// Giá lấy theo client gửi lên (catalog không được đối chiếu)
func (s *checkoutService) CreateSession(ctx context.Context, req model.CheckoutRequest) (*model.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(err.Error())
	}

	if s.payment == nil {
		log.Warn().Str("provider", s.provider).Msg("Checkout rejected: payment gateway not configured")
		return nil, model.NewConfigurationError()
	}

	start := time.Now()
	session, err := s.payment.CreateSession(ctx, req.Items)
	s.observer.RecordCheckout(s.provider, time.Since(start), err)
	if err != nil {
		log.Error().Err(err).Str("provider", s.provider).Int("items", len(req.Items)).Msg("Failed to create checkout session")
		return nil, model.NewProviderError(s.provider, err)
	}

	log.Info().
		Str("provider", s.provider).
		Str("session_id", session.ID).
		Int("items", len(req.Items)).
		Msg("Checkout session created")
	return session, nil
}
