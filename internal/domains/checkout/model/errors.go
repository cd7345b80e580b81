package model

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeInvalidRequest = "INVALID_CHECKOUT_REQUEST"
	ErrCodeProvider       = "PAYMENT_PROVIDER_ERROR"
	ErrCodeConfiguration  = "CONFIGURATION_ERROR"
)

var (
	ErrInvalidRequest   = errors.New("invalid checkout request")
	ErrProviderFailed   = errors.New("payment provider request failed")
	ErrGatewayNotConfig = errors.New("payment gateway not configured")
)

// =====================================================
// CUSTOM CHECKOUT ERROR
// =====================================================

type CheckoutError struct {
	Code    string
	Message string
	Err     error
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

func NewCheckoutError(code, message string, err error) *CheckoutError {
	return &CheckoutError{Code: code, Message: message, Err: err}
}

func NewInvalidRequestError(message string) *CheckoutError {
	return NewCheckoutError(ErrCodeInvalidRequest, message, ErrInvalidRequest)
}

func NewProviderError(provider string, cause error) *CheckoutError {
	return NewCheckoutError(
		ErrCodeProvider,
		fmt.Sprintf("%s: %v", provider, cause),
		fmt.Errorf("%w: %w", ErrProviderFailed, cause),
	)
}

func NewConfigurationError() *CheckoutError {
	return NewCheckoutError(ErrCodeConfiguration, "Payment processor is not configured", ErrGatewayNotConfig)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrGatewayNotConfig)
}

func MapErrorToHTTP(err error) int {
	var ce *CheckoutError
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError
	}
	switch ce.Code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeProvider:
		return http.StatusBadGateway
	case ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
