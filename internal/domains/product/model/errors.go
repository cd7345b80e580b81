package model

import (
	"errors"
	"fmt"
	"net/http"
)

// =====================================================
// ERROR CODES
// =====================================================

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeMissingInput       = "MISSING_INPUT"
	ErrCodeStorageWrite       = "STORAGE_WRITE_ERROR"
	ErrCodeLocatorUnavailable = "LOCATOR_UNAVAILABLE"
	ErrCodeCommit             = "COMMIT_ERROR"
	ErrCodeConfiguration      = "CONFIGURATION_ERROR"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrValidation         = errors.New("validation failed")
	ErrMissingInput       = errors.New("missing input")
	ErrStorageWrite       = errors.New("storage write failed")
	ErrLocatorUnavailable = errors.New("locator unavailable")
	ErrCommit             = errors.New("catalog commit failed")
	ErrNotConfigured      = errors.New("publish backends not configured")
)

// =====================================================
// PUBLISH ERROR
// =====================================================

// PublishError là lỗi của publish workflow
// Step = state mà workflow đang ở khi lỗi xảy ra
// Field chỉ có giá trị với VALIDATION_ERROR
type PublishError struct {
	Code    string
	Message string
	Step    PublishState
	Field   string
	Err     error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func NewPublishError(code, message string, step PublishState, err error) *PublishError {
	return &PublishError{
		Code:    code,
		Message: message,
		Step:    step,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewValidationError(field, message string) *PublishError {
	e := NewPublishError(ErrCodeValidation, message, StateValidating, ErrValidation)
	e.Field = field
	return e
}

func NewMissingInputError(field string) *PublishError {
	e := NewPublishError(ErrCodeMissingInput, "Please select an image", StateValidating, ErrMissingInput)
	e.Field = field
	return e
}

func NewStorageWriteError(cause error) *PublishError {
	return NewPublishError(
		ErrCodeStorageWrite,
		fmt.Sprintf("Upload error: %v", cause),
		StateUploadingAsset,
		fmt.Errorf("%w: %w", ErrStorageWrite, cause),
	)
}

func NewLocatorUnavailableError(cause error) *PublishError {
	return NewPublishError(
		ErrCodeLocatorUnavailable,
		fmt.Sprintf("Locator error: %v", cause),
		StateResolvingLocator,
		fmt.Errorf("%w: %w", ErrLocatorUnavailable, cause),
	)
}

func NewCommitError(cause error) *PublishError {
	return NewPublishError(
		ErrCodeCommit,
		fmt.Sprintf("Database error: %v", cause),
		StateCommittingEntry,
		fmt.Errorf("%w: %w", ErrCommit, cause),
	)
}

func NewConfigurationError() *PublishError {
	return NewPublishError(
		ErrCodeConfiguration,
		"Storage or catalog backend is not configured (demo mode)",
		StateIdle,
		ErrNotConfigured,
	)
}

// =====================================================
// HELPERS
// =====================================================

func AsPublishError(err error) (*PublishError, bool) {
	var pe *PublishError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsMissingInputError(err error) bool {
	return errors.Is(err, ErrMissingInput)
}

func IsStorageWriteError(err error) bool {
	return errors.Is(err, ErrStorageWrite)
}

func IsLocatorUnavailableError(err error) bool {
	return errors.Is(err, ErrLocatorUnavailable)
}

func IsCommitError(err error) bool {
	return errors.Is(err, ErrCommit)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// MapErrorToHTTP maps publish error code sang HTTP status
func MapErrorToHTTP(err error) int {
	pe, ok := AsPublishError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch pe.Code {
	case ErrCodeValidation, ErrCodeMissingInput:
		return http.StatusBadRequest
	case ErrCodeStorageWrite, ErrCodeCommit:
		return http.StatusBadGateway
	case ErrCodeLocatorUnavailable:
		return http.StatusInternalServerError
	case ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
