package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/domains/checkout/model"
	"storefront-backend/internal/domains/checkout/service"
	"storefront-backend/internal/shared/response"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// CreateSession - POST /api/checkout, POST /api/v1/checkout
// Body: {"items": [{"name": "...", "price": 49.99}]}
// Response: {"url": "..."} hoặc {"id": "..."}
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.checkout.CreateSession(c.Request.Context(), req)
	if err != nil {
		var ce *model.CheckoutError
		if errors.As(err, &ce) {
			response.Error(c, model.MapErrorToHTTP(err), ce.Code, ce.Message)
			return
		}
		log.Error().Err(err).Msg("Unexpected checkout error")
		response.InternalServerError(c, "Failed to create checkout session")
		return
	}

	// Giữ shape {url} của route cũ để storefront redirect trực tiếp
	c.JSON(http.StatusOK, model.NewCheckoutResponse(session))
}

// Success - GET /success (redirect target của processor)
func (h *CheckoutHandler) Success(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"message":    "Payment successful! Thank you for your purchase.",
		"session_id": c.Query("session_id"),
	})
}
