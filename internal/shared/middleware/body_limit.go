package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/response"
)

// MaxBodyBytes giới hạn kích thước request body
// Content-Length vượt limit -> 413 ngay, body chunked bị cắt khi handler đọc quá limit
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.PayloadTooLarge(c, fmt.Sprintf("request body exceeds %d bytes", limit))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
