package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/domains/product/service"
	"storefront-backend/internal/shared/response"
)

// ProductHandler - public catalog + admin publish
type ProductHandler struct {
	publish       service.PublishService
	catalog       service.CatalogService
	maxImageBytes int64
}

func NewProductHandler(publish service.PublishService, catalog service.CatalogService, maxImageBytes int64) *ProductHandler {
	return &ProductHandler{
		publish:       publish,
		catalog:       catalog,
		maxImageBytes: maxImageBytes,
	}
}

// ListProducts - GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListPublished(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list published products")
		response.InternalServerError(c, "Failed to load products")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{Total: len(products)})
}

// Status - GET /api/v1/admin/status
func (h *ProductHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, h.publish.Status())
}

// CreateProduct - POST /api/v1/admin/products (multipart/form-data)
// Fields: name, description, price, payment_link, file
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	req := model.PublishRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		PaymentLink: c.PostForm("payment_link"),
	}

	file, err := h.readFile(c)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		log.Warn().Int64("limit", tooLarge.Limit).Msg("Upload body over limit")
		response.PayloadTooLarge(c, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read uploaded file")
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), gin.H{
			"field": "file",
			"form":  req.Form(),
		})
		return
	}

	sub := service.NewSubmission(req, file)
	result, err := h.publish.Publish(c.Request.Context(), sub)
	if err != nil {
		h.handlePublishError(c, sub, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// readFile: không có file -> nil (workflow trả MISSING_INPUT ở bước Validating)
func (h *ProductHandler) readFile(c *gin.Context) (*model.UploadedFile, error) {
	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	if h.maxImageBytes > 0 && header.Size > h.maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", h.maxImageBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &model.UploadedFile{Filename: header.Filename, Data: data}, nil
}

// handlePublishError trả lỗi kèm form đã submit để operator sửa và gửi lại
func (h *ProductHandler) handlePublishError(c *gin.Context, sub *service.Submission, err error) {
	pe, ok := model.AsPublishError(err)
	if !ok {
		log.Error().Err(err).Msg("Unexpected publish error")
		response.InternalServerError(c, "Failed to publish product")
		return
	}

	details := gin.H{
		"step":  pe.Step,
		"state": sub.State,
		"form":  sub.Request.Form(),
	}
	if pe.Field != "" {
		details["field"] = pe.Field
	}

	response.ErrorWithDetails(c, model.MapErrorToHTTP(err), pe.Code, pe.Message, details)
}
