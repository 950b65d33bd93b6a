package handler

import (
	"errors"
	"net/http"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/infra"
	"shopcentral/internal/service"

	"github.com/gin-gonic/gin"
)

// Images larger than this are rejected before upload.
const maxUploadBytes = 5 << 20 // 5 MiB

type CatalogAIHandler struct{ svc service.CatalogAIService }

func NewCatalogAIHandler(svc service.CatalogAIService) *CatalogAIHandler {
	return &CatalogAIHandler{svc: svc}
}

// writeAIError distinguishes a tripped breaker (sidecar down) from an
// individual failed call.
func writeAIError(c *gin.Context, err error) {
	if errors.Is(err, infra.ErrCircuitOpen) {
		c.JSON(http.StatusServiceUnavailable, apierror.New("AI service temporarily unavailable"))
		return
	}
	c.JSON(http.StatusBadGateway, apierror.New("AI service request failed"))
}

// SuggestCategory godoc
// @Summary      Suggest a category for a product name
// @Tags         catalog-ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SuggestCategoryRequest true "Product name"
// @Success      200  {object} dto.SuggestCategoryResponse
// @Failure      503  {object} apierror.APIError
// @Router       /v1/ai/suggest-category [post]
func (h *CatalogAIHandler) SuggestCategory(c *gin.Context) {
	var req dto.SuggestCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SuggestCategory(c.Request.Context(), req)
	if err != nil {
		writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecognizeProduct godoc
// @Summary      Identify a product from a photo
// @Description  Takes a base64 data URI and returns name, brand and category.
// @Tags         catalog-ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecognizeProductRequest true "Photo data URI"
// @Success      200  {object} dto.RecognizeProductResponse
// @Failure      503  {object} apierror.APIError
// @Router       /v1/ai/recognize-product [post]
func (h *CatalogAIHandler) RecognizeProduct(c *gin.Context) {
	var req dto.RecognizeProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecognizeProduct(c.Request.Context(), req)
	if err != nil {
		writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateImage godoc
// @Summary      Generate a product image
// @Tags         catalog-ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GenerateImageRequest true "Product name, brand, description"
// @Success      200  {object} dto.GenerateImageResponse
// @Failure      503  {object} apierror.APIError
// @Router       /v1/ai/generate-image [post]
func (h *CatalogAIHandler) GenerateImage(c *gin.Context) {
	var req dto.GenerateImageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GenerateImage(c.Request.Context(), req)
	if err != nil {
		writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadImage godoc
// @Summary      Upload a product image
// @Description  Multipart upload forwarded to the hosted media service; returns the public URL.
// @Tags         catalog-ai
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image file (max 5 MiB)"
// @Success      200  {object} dto.UploadResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/uploads/image [post]
func (h *CatalogAIHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file field"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, apierror.New("File too large (max 5 MiB)"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Unreadable file"))
		return
	}
	defer file.Close()

	resp, err := h.svc.UploadImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Upload failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
