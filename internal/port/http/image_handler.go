package http

import (
	"io"
	"net/http"

	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/port/http/middleware"
	"github.com/countryhouse/ads-service/internal/service"
	"github.com/gin-gonic/gin"
)

// maxImageBytes caps a single uploaded file at 10 MiB.
const maxImageBytes = 10 << 20

type ImageHandler struct {
	images *service.ImageService
	log    logger.Logger
}

func NewImageHandler(images *service.ImageService, log logger.Logger) *ImageHandler {
	return &ImageHandler{images: images, log: log}
}

// Upload accepts a multipart form with a single "image" file and returns the
// stored image row. The returned id is later passed on ad create/edit.
func (h *ImageHandler) Upload(c *gin.Context) {
	if _, ok := middleware.ActorFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is too large"})
		return
	}

	img, err := h.images.Upload(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toImageResponse(img))
}

func (h *ImageHandler) Delete(c *gin.Context) {
	if _, ok := middleware.ActorFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.images.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImageHandler) ListForAd(c *gin.Context) {
	images, err := h.images.ListForAd(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]imageResponse, len(images))
	for i := range images {
		out[i] = toImageResponse(&images[i])
	}
	c.JSON(http.StatusOK, gin.H{"images": out})
}
