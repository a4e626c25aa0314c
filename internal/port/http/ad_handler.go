package http

import (
	"net/http"
	"strconv"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/port/http/middleware"
	"github.com/countryhouse/ads-service/internal/repository"
	"github.com/countryhouse/ads-service/internal/service"
	"github.com/gin-gonic/gin"
)

type AdHandler struct {
	ads service.AdService
	log logger.Logger
}

func NewAdHandler(ads service.AdService, log logger.Logger) *AdHandler {
	return &AdHandler{ads: ads, log: log}
}

func (h *AdHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	fields, err := req.toFields()
	if err != nil {
		writeError(c, err)
		return
	}

	ad, err := h.ads.Create(c.Request.Context(), actor, fields, req.ImageIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAdResponse(ad))
}

func (h *AdHandler) Edit(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	fields, err := req.toFields()
	if err != nil {
		writeError(c, err)
		return
	}

	ad, err := h.ads.Edit(c.Request.Context(), actor, c.Param("id"), fields, req.ImageIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdResponse(ad))
}

func (h *AdHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.ads.Cancel(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdHandler) GetByID(c *gin.Context) {
	ad, err := h.ads.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdResponse(ad))
}

func (h *AdHandler) Search(c *gin.Context) {
	params := repository.ListAdsParams{
		Search:   c.Query("q"),
		AuthorID: c.Query("authorId"),
	}
	if status := c.Query("status"); status != "" {
		adStatus := entity.AdStatus(status)
		if !adStatus.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ad status"})
			return
		}
		params.Status = adStatus
	}
	params.Skip = parseInt64Query(c, "skip", 0)
	params.Limit = parseInt64Query(c, "limit", 20)

	result, err := h.ads.Search(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	ads := make([]adResponse, len(result.Ads))
	for i := range result.Ads {
		ads[i] = toAdResponse(&result.Ads[i])
	}
	c.JSON(http.StatusOK, adListResponse{
		Ads:        ads,
		TotalCount: result.TotalCount,
	})
}

func parseInt64Query(c *gin.Context, name string, fallback int64) int64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
