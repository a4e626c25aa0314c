package http

import (
	"context"
	"net/http"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/port/http/middleware"
	"github.com/countryhouse/ads-service/internal/service"
	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requests service.RequestService
	log      logger.Logger
}

func NewRequestHandler(requests service.RequestService, log logger.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, log: log}
}

func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.requests.Create(c.Request.Context(), actor, c.Param("id"), body.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRequestResponse(request))
}

func (h *RequestHandler) Edit(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.requests.Edit(c.Request.Context(), actor, c.Param("id"), body.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(request))
}

func (h *RequestHandler) Delete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.requests.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RequestHandler) Accept(c *gin.Context) {
	h.transition(c, h.requests.Accept)
}

func (h *RequestHandler) Reject(c *gin.Context) {
	h.transition(c, h.requests.Reject)
}

func (h *RequestHandler) Accomplish(c *gin.Context) {
	h.transition(c, h.requests.Accomplish)
}

func (h *RequestHandler) ListForAd(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	skip := parseInt64Query(c, "skip", 0)
	limit := parseInt64Query(c, "limit", 20)

	requests, err := h.requests.ListForAd(c.Request.Context(), actor, c.Param("id"), skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]requestResponse, len(requests))
	for i := range requests {
		out[i] = toRequestResponse(&requests[i])
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

func (h *RequestHandler) transition(c *gin.Context, op func(context.Context, entity.Actor, string) error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := op(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
