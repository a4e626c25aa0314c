package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/countryhouse/ads-service/internal/app/config"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/port/http/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Ads      *AdHandler
	Requests *RequestHandler
	Images   *ImageHandler
}

type Server struct {
	srv *http.Server
	log logger.Logger
}

func NewServer(cfg config.HTTPServerConfig, jwtSecret string, env string, handlers Handlers, log logger.Logger) *Server {
	if env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(jwtSecret, log)

	ads := router.Group("/ads")
	{
		ads.GET("", handlers.Ads.Search)
		ads.GET("/:id", handlers.Ads.GetByID)
		ads.GET("/:id/images", handlers.Images.ListForAd)
		ads.POST("", auth, handlers.Ads.Create)
		ads.PUT("/:id", auth, handlers.Ads.Edit)
		ads.DELETE("/:id", auth, handlers.Ads.Cancel)
		ads.GET("/:id/requests", auth, handlers.Requests.ListForAd)
		ads.POST("/:id/requests", auth, handlers.Requests.Create)
	}

	requests := router.Group("/requests", auth)
	{
		requests.PUT("/:id", handlers.Requests.Edit)
		requests.DELETE("/:id", handlers.Requests.Delete)
		requests.POST("/:id/accept", handlers.Requests.Accept)
		requests.POST("/:id/reject", handlers.Requests.Reject)
		requests.POST("/:id/accomplish", handlers.Requests.Accomplish)
	}

	images := router.Group("/images", auth)
	{
		images.POST("", handlers.Images.Upload)
		images.DELETE("/:id", handlers.Images.Delete)
	}

	return &Server{
		srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
