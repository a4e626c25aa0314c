package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/countryhouse/ads-service/internal/adapter/email"
	minioadapter "github.com/countryhouse/ads-service/internal/adapter/minio"
	mongoadapter "github.com/countryhouse/ads-service/internal/adapter/mongo"
	natsadapter "github.com/countryhouse/ads-service/internal/adapter/nats"
	redisadapter "github.com/countryhouse/ads-service/internal/adapter/redis"
	"github.com/countryhouse/ads-service/internal/app/config"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/platform/tracer"
	httpport "github.com/countryhouse/ads-service/internal/port/http"
	"github.com/countryhouse/ads-service/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn
	traceProv   *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	var traceProv *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		traceProv, err = tracer.Init(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		appLogger.Info("Tracer initialized")
	}

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized")

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized")

	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
	}
	publisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}
	appLogger.Info("NATS publisher initialized")

	storage, err := minioadapter.NewStorage(ctx, cfg.MinIO, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO storage: %w", err)
	}
	appLogger.Info("MinIO storage initialized")

	var sender emailadapter.EmailSender
	if cfg.SMTP.Host != "" {
		sender, err = emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		appLogger.Info("SMTP sender initialized")
	} else {
		appLogger.Warn("SMTP host not configured, contractor notifications are disabled")
	}

	adRepo := mongoadapter.NewAdRepository(mongoClient, cfg.MongoDB)
	requestRepo := mongoadapter.NewRequestRepository(mongoClient, cfg.MongoDB)
	imageRepo := mongoadapter.NewImageRepository(mongoClient, cfg.MongoDB)
	adCache := redisadapter.NewAdCache(redisClient)

	imageService := service.NewImageService(imageRepo, storage, appLogger)
	adService := service.NewAdService(adRepo, imageService, adCache, publisher, appLogger, cfg.AdCache.TTL)
	requestService := service.NewRequestService(requestRepo, adRepo, adCache, publisher, sender, appLogger)

	server := httpport.NewServer(cfg.HTTPServer, cfg.JWT.Secret, cfg.Env, httpport.Handlers{
		Ads:      httpport.NewAdHandler(adService, appLogger),
		Requests: httpport.NewRequestHandler(requestService, appLogger),
		Images:   httpport.NewImageHandler(imageService, appLogger),
	}, appLogger)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
		traceProv:   traceProv,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped")
	}

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed")
		}
	}

	if a.traceProv != nil {
		if err := a.traceProv.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
}
