package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyoa-server/internal/app"
	"cyoa-server/internal/config"
	"cyoa-server/internal/handler"
	"cyoa-server/shared/interfaces"
	sharedLogger "cyoa-server/shared/logger"
	"cyoa-server/shared/messaging"
	sharedMiddleware "cyoa-server/shared/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := sharedLogger.New(cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Configuration loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("aiProvider", cfg.AI.Provider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	storage, err := app.OpenStorage(startupCtx, cfg, true, logger)
	if err != nil {
		zap.L().Fatal("Failed to open storage", zap.Error(err))
	}

	redisClient, err := app.ConnectRedis(startupCtx, cfg.Redis, logger)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		storage.WithScreenCache(redisClient, cfg.Redis, logger)
	}

	var publisher interfaces.ConfigEventPublisher = messaging.NoopPublisher{}
	var mqConn *amqp091.Connection
	if cfg.RabbitMQ.URL != "" {
		mqConn, err = messaging.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay, logger)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()

		rabbitPublisher, err := messaging.NewRabbitMQConfigEventPublisher(mqConn, logger)
		if err != nil {
			zap.L().Fatal("Failed to create config event publisher", zap.Error(err))
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
	}

	application, err := app.New(startupCtx, cfg, storage, publisher, logger)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			zap.L().Warn("Error while closing application", zap.Error(err))
		}
	}()

	if mqConn != nil {
		consumer, err := messaging.NewConfigEventConsumer(mqConn, application.Provider, logger)
		if err != nil {
			zap.L().Fatal("Failed to create config event consumer", zap.Error(err))
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zap.L().Error("Config event consumer stopped with error", zap.Error(err))
			}
		}()
		defer consumer.Close()
	}

	gin.SetMode(gin.ReleaseMode)
	if cfg.AppEnv == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(sharedMiddleware.ZapLoggingMiddlewareForGin(logger))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", sharedMiddleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Registered before the routes so the request middleware wraps them.
	p.Use(router)

	rateLimit := sharedMiddleware.NewRateLimiter(sharedMiddleware.RateLimitConfig{
		Window: time.Minute,
		Limit:  cfg.HTTP.RateLimitPerMinute,
	}, redisClient, logger)

	h := handler.NewHandler(application.Stories, application.Templates, application.Parameters, cfg.AppEnv, logger)
	h.RegisterRoutes(router, sharedMiddleware.AdminBasicAuth(cfg.Admin.User, cfg.Admin.Password), rateLimit)

	if cfg.Image.BackendURL != "" {
		router.Static("/images", cfg.Image.SavePath)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		zap.L().Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
