package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appquote "github.com/quotedesk/backend/internal/application/quote"
	"github.com/quotedesk/backend/internal/infrastructure/config"
	"github.com/quotedesk/backend/internal/infrastructure/event"
	"github.com/quotedesk/backend/internal/infrastructure/logger"
	"github.com/quotedesk/backend/internal/infrastructure/notification"
	"github.com/quotedesk/backend/internal/infrastructure/persistence"
	"github.com/quotedesk/backend/internal/infrastructure/realtime"
	"github.com/quotedesk/backend/internal/interfaces/http/handler"
	"github.com/quotedesk/backend/internal/interfaces/http/middleware"
	"github.com/quotedesk/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting QuoteDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	changeLogRepo := persistence.NewGormChangeLogRepository(db.DB)
	chatRepo := persistence.NewGormChatRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)

	// Realtime fan-out: in-process hub, optionally bridged across instances
	// via Redis pub/sub
	hub := realtime.NewHub(cfg.Realtime.SubscriberBuffer, log)
	defer hub.Close()

	var realtimePublisher appquote.RealtimePublisher = hub
	if cfg.Realtime.RedisBridge {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()

		bridge := realtime.NewRedisBridge(hub, redisClient, log)
		bridge.Start(context.Background())
		defer bridge.Stop()
		realtimePublisher = bridge
		log.Info("Redis realtime bridge enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	// Notifications are logged only; swap in a mail or push dispatcher here
	notifier := notification.NewLogNotifier(log)

	// Initialize application services
	quoteService := appquote.NewQuoteService(quoteRepo, changeLogRepo, log)
	chatService := appquote.NewChatService(chatRepo, quoteRepo, notifier, realtimePublisher, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	leadSyncHandler := appquote.NewLeadSyncHandler(leadRepo, realtimePublisher, log)
	eventBus.Subscribe(leadSyncHandler)

	notificationHandler := appquote.NewNotificationHandler(quoteRepo, notifier, log)
	eventBus.Subscribe(notificationHandler)

	log.Info("Event handlers registered",
		zap.Strings("lead_sync_events", leadSyncHandler.EventTypes()),
		zap.Strings("notification_events", notificationHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	quoteService.SetEventPublisher(eventBus)
	chatService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	chatHandler := handler.NewChatHandler(chatService)
	streamHandler := handler.NewStreamHandler(hub, quoteService, log)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, CORS, body limit, actor identity
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Actor())

	// Register routes under /api/v1
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(quoteHandler).
		Register(chatHandler).
		Register(streamHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
