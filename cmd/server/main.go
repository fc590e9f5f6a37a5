package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/tidynest/service-booking/internal/application"
	"github.com/tidynest/service-booking/internal/config"
	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/domain/zone"
	bookingEvents "github.com/tidynest/service-booking/internal/events"
	"github.com/tidynest/service-booking/internal/gateway"
	"github.com/tidynest/service-booking/internal/handler"
	"github.com/tidynest/service-booking/internal/pkg/auth"
	"github.com/tidynest/service-booking/internal/pkg/database"
	"github.com/tidynest/service-booking/internal/pkg/health"
	"github.com/tidynest/service-booking/internal/pkg/kafka"
	"github.com/tidynest/service-booking/internal/pkg/logger"
	"github.com/tidynest/service-booking/internal/pkg/middleware"
	"github.com/tidynest/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	// Connect to Redis for wizard sessions
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}

	// Initialize JWT manager for the admin surface
	jwtManager := auth.NewJWTManager(cfg.AdminJWT, 12*time.Hour)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories and stores
	bookingRepo := repository.NewGormBookingRepository(db)
	draftStore := repository.NewRedisDraftStore(redisClient, cfg.SessionTTL)

	// Initialize domain services
	catalog, err := pricing.DefaultCatalog().WithOverrides(cfg.Pricing)
	if err != nil {
		log.Fatal("invalid pricing configuration", zap.Error(err))
	}
	engine := pricing.NewCatalogEngine(catalog)
	resolver := zone.NewDefaultResolver()

	// Initialize application services
	quoteService := application.NewQuoteService(engine, catalog, resolver, log)
	availabilityService := application.NewAvailabilityService(resolver, time.Now)
	bookingService := application.NewBookingService(bookingRepo, kafkaProducer, log)

	crmClient := gateway.NewCRMClient(cfg.Gateway, log)
	wizardService := application.NewWizardService(
		draftStore,
		quoteService,
		crmClient,
		bookingRepo,
		kafkaProducer,
		log,
		time.Now,
	)

	// Initialize and start the CRM event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "booking-service"
	crmConsumer := bookingEvents.NewCRMEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = crmConsumer.Close() }()

	go func() {
		log.Info("starting CRM event consumer")
		if err := crmConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("CRM event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	wizardHandler := handler.NewWizardHandler(wizardService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminBookingHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	quoteHandler.RegisterRoutes(&router.RouterGroup)
	availabilityHandler.RegisterRoutes(&router.RouterGroup)
	wizardHandler.RegisterRoutes(&router.RouterGroup)
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
