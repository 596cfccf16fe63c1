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

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/application"
	"github.com/transit-planner/service-route/internal/common/auth"
	"github.com/transit-planner/service-route/internal/common/cache"
	"github.com/transit-planner/service-route/internal/common/database"
	"github.com/transit-planner/service-route/internal/common/health"
	"github.com/transit-planner/service-route/internal/common/kafka"
	"github.com/transit-planner/service-route/internal/common/logger"
	"github.com/transit-planner/service-route/internal/common/middleware"
	"github.com/transit-planner/service-route/internal/common/telemetry"
	"github.com/transit-planner/service-route/internal/config"
	"github.com/transit-planner/service-route/internal/domain/route"
	routeEvents "github.com/transit-planner/service-route/internal/events"
	"github.com/transit-planner/service-route/internal/handler"
	"github.com/transit-planner/service-route/internal/metrics"
	"github.com/transit-planner/service-route/internal/repository"
)

const serviceName = "service-route"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	instanceID := cfg.InstanceID
	if instanceID == "" {
		if host, err := os.Hostname(); err == nil {
			instanceID = host
		} else {
			instanceID = uuid.NewString()
		}
	}

	log.Info("starting service-route",
		zap.String("port", cfg.Port),
		zap.String("instance", instanceID),
		zap.String("search_timezone", cfg.Search.Timezone.String()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.AppEnv, cfg.OTelEndpoint, log)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.LocationModel{},
			&repository.TransportationModel{},
			&repository.TransportationOperatingDayModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	redisStore := cache.NewRedisStore(redisClient, serviceName)
	memo := cache.NewMemoizer(redisStore, cfg.CacheTTL, log)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	locationRepo := repository.NewCachedLocationRepository(repository.NewGormLocationRepository(db), memo)
	transportationRepo := repository.NewCachedTransportationRepository(repository.NewGormTransportationRepository(db), memo)

	// Initialize application services
	source := serviceName + "/" + instanceID
	locationService := application.NewLocationService(locationRepo, transportationRepo, kafkaProducer, source, log)
	transportationService := application.NewTransportationService(transportationRepo, locationRepo, kafkaProducer, source, log)
	routeService := application.NewRouteService(
		locationRepo,
		transportationRepo,
		route.NewDepthFirstRouteFinder(),
		application.RouteServiceConfig{
			Zone:          cfg.Search.Timezone,
			LookupWorkers: cfg.Search.LookupWorkers,
		},
		log,
	)
	adminService := application.NewAdminService(locationRepo, transportationRepo, log, locationRepo, transportationRepo)

	// Start network event consumer; every instance uses its own group so that
	// each one drops its cache on every change.
	groupID := cfg.KafkaConfig.GroupPrefix + serviceName + "-cache-" + instanceID
	networkConsumer := routeEvents.NewNetworkEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		source,
		locationRepo,
		transportationRepo,
		log,
	)
	defer func() { _ = networkConsumer.Close() }()

	go func() {
		log.Info("starting network event consumer", zap.String("group_id", groupID))
		if err := networkConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("network event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	locationHandler := handler.NewLocationHandler(locationService)
	transportationHandler := handler.NewTransportationHandler(transportationService)
	routeHandler := handler.NewRouteHandler(routeService)
	adminHandler := handler.NewAdminNetworkHandler(adminService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(metrics.Middleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, serviceName).WithChecker("redis", redisStore)
	healthHandler.RegisterRoutes(router)
	metrics.RegisterRoutes(router)

	// Register routes
	locationHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	transportationHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	routeHandler.RegisterRoutes(&router.RouterGroup)
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-route...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("failed to flush traces", zap.Error(err))
	}

	log.Info("service-route stopped")
}
