package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/config"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	routemapEvents "github.com/Kilat-Pet-Delivery/service-routemap/internal/events"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/routing"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/routing/google"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/routing/here"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/cache"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/database"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/health"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/kafka"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/logger"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-routemap")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-routemap",
		zap.String("port", cfg.Port),
		zap.String("routing_provider", cfg.Routing.Provider),
	)

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
		if err := db.AutoMigrate(&repository.JourneyModel{}, &repository.AreaRatingModel{}, &repository.UserModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsPath, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis for the route cache and token denylist
	var rdb *redis.Client
	if cfg.RedisConfig.Enabled {
		rdb, err = cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		}, log)
		if err != nil {
			log.Warn("route cache disabled", zap.Error(err))
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	// Initialize routing provider
	provider, err := routing.New(routing.Config{
		Provider: cfg.Routing.Provider,
		HERE: here.Config{
			AppID:         cfg.Routing.HEREAppID,
			AppCode:       cfg.Routing.HEREAppCode,
			UseCIT:        cfg.Routing.UseCIT,
			BaseURL:       cfg.Routing.BaseURL,
			Timeout:       cfg.Routing.Timeout,
			RatePerSecond: cfg.Routing.RatePerSecond,
			Burst:         cfg.Routing.Burst,
		},
		Google: google.Config{
			APIKey:        cfg.Routing.GoogleAPIKey,
			BaseURL:       cfg.Routing.BaseURL,
			RatePerSecond: int(cfg.Routing.RatePerSecond),
		},
		CacheTTL: cfg.Routing.CacheTTL,
	}, rdb, log)
	if err != nil {
		log.Fatal("failed to create routing provider", zap.Error(err))
	}

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
	journeyRepo := repository.NewGormJourneyRepository(db)
	areaRepo := repository.NewGormAreaRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	sessionStore := repository.NewMemorySessionStore()

	var denylist application.TokenDenylist = repository.NewMemoryTokenDenylist()
	if rdb != nil {
		denylist = repository.NewRedisTokenDenylist(rdb)
	}

	// Initialize application services
	journeyService := application.NewJourneyService(journeyRepo, kafkaProducer, log)
	areaService := application.NewAreaService(areaRepo, kafkaProducer, log)
	userService := application.NewUserService(userRepo, jwtManager, denylist, kafkaProducer, log)
	routeService := application.NewRouteService(provider, cfg.Routing.Timeout, log)
	sessionService := application.NewSessionService(
		sessionStore,
		routeService,
		journeyService,
		application.MapSettings{
			Center: cfg.Map.Center,
			Zoom:   cfg.Map.Zoom,
			Viewport: mapview.Viewport{
				Width:      cfg.Map.Width,
				Height:     cfg.Map.Height,
				PixelRatio: cfg.Map.PixelRatio,
			},
			Mode:        cfg.Map.Mode,
			Origin:      cfg.Map.Origin,
			Destination: cfg.Map.Destination,
		},
		log,
	)

	// Drop sessions nobody has touched for a while
	go sessionService.RunExpiry(ctx, cfg.Sessions.IdleTTL, cfg.Sessions.SweepInterval)

	// Initialize and start route request consumer in a goroutine
	groupID := cfg.KafkaConfig.GroupPrefix + "routemap-service"
	requestConsumer := routemapEvents.NewRouteRequestConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		sessionService,
		log,
	)
	defer func() { _ = requestConsumer.Close() }()

	go func() {
		log.Info("starting route request consumer")
		if err := requestConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("route request consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	notificationHandler := handler.NewNotificationHandler(sessionService, log)
	pageHandler := handler.NewPageHandler(sessionService, log)
	journeyHandler := handler.NewJourneyHandler(journeyService)
	areaHandler := handler.NewAreaHandler(areaService)
	authHandler := handler.NewAuthHandler(userService)

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
	healthHandler := health.NewHandler(db, "service-routemap")
	if rdb != nil {
		healthHandler.AddChecker("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterRoutes(router)

	// Register routes
	pageHandler.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(&router.RouterGroup)
	notificationHandler.RegisterRoutes(&router.RouterGroup)
	journeyHandler.RegisterRoutes(&router.RouterGroup)
	areaHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	authHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server. WriteTimeout stays zero for the notification websocket.
	srv := &http.Server{
		Addr:        cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
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

	log.Info("shutting down service-routemap...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	// Let in-flight route requests finish recording their journeys
	sessionService.Wait()

	log.Info("service-routemap stopped")
}
