package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/campuskit/school-service/internal/auth"
	"github.com/campuskit/school-service/internal/cache"
	"github.com/campuskit/school-service/internal/config"
	"github.com/campuskit/school-service/internal/handlers"
	"github.com/campuskit/school-service/internal/repositories"
	mongorepo "github.com/campuskit/school-service/internal/repositories/mongo"
	"github.com/campuskit/school-service/internal/repositories/postgres"
	"github.com/campuskit/school-service/internal/services"
	"github.com/campuskit/school-service/internal/utils"
	"github.com/campuskit/school-service/internal/validator"
	"github.com/campuskit/school-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Storage backend: Postgres by default, Mongo when configured.
	var repo repositories.Repository
	switch cfg.StorageDriver {
	case "mongo":
		client, err := pkg.NewMongoClient(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize mongo: %v", err)
		}
		repo = mongorepo.NewMongoRepository(client, cfg.MongoDatabase)
	default:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		repo = postgres.NewPostgreSQLRepository(db)
	}

	// Redis is optional; caches degrade to pass-through without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
		}
	}
	userCache := cache.New(redisClient, "user", 5*time.Minute)
	boardCache := cache.New(redisClient, "leaderboard", time.Minute)

	// Auth resolver: local token codec or the external identity provider.
	var resolver auth.Resolver
	var codec *auth.Codec
	switch cfg.AuthMode {
	case "casdoor":
		resolver = auth.NewCasdoorResolver(cfg.Casdoor, repo.Users(), userCache)
	default:
		codec, err = auth.NewCodec(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			log.Fatalf("Failed to initialize token codec: %v", err)
		}
		resolver = auth.NewLocalResolver(codec, repo.Users(), userCache)
	}

	// Change events go to Kafka when brokers are configured, otherwise to
	// an in-process channel nobody reads.
	var publisher message.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = services.NewKafkaPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize kafka publisher: %v", err)
		}
	} else {
		publisher = gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(slogLogger))
	}
	notifier := services.NewNotifier(publisher, slogLogger)

	v := validator.New()

	authService := services.NewAuthService(repo.Users(), codec, userCache, cfg.TokenTTL, slogLogger, v)
	leaderboardService := services.NewLeaderboardService(repo.Reports(), boardCache, slogLogger)
	reportService := services.NewReportService(repo.Marks(), slogLogger)

	handlerManager := handlers.NewHandlerManager(handlers.Deps{
		Config:    cfg,
		Logger:    logger,
		Repo:      repo,
		Validator: v,
		Notifier:  notifier,

		AuthMiddleware:     handlers.NewAuthMiddleware(resolver, logger),
		AuthService:        authService,
		LeaderboardService: leaderboardService,
		ReportService:      reportService,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	if cfg.RateLimitRequests > 0 && redisClient != nil {
		router.Use(handlers.RateLimitMiddleware(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, logger))
	}
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := notifier.Close(); err != nil {
		log.Printf("Failed to close notifier: %v", err)
	}
	if err := repo.Close(); err != nil {
		log.Printf("Failed to close storage: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
