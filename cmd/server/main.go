package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/GobLyne/ECommerce/internal/ai"
	"github.com/GobLyne/ECommerce/internal/auth"
	"github.com/GobLyne/ECommerce/internal/cache"
	"github.com/GobLyne/ECommerce/internal/catalog"
	h "github.com/GobLyne/ECommerce/internal/http"
	"github.com/GobLyne/ECommerce/internal/repository"
	"github.com/GobLyne/ECommerce/internal/service"
	"github.com/GobLyne/ECommerce/pkg/logger"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	CatalogDBPath   string
	MigrationsPath  string
	JWTSecret       string
	GeminiAPIKey    string
	GeminiBaseURL   string
	GeminiModel     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "shopdb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Catalog store (SQLite)
	catalogRepo, err := catalog.NewSQLiteRepository(cfg.CatalogDBPath)
	if err != nil {
		logger.Error("failed to open catalog database", "error", err)
		os.Exit(1)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Error("failed to run catalog migrations", "error", err)
		os.Exit(1)
	}
	if err := catalogRepo.Seed(ctx); err != nil {
		logger.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog store ready", "path", cfg.CatalogDBPath)

	// Cart + user stores (MongoDB)
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer mongoDB.Client().Disconnect(ctx)

	cartRepo := repository.NewMongoCartRepository(mongoDB)
	userRepo := repository.NewMongoUserRepository(mongoDB)
	if err := repository.EnsureIndexes(ctx, cartRepo, userRepo); err != nil {
		logger.Error("failed to create MongoDB indexes", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to MongoDB", "uri", cfg.MongoURI)

	// Cart cache (Redis)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("Redis connection failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to Redis", "addr", cfg.RedisAddr)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	cartCache := cache.NewRedisCache(redisClient)
	cartService := service.NewCartService(cartRepo, catalogRepo, cartCache)
	authService := service.NewAuthService(userRepo, tokens)
	orderService := service.NewOrderService(cartService)

	gemini := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)
	chatService := service.NewChatService(catalogRepo, cartService, ai.NewBreakerClient(gemini))

	router := h.NewRouter(h.RouterConfig{
		Tokens:         tokens,
		Products:       h.NewProductHandler(catalogRepo),
		Carts:          h.NewCartHandler(cartService),
		Auth:           h.NewAuthHandler(authService),
		Chatbot:        h.NewChatbotHandler(chatService),
		Checkout:       h.NewCheckoutHandler(orderService),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
