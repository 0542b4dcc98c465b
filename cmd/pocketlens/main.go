package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cdJohnEl/PocketLens/internal/amqp"
	"github.com/cdJohnEl/PocketLens/internal/auth"
	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/cache"
	"github.com/cdJohnEl/PocketLens/internal/config"
	apphttp "github.com/cdJohnEl/PocketLens/internal/http"
	"github.com/cdJohnEl/PocketLens/internal/insights"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
	"github.com/cdJohnEl/PocketLens/internal/prefs"
	"github.com/cdJohnEl/PocketLens/internal/rates"
	"github.com/cdJohnEl/PocketLens/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := logpkg.New(logpkg.DefaultConfig())
	logpkg.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", logpkg.FieldError, err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize data backend", logpkg.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", logpkg.FieldError, err)
			}
		}()
	}

	// Redis is an optional second cache tier; the gateway works without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("Invalid Redis URL, continuing without Redis cache", logpkg.FieldError, err)
		} else {
			redisClient = redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				logger.Warn("Redis unreachable, continuing without Redis cache", logpkg.FieldError, err)
				redisClient = nil
			}
			cancel()
		}
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// AMQP is optional too; without it insight refresh falls back to the
	// worker's periodic sweep.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without change events", logpkg.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	gateway := rates.NewGateway(cfg.RatesURL, cfg.RatesCacheTTL, redisClient)

	cacheManager := cache.NewManager()
	cacheManager.Register(gateway.LocalCache())
	cacheManager.StartCleanup(5 * time.Minute)
	defer cacheManager.Stop()

	authSvc := auth.NewService(cfg.FirebaseAPIKey, cfg.FirebaseBaseURL, logger)
	if !cfg.AuthConfigured() {
		logger.Warn("No Firebase API key provided, sign-in will be rejected")
	}

	var gen insights.TextGenerator
	if cfg.LLMAPIKey != "" {
		gen = insights.NewOpenAIGenerator(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	} else {
		logger.Warn("No LLM API key provided, insight generation disabled")
	}
	insightSvc := insights.NewService(gen, logger)

	var publisher services.ChangePublisher
	if amqpClient != nil {
		publisher = amqpClient
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Auth:         authSvc,
		Transactions: services.NewTransactionService(result.Store, publisher, logger),
		Store:        result.Store,
		Prefs:        prefs.NewService(result.Store, logger),
		Insights:     insightSvc,
		Rates:        gateway,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", logpkg.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting pocketlens server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", logpkg.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
