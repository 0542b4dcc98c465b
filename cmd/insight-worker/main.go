package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cdJohnEl/PocketLens/internal/amqp"
	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/config"
	"github.com/cdJohnEl/PocketLens/internal/insights"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
	"github.com/cdJohnEl/PocketLens/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := logpkg.New(logpkg.Config{
		Level:     logpkg.DefaultConfig().Level,
		Component: logpkg.ComponentWorker,
	})
	logpkg.SetDefault(logger)

	logger.Info("Starting insight-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", logpkg.FieldError, err)
		os.Exit(1)
	}

	// The worker needs real persistence; an unconfigured store has no
	// insights to refresh.
	if !cfg.StoreConfigured() {
		logger.Error("No data backend configured, nothing to do")
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

	if cfg.LLMAPIKey == "" {
		logger.Error("No LLM API key provided, worker cannot generate insights")
		os.Exit(1)
	}
	gen := insights.NewOpenAIGenerator(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	insightSvc := insights.NewService(gen, logger)

	// Without AMQP the worker still runs, driven by the stale-insight
	// sweep alone.
	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", logpkg.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		consumer = amqpClient
	} else {
		logger.Info("AMQP disabled, relying on periodic sweep only")
	}

	w := worker.NewInsightWorker(result.Store, insightSvc, cfg.InsightBatchSize, cfg.InsightInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Worker running",
		"batch_size", cfg.InsightBatchSize,
		"interval", cfg.InsightInterval.String(),
		"amqp", consumer != nil)

	if err := w.Run(ctx, consumer); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", logpkg.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
