package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinify/backend/internal/analysis"
	"github.com/clinify/backend/internal/api"
	"github.com/clinify/backend/internal/cache/memory"
	"github.com/clinify/backend/internal/cache/redis"
	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/internal/llm"
	"github.com/clinify/backend/internal/metrics"
	"github.com/clinify/backend/internal/middleware/ratelimit"
	"github.com/clinify/backend/pkg/config"
	appLogger "github.com/clinify/backend/pkg/logger"
)

type closableStore interface {
	analysis.Store
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Symptom Checker API Server")

	metrics.Init()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		appLogger.Fatal("Failed to load condition catalog", zap.Error(err))
	}
	appLogger.Info("Condition catalog loaded", zap.Int("conditions", cat.Len()))

	var store closableStore
	if cfg.Redis.Enabled {
		store, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
	} else {
		store = memory.NewStore(cfg.Analysis.SessionTTL(), 5*time.Minute)
	}
	defer store.Close()

	var completer llm.Completer
	llmClient, err := llm.NewClient(cfg.LLM)
	switch {
	case errors.Is(err, llm.ErrNoAPIKey):
		appLogger.Warn("No OpenAI API key configured, explanations will use fallback text")
	case err != nil:
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	default:
		completer = llmClient
	}

	engine := analysis.NewEngine(cat, store, llm.NewExplainer(completer), analysis.Options{
		TopN:       cfg.Analysis.TopN,
		SessionTTL: cfg.Analysis.SessionTTL(),
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app := api.NewServer(cfg, engine, limiter, api.Options{})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
