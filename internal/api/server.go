package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/clinify/backend/internal/analysis"
	"github.com/clinify/backend/internal/api/handlers"
	"github.com/clinify/backend/internal/metrics"
	"github.com/clinify/backend/internal/middleware/ratelimit"
	"github.com/clinify/backend/internal/middleware/security"
	"github.com/clinify/backend/internal/middleware/validation"
	"github.com/clinify/backend/pkg/config"
	"github.com/clinify/backend/pkg/logger"
)

type Options struct {
	// DisableRequestLog silences the access log, mostly for tests.
	DisableRequestLog bool
}

// NewServer builds the fiber app with middleware and routes. The caller owns
// limiter and stops it on shutdown.
func NewServer(cfg *config.Config, engine *analysis.Engine, limiter *ratelimit.RateLimiter, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "symptom-checker",
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if !opts.DisableRequestLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: security.ParseOrigins(cfg.Server.AllowOrigins),
		IsDevelopment:  cfg.Server.Development,
	}))

	analysisHandler := handlers.NewAnalysisHandler(engine)
	conditionHandler := handlers.NewConditionHandler(engine)
	healthHandler := handlers.NewHealthHandler(engine)
	wsHandler := handlers.NewWebSocketHandler(engine, limiter, cfg.Validation.MaxTextLength)

	app.Get("/metrics", metrics.MetricsHandler())

	api := app.Group("/api/v1")

	api.Get("/health", healthHandler.Health)
	api.Get("/ready", healthHandler.Ready)

	api.Get("/conditions", conditionHandler.ListConditions)
	api.Get("/conditions/:name", conditionHandler.GetCondition)

	limited := api.Group("", limiter.Middleware(), validation.Middleware(validation.Config{
		MaxTextLength: cfg.Validation.MaxTextLength,
		Logger:        logger.GetLogger(),
	}))

	limited.Post("/analyze", analysisHandler.HandleAnalyze)
	limited.Get("/analyses/:id", analysisHandler.HandleGet)
	limited.Delete("/analyses/:id", analysisHandler.HandleClear)
	limited.Post("/analyses/:id/explanations", analysisHandler.HandleExplain)

	app.Use("/ws", wsHandler.Upgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleConnection))

	return app
}
