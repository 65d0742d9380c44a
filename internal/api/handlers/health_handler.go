package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clinify/backend/internal/analysis"
	"github.com/clinify/backend/pkg/logger"
)

type HealthHandler struct {
	engine *analysis.Engine
}

func NewHealthHandler(engine *analysis.Engine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := h.engine.Ready(c.UserContext()); err != nil {
		logger.Warn("Readiness check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"conditions":   len(h.engine.Conditions()),
		"explanations": h.engine.ExplanationsEnabled(),
	})
}
