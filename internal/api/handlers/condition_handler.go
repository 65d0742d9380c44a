package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/clinify/backend/internal/analysis"
)

type ConditionHandler struct {
	engine *analysis.Engine
}

func NewConditionHandler(engine *analysis.Engine) *ConditionHandler {
	return &ConditionHandler{
		engine: engine,
	}
}

func (h *ConditionHandler) ListConditions(c *fiber.Ctx) error {
	conditions := h.engine.Conditions()
	return c.JSON(fiber.Map{
		"conditions": conditions,
		"total":      len(conditions),
	})
}

// GetCondition returns the full catalog entry, including the descriptive
// fields the matcher never reads.
func (h *ConditionHandler) GetCondition(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid condition name",
		})
	}

	condition, err := h.engine.Condition(name)
	if err != nil {
		return respondError(c, err, "Failed to load condition")
	}

	return c.JSON(condition)
}
