package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clinify/backend/internal/analysis"
	"github.com/clinify/backend/internal/middleware/validation"
	"github.com/clinify/backend/pkg/logger"
)

type AnalysisHandler struct {
	engine *analysis.Engine
}

func NewAnalysisHandler(engine *analysis.Engine) *AnalysisHandler {
	return &AnalysisHandler{
		engine: engine,
	}
}

func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	body, ok := c.Locals(validation.SanitizedBodyKey).(validation.AnalyzeBody)
	if !ok {
		if err := c.BodyParser(&body); err != nil {
			logger.Error("Failed to parse request body", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	userID := body.UserID
	if userID == "" {
		userID = c.Get("X-User-ID")
	}

	result, err := h.engine.Analyze(c.UserContext(), analysis.AnalyzeRequest{
		Text:   body.Text,
		UserID: userID,
	})
	if err != nil {
		return respondError(c, err, "Failed to analyze symptoms")
	}

	return c.JSON(result)
}

func (h *AnalysisHandler) HandleGet(c *fiber.Ctx) error {
	result, err := h.engine.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to load analysis")
	}
	return c.JSON(result)
}

func (h *AnalysisHandler) HandleExplain(c *fiber.Ctx) error {
	body, ok := c.Locals(validation.SanitizedBodyKey).(validation.ExplainBody)
	if !ok {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	if body.Condition == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Condition is required",
		})
	}

	result, err := h.engine.Explain(c.UserContext(), c.Params("id"), body.Condition)
	if err != nil {
		return respondError(c, err, "Failed to explain condition")
	}

	return c.JSON(result)
}

func (h *AnalysisHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.engine.Clear(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to clear analysis")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// respondError maps engine errors to HTTP statuses. Unknown errors are logged
// and reported with the generic message.
func respondError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, analysis.ErrEmptyText):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Text is required"})
	case errors.Is(err, analysis.ErrAnalysisNotFound),
		errors.Is(err, analysis.ErrConditionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, analysis.ErrConditionNotInAnalysis):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logger.Error(message, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}
