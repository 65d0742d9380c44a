package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/clinify/backend/internal/analysis"
	"github.com/clinify/backend/internal/middleware/ratelimit"
	"github.com/clinify/backend/internal/middleware/validation"
	"github.com/clinify/backend/pkg/logger"
)

type WebSocketHandler struct {
	engine        *analysis.Engine
	limiter       *ratelimit.RateLimiter
	maxTextLength int
}

type wsMessage struct {
	Type       string `json:"type"`
	Content    string `json:"content"`
	AnalysisID string `json:"analysis_id"`
	Condition  string `json:"condition"`
	UserID     string `json:"user_id"`
}

func NewWebSocketHandler(engine *analysis.Engine, limiter *ratelimit.RateLimiter, maxTextLength int) *WebSocketHandler {
	return &WebSocketHandler{
		engine:        engine,
		limiter:       limiter,
		maxTextLength: maxTextLength,
	}
}

// Upgrade rejects plain HTTP requests on the WebSocket route.
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("client_ip", c.IP())
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	clientIP, _ := c.Locals("client_ip").(string)

	for {
		var msg wsMessage
		if err := c.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Failed to read WebSocket message", zap.Error(err))
			}
			return
		}

		key := msg.UserID
		if key == "" {
			key = clientIP
		}
		if h.limiter != nil && !h.limiter.Allow(key) {
			h.sendError(c, "Rate limit exceeded. Please try again later.")
			continue
		}

		var err error
		switch msg.Type {
		case "analyze":
			err = h.handleAnalyze(c, msg)
		case "explain":
			err = h.handleExplain(c, msg)
		default:
			h.sendError(c, "Unknown message type")
			continue
		}

		if err != nil {
			logger.Error("Failed to write WebSocket message", zap.Error(err))
			return
		}
	}
}

func (h *WebSocketHandler) handleAnalyze(c *websocket.Conn, msg wsMessage) error {
	text, err := validation.SanitizeAnalyzeText(msg.Content, h.maxTextLength)
	if err != nil {
		return h.sendError(c, err.Error())
	}

	result, err := h.engine.Analyze(context.Background(), analysis.AnalyzeRequest{
		Text:   text,
		UserID: msg.UserID,
	})
	if err != nil {
		logger.Error("WebSocket analysis failed", zap.Error(err))
		return h.sendError(c, "Failed to analyze symptoms")
	}

	return c.WriteJSON(fiber.Map{
		"type": "analysis",
		"data": result,
	})
}

func (h *WebSocketHandler) handleExplain(c *websocket.Conn, msg wsMessage) error {
	if msg.AnalysisID == "" || strings.TrimSpace(msg.Condition) == "" {
		return h.sendError(c, "analysis_id and condition are required")
	}

	result, err := h.engine.Explain(context.Background(), msg.AnalysisID, strings.TrimSpace(msg.Condition))
	switch {
	case errors.Is(err, analysis.ErrAnalysisNotFound), errors.Is(err, analysis.ErrConditionNotInAnalysis):
		return h.sendError(c, err.Error())
	case err != nil:
		logger.Error("WebSocket explanation failed", zap.Error(err))
		return h.sendError(c, "Failed to explain condition")
	}

	return c.WriteJSON(fiber.Map{
		"type": "explanation",
		"data": result,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, message string) error {
	return c.WriteJSON(fiber.Map{
		"type":    "error",
		"message": message,
	})
}
