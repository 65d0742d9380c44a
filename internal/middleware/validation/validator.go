package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SanitizedBodyKey is the fiber.Locals key holding the cleaned request body.
const SanitizedBodyKey = "sanitized_body"

var xssPattern = regexp.MustCompile(`(?i)(<\s*script|<\s*iframe|javascript:|onerror\s*=|onload\s*=|onclick\s*=)`)

var (
	ErrTextRequired = errors.New("Text is required and must be a non-empty string")
	ErrTextTooLong  = errors.New("Text exceeds maximum length")
	ErrTextInvalid  = errors.New("Invalid text content")
)

type Config struct {
	MaxTextLength       int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// AnalyzeBody is the validated body of an analyze request.
type AnalyzeBody struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

// ExplainBody is the validated body of an explanation request.
type ExplainBody struct {
	Condition string `json:"condition"`
}

func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = 5000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{fiber.MIMEApplicationJSON}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !allowedContentType(contentType, cfg.AllowedContentTypes) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Unsupported content type",
			})
		}

		path := c.Path()

		switch {
		case strings.HasSuffix(path, "/analyze"):
			var body AnalyzeBody
			if err := c.BodyParser(&body); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			text, err := SanitizeAnalyzeText(body.Text, cfg.MaxTextLength)
			if err != nil {
				if errors.Is(err, ErrTextInvalid) {
					cfg.Logger.Warn("Potential XSS attempt",
						zap.String("ip", c.IP()),
						zap.String("path", path),
					)
				}
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			body.Text = text

			c.Locals(SanitizedBodyKey, body)

		case strings.HasSuffix(path, "/explanations"):
			var body ExplainBody
			if err := c.BodyParser(&body); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			body.Condition = sanitizeString(body.Condition)
			if body.Condition == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Condition is required",
				})
			}

			c.Locals(SanitizedBodyKey, body)
		}

		return c.Next()
	}
}

// SanitizeAnalyzeText cleans symptom text and rejects it when it is empty,
// longer than maxLength runes or carries markup. maxLength <= 0 disables the
// length check.
func SanitizeAnalyzeText(text string, maxLength int) (string, error) {
	text = sanitizeString(text)
	if text == "" {
		return "", ErrTextRequired
	}
	if maxLength > 0 && utf8.RuneCountInString(text) > maxLength {
		return "", ErrTextTooLong
	}
	if containsXSS(text) {
		return "", ErrTextInvalid
	}
	return text, nil
}

func allowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

func containsXSS(input string) bool {
	return xssPattern.MatchString(input)
}

func sanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}
