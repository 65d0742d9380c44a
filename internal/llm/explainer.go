package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinify/backend/internal/symptoms"
	"github.com/clinify/backend/pkg/logger"
)

const explainSystemPrompt = `You are a friendly medical assistant helping a user understand a possible match between their symptoms and a medical condition.

Your response must:
1. Explain in clear, simple terms why this condition matches their symptoms
2. Describe the condition in plain, non-technical language
3. Suggest appropriate next steps in a polite, clear and medically responsible way
4. State that this is not a definitive diagnosis and that the user should consult a healthcare professional

Format your response with markdown headings and bullet points for readability.`

// ExplainRequest carries one analysed condition and the clues found in the
// user's description.
type ExplainRequest struct {
	Text            string
	Condition       string
	MatchedSymptoms []string
	MatchPercentage float64
	Confidence      string
	Context         *symptoms.Context
}

type Explanation struct {
	Condition string `json:"condition"`
	Text      string `json:"explanation"`
	// Generated is false when the fallback text was returned.
	Generated bool `json:"generated"`
}

// Explainer turns a match into a readable explanation. With no Completer it
// always returns the fallback text.
type Explainer struct {
	completer Completer
	logger    *zap.Logger
}

func NewExplainer(completer Completer) *Explainer {
	return &Explainer{completer: completer, logger: logger.GetLogger()}
}

// Enabled reports whether explanations are generated by a model.
func (e *Explainer) Enabled() bool {
	return e.completer != nil
}

// Explain never fails: completion errors are logged and the fallback text is
// returned instead.
func (e *Explainer) Explain(ctx context.Context, req ExplainRequest) Explanation {
	if e.completer == nil {
		return Explanation{Condition: req.Condition, Text: fallbackText(req, false)}
	}

	resp, err := e.completer.Complete(ctx, CompletionRequest{
		SystemPrompt: explainSystemPrompt,
		UserPrompt:   buildPrompt(req),
	})
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		e.logger.Warn("Explanation generation failed, using fallback",
			zap.String("condition", req.Condition),
			zap.Error(err),
		)
		return Explanation{Condition: req.Condition, Text: fallbackText(req, true)}
	}

	e.logger.Info("Explanation generated",
		zap.String("condition", req.Condition),
		zap.Int("length", len(resp.Content)),
	)

	return Explanation{Condition: req.Condition, Text: resp.Content, Generated: true}
}

func buildPrompt(req ExplainRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user described their symptoms as: %s\n\n", req.Text)
	fmt.Fprintf(&b, "Possible condition: %s\n", req.Condition)
	fmt.Fprintf(&b, "Matched symptoms: %s\n", strings.Join(req.MatchedSymptoms, ", "))
	fmt.Fprintf(&b, "Match score: %.0f%% (%s confidence)\n", req.MatchPercentage*100, req.Confidence)

	if c := req.Context; c != nil {
		var details []string
		if c.Duration != "" {
			details = append(details, "Duration: "+c.Duration)
		}
		if c.Severity != "" {
			details = append(details, "Reported severity: "+c.Severity)
		}
		if len(c.MedicalHistory) > 0 {
			details = append(details, "Medical history mentions: "+strings.Join(c.MedicalHistory, "; "))
		}
		if len(c.Lifestyle) > 0 {
			details = append(details, "Lifestyle factors: "+strings.Join(c.Lifestyle, ", "))
		}
		if len(c.RiskFactors) > 0 {
			details = append(details, "Risk factors: "+strings.Join(c.RiskFactors, ", "))
		}
		if len(c.Medications) > 0 {
			details = append(details, "Medications: "+strings.Join(c.Medications, ", "))
		}
		if len(details) > 0 {
			b.WriteString("\nAdditional context:\n")
			for _, d := range details {
				fmt.Fprintf(&b, "- %s\n", d)
			}
		}
	}

	b.WriteString("\nExplain why this condition might match, what it is, and what the user should do next.")
	return b.String()
}

func fallbackText(req ExplainRequest, failed bool) string {
	var b strings.Builder

	if failed {
		b.WriteString("### Explanation unavailable\n\n")
		b.WriteString("We were unable to generate a detailed explanation right now.\n\n")
	}

	fmt.Fprintf(&b, "The condition '%s' matches the following symptoms:\n", req.Condition)
	for _, s := range req.MatchedSymptoms {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	b.WriteString("\nPlease consult a healthcare professional for proper diagnosis and treatment.")
	if !failed {
		b.WriteString("\n\n*Add an OpenAI API key for detailed AI explanations.*")
	}
	return b.String()
}
