package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clinify/backend/internal/matcher"
	"github.com/clinify/backend/internal/symptoms"
)

const (
	MessageNoSymptoms = "No symptoms detected. Please provide more specific symptoms."
	MessageNoMatches  = "No conditions matched your symptoms."
)

var (
	ErrEmptyText              = errors.New("symptom description is empty")
	ErrAnalysisNotFound       = errors.New("analysis not found or expired")
	ErrConditionNotInAnalysis = errors.New("condition is not among the analysis matches")
	ErrConditionNotFound      = errors.New("condition not found")
)

// Store persists analyses and their explanations for a limited time. Values
// are serialized by the store; Get* report false when the key is absent.
type Store interface {
	SetAnalysis(ctx context.Context, id string, analysis interface{}, ttl time.Duration) error
	GetAnalysis(ctx context.Context, id string, dst interface{}) (bool, error)
	SetExplanation(ctx context.Context, id, condition string, explanation interface{}, ttl time.Duration) error
	GetExplanation(ctx context.Context, id, condition string, dst interface{}) (bool, error)
	DeleteAnalysis(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type AnalyzeRequest struct {
	Text   string
	UserID string
}

// Analysis is the stored result of one analyze call.
type Analysis struct {
	ID           string            `json:"id"`
	Text         string            `json:"text"`
	Symptoms     []string          `json:"symptoms"`
	Context      *symptoms.Context `json:"context"`
	Matches      []matcher.Record  `json:"matches"`
	TotalMatches int               `json:"total_matches"`
	Message      string            `json:"message,omitempty"`
	LatencyMS    int64             `json:"latency_ms"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Match returns the record for condition, ignoring case.
func (a *Analysis) Match(condition string) (matcher.Record, bool) {
	for _, m := range a.Matches {
		if strings.EqualFold(m.Condition, condition) {
			return m, true
		}
	}
	return matcher.Record{}, false
}

type ExplanationResult struct {
	AnalysisID  string `json:"analysis_id"`
	Condition   string `json:"condition"`
	Explanation string `json:"explanation"`
	Generated   bool   `json:"generated"`
	Cached      bool   `json:"cached"`
}

type ConditionSummary struct {
	Name         string `json:"name"`
	Severity     string `json:"severity"`
	SymptomCount int    `json:"symptom_count"`
}
