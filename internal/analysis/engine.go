package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/internal/llm"
	"github.com/clinify/backend/internal/matcher"
	"github.com/clinify/backend/internal/metrics"
	"github.com/clinify/backend/internal/symptoms"
	"github.com/clinify/backend/pkg/logger"
)

type Engine struct {
	catalog    *catalog.Catalog
	extractor  *symptoms.Extractor
	matcher    *matcher.Matcher
	store      Store
	explainer  *llm.Explainer
	topN       int
	sessionTTL time.Duration
}

type Options struct {
	TopN       int
	SessionTTL time.Duration
}

func NewEngine(cat *catalog.Catalog, store Store, explainer *llm.Explainer, opts Options) *Engine {
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if explainer == nil {
		explainer = llm.NewExplainer(nil)
	}

	return &Engine{
		catalog:    cat,
		extractor:  symptoms.NewExtractor(cat),
		matcher:    matcher.New(cat, logger.GetLogger()),
		store:      store,
		explainer:  explainer,
		topN:       opts.TopN,
		sessionTTL: opts.SessionTTL,
	}
}

// Analyze extracts symptoms from req.Text, ranks the catalog against them and
// stores the top matches for later explanation requests.
func (e *Engine) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	startTime := time.Now()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		metrics.AnalysesTotal.WithLabelValues("invalid").Inc()
		return nil, ErrEmptyText
	}

	analysisID := uuid.New().String()

	logger.Info("Processing analysis",
		zap.String("analysis_id", analysisID),
		zap.String("user_id", req.UserID),
		zap.Int("text_length", len(text)),
	)

	found, clues := e.extractor.Extract(text)
	metrics.SymptomsExtracted.Observe(float64(len(found)))

	result := &Analysis{
		ID:        analysisID,
		Text:      text,
		Symptoms:  found,
		Context:   clues,
		Matches:   []matcher.Record{},
		CreatedAt: startTime.UTC(),
	}

	status := "matched"
	if len(found) == 0 {
		result.Message = MessageNoSymptoms
		status = "no_symptoms"
	} else {
		records := e.matcher.Match(found, clues)
		metrics.MatchesReturned.Observe(float64(len(records)))

		result.TotalMatches = len(records)
		if len(records) > e.topN {
			records = records[:e.topN]
		}
		result.Matches = records

		if len(records) == 0 {
			result.Message = MessageNoMatches
			status = "no_matches"
		} else {
			metrics.TopMatchScore.Observe(records[0].MatchPercentage)
		}
	}

	result.LatencyMS = time.Since(startTime).Milliseconds()

	if err := e.store.SetAnalysis(ctx, analysisID, result, e.sessionTTL); err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	metrics.AnalysesTotal.WithLabelValues(status).Inc()
	metrics.AnalysisDuration.Observe(time.Since(startTime).Seconds())

	logger.Info("Analysis processed successfully",
		zap.String("analysis_id", analysisID),
		zap.Strings("symptoms", found),
		zap.Int("matches", len(result.Matches)),
		zap.Int64("latency_ms", result.LatencyMS),
	)

	return result, nil
}

func (e *Engine) Get(ctx context.Context, analysisID string) (*Analysis, error) {
	if !validID(analysisID) {
		return nil, ErrAnalysisNotFound
	}

	var result Analysis
	found, err := e.store.GetAnalysis(ctx, analysisID, &result)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrAnalysisNotFound
	}
	return &result, nil
}

// Explain returns an explanation for one of the analysis matches, serving a
// cached one when present. Only model-generated text is cached.
func (e *Engine) Explain(ctx context.Context, analysisID, condition string) (*ExplanationResult, error) {
	result, err := e.Get(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	match, ok := result.Match(condition)
	if !ok {
		return nil, ErrConditionNotInAnalysis
	}

	var cached llm.Explanation
	hit, err := e.store.GetExplanation(ctx, analysisID, match.Condition, &cached)
	if err != nil {
		logger.Warn("Explanation cache lookup failed", zap.Error(err))
	}
	if hit {
		metrics.CacheHits.WithLabelValues("explanation").Inc()
		metrics.ExplanationsTotal.WithLabelValues("cache").Inc()
		return &ExplanationResult{
			AnalysisID:  analysisID,
			Condition:   match.Condition,
			Explanation: cached.Text,
			Generated:   cached.Generated,
			Cached:      true,
		}, nil
	}
	metrics.CacheMisses.WithLabelValues("explanation").Inc()

	explanation := e.explainer.Explain(ctx, llm.ExplainRequest{
		Text:            result.Text,
		Condition:       match.Condition,
		MatchedSymptoms: match.MatchedSymptoms,
		MatchPercentage: match.MatchPercentage,
		Confidence:      string(match.Confidence),
		Context:         result.Context,
	})

	if explanation.Generated {
		metrics.ExplanationsTotal.WithLabelValues("llm").Inc()
		if err := e.store.SetExplanation(ctx, analysisID, match.Condition, explanation, e.sessionTTL); err != nil {
			logger.Warn("Failed to cache explanation", zap.Error(err))
		}
	} else {
		metrics.ExplanationsTotal.WithLabelValues("fallback").Inc()
	}

	return &ExplanationResult{
		AnalysisID:  analysisID,
		Condition:   match.Condition,
		Explanation: explanation.Text,
		Generated:   explanation.Generated,
	}, nil
}

// Clear drops a stored analysis and its explanations. Clearing an unknown id
// is not an error.
func (e *Engine) Clear(ctx context.Context, analysisID string) error {
	if !validID(analysisID) {
		return nil
	}
	if err := e.store.DeleteAnalysis(ctx, analysisID); err != nil {
		return fmt.Errorf("failed to clear analysis: %w", err)
	}
	logger.Info("Analysis cleared", zap.String("analysis_id", analysisID))
	return nil
}

// validID reports whether id has the form Analyze assigns. Anything else
// never reaches the store, where it could be read as a key pattern.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (e *Engine) Conditions() []ConditionSummary {
	conditions := e.catalog.Conditions()
	summaries := make([]ConditionSummary, 0, len(conditions))
	for _, c := range conditions {
		summaries = append(summaries, ConditionSummary{
			Name:         c.Name,
			Severity:     c.Severity,
			SymptomCount: len(c.Symptoms),
		})
	}
	return summaries
}

func (e *Engine) Condition(name string) (*catalog.Condition, error) {
	if c, ok := e.catalog.Get(name); ok {
		return c, nil
	}
	for _, c := range e.catalog.Conditions() {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, ErrConditionNotFound
}

func (e *Engine) Ready(ctx context.Context) error {
	return e.store.Ping(ctx)
}

func (e *Engine) ExplanationsEnabled() bool {
	return e.explainer.Enabled()
}
