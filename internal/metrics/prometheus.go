package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "symptom_checker_analysis_duration_seconds",
			Help:    "Symptom analysis duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptom_checker_analyses_total",
			Help: "Total number of analyses processed",
		},
		[]string{"status"},
	)

	SymptomsExtracted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "symptom_checker_symptoms_extracted",
			Help:    "Number of symptoms extracted per analysis",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	MatchesReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "symptom_checker_matches_returned",
			Help:    "Number of conditions matched per analysis before truncation",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
	)

	TopMatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "symptom_checker_top_match_score",
			Help:    "Match percentage of the best ranked condition",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ExplanationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptom_checker_explanations_total",
			Help: "Total explanations served by source",
		},
		[]string{"source"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptom_checker_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptom_checker_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptom_checker_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(AnalysisDuration)
		prometheus.MustRegister(AnalysesTotal)
		prometheus.MustRegister(SymptomsExtracted)
		prometheus.MustRegister(MatchesReturned)
		prometheus.MustRegister(TopMatchScore)
		prometheus.MustRegister(ExplanationsTotal)
		prometheus.MustRegister(LLMTokensUsed)
		prometheus.MustRegister(CacheHits)
		prometheus.MustRegister(CacheMisses)
	})
}

// RecordLLMUsage adds prompt and completion token counts for model.
func RecordLLMUsage(model string, promptTokens, completionTokens int) {
	LLMTokensUsed.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	LLMTokensUsed.WithLabelValues(model, "completion").Add(float64(completionTokens))
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
