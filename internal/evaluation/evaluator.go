package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/internal/matcher"
	"github.com/clinify/backend/internal/symptoms"
	"github.com/clinify/backend/pkg/logger"
)

const topK = 3

// Evaluator measures how often the expected condition is ranked first or
// within the top three for a labelled set of descriptions.
type Evaluator struct {
	extractor *symptoms.Extractor
	matcher   *matcher.Matcher
}

type EvaluationDataset struct {
	Items []DatasetItem `json:"items"`
}

type DatasetItem struct {
	Text     string `json:"text"`
	Expected string `json:"expected"`
	Category string `json:"category,omitempty"`
}

type ItemResult struct {
	Text     string   `json:"text"`
	Expected string   `json:"expected"`
	Symptoms []string `json:"symptoms"`
	Ranked   []string `json:"ranked"`

	// Rank is the 1-based position of Expected, 0 when it was not returned.
	Rank          int                `json:"rank"`
	TopConfidence matcher.Confidence `json:"top_confidence,omitempty"`
	TopMatchScore float64            `json:"top_match_score"`
}

type EvaluationReport struct {
	TotalItems       int                        `json:"total_items"`
	Top1Hits         int                        `json:"top1_hits"`
	Top3Hits         int                        `json:"top3_hits"`
	Top1Rate         float64                    `json:"top1_rate"`
	Top3Rate         float64                    `json:"top3_rate"`
	NoSymptomsCount  int                        `json:"no_symptoms_count"`
	NoMatchCount     int                        `json:"no_match_count"`
	ConfidenceCounts map[matcher.Confidence]int `json:"confidence_counts"`
	Items            []ItemResult               `json:"items"`
}

func NewEvaluator(cat *catalog.Catalog) *Evaluator {
	return &Evaluator{
		extractor: symptoms.NewExtractor(cat),
		matcher:   matcher.New(cat, logger.GetLogger()),
	}
}

func LoadDataset(path string) (*EvaluationDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var dataset EvaluationDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(dataset.Items) == 0 {
		return nil, fmt.Errorf("dataset %s has no items", path)
	}

	return &dataset, nil
}

func (e *Evaluator) EvaluateItem(item DatasetItem) ItemResult {
	found, clues := e.extractor.Extract(item.Text)
	records := e.matcher.Match(found, clues)

	result := ItemResult{
		Text:     item.Text,
		Expected: item.Expected,
		Symptoms: found,
		Ranked:   make([]string, 0, len(records)),
	}

	for i, r := range records {
		result.Ranked = append(result.Ranked, r.Condition)
		if result.Rank == 0 && strings.EqualFold(r.Condition, item.Expected) {
			result.Rank = i + 1
		}
	}

	if len(records) > 0 {
		result.TopConfidence = records[0].Confidence
		result.TopMatchScore = records[0].MatchPercentage
	}

	return result
}

func (e *Evaluator) RunDatasetEvaluation(ctx context.Context, dataset *EvaluationDataset) (*EvaluationReport, error) {
	logger.Info("Running dataset evaluation", zap.Int("items", len(dataset.Items)))

	report := &EvaluationReport{
		TotalItems:       len(dataset.Items),
		ConfidenceCounts: map[matcher.Confidence]int{},
		Items:            make([]ItemResult, 0, len(dataset.Items)),
	}

	for i, item := range dataset.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := e.EvaluateItem(item)
		report.Items = append(report.Items, result)

		switch {
		case len(result.Symptoms) == 0:
			report.NoSymptomsCount++
		case len(result.Ranked) == 0:
			report.NoMatchCount++
		default:
			report.ConfidenceCounts[result.TopConfidence]++
		}

		if result.Rank == 1 {
			report.Top1Hits++
		}
		if result.Rank > 0 && result.Rank <= topK {
			report.Top3Hits++
		}

		logger.Debug("Item evaluated",
			zap.Int("index", i+1),
			zap.String("expected", item.Expected),
			zap.Int("rank", result.Rank),
		)
	}

	if report.TotalItems > 0 {
		report.Top1Rate = float64(report.Top1Hits) / float64(report.TotalItems)
		report.Top3Rate = float64(report.Top3Hits) / float64(report.TotalItems)
	}

	logger.Info("Dataset evaluation completed",
		zap.Int("total", report.TotalItems),
		zap.Int("top1_hits", report.Top1Hits),
		zap.Int("top3_hits", report.Top3Hits),
		zap.Int("no_match", report.NoMatchCount),
	)

	return report, nil
}
