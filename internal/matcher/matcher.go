package matcher

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/internal/symptoms"
	"github.com/clinify/backend/pkg/logger"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"

	highThreshold   = 0.7
	mediumThreshold = 0.4
)

// ConfidenceFor maps a final match percentage to its label.
func ConfidenceFor(matchPercentage float64) Confidence {
	switch {
	case matchPercentage >= highThreshold:
		return ConfidenceHigh
	case matchPercentage >= mediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Record is the score of one condition against the extracted symptoms.
type Record struct {
	Condition           string     `json:"condition"`
	MatchedSymptoms     []string   `json:"matched_symptoms"`
	MatchCount          int        `json:"match_count"`
	TotalSymptoms       int        `json:"total_symptoms"`
	BaseMatchPercentage float64    `json:"base_match_percentage"`
	ContextScore        float64    `json:"context_score"`
	MatchPercentage     float64    `json:"match_percentage"`
	Confidence          Confidence `json:"confidence"`
	Severity            string     `json:"severity"`
}

// Matcher ranks a catalog's conditions against extracted symptoms. It keeps
// no per-call state and is safe for concurrent use.
type Matcher struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func New(cat *catalog.Catalog, log *zap.Logger) *Matcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Matcher{catalog: cat, logger: log}
}

// Match is a one-shot helper around Matcher.Match.
func Match(input []string, cat *catalog.Catalog, clues *symptoms.Context) []Record {
	return New(cat, nil).Match(input, clues)
}

// Match scores every condition sharing at least one symptom with input and
// returns the records sorted by MatchPercentage, highest first. clues may be
// nil, in which case no context bonus applies.
func (m *Matcher) Match(input []string, clues *symptoms.Context) []Record {
	records := []Record{}
	if len(input) == 0 {
		return records
	}

	input = dedupe(input)

	for _, cond := range m.catalog.Conditions() {
		rec, ok := m.scoreSafely(cond, input, clues)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MatchPercentage > records[j].MatchPercentage
	})

	m.logger.Debug("Conditions matched",
		zap.Int("symptoms", len(input)),
		zap.Int("matches", len(records)),
	)

	return records
}

// scoreSafely isolates one condition so a bad entry cannot abort the rest.
func (m *Matcher) scoreSafely(cond *catalog.Condition, input []string, clues *symptoms.Context) (rec Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			name := "<nil>"
			if cond != nil {
				name = cond.Name
			}
			m.logger.Warn("Skipping condition after scoring failure",
				zap.String("condition", name),
				zap.String("panic", fmt.Sprint(r)),
			)
			rec, ok = Record{}, false
		}
	}()
	return score(cond, input, clues)
}

func score(cond *catalog.Condition, input []string, clues *symptoms.Context) (Record, bool) {
	var matched []string
	matchedSet := make(map[string]struct{})
	for _, s := range input {
		if cond.HasSymptom(s) {
			matched = append(matched, s)
			matchedSet[catalog.Canonical(s)] = struct{}{}
		}
	}
	if len(matched) == 0 {
		return Record{}, false
	}

	base := baseScore(cond, matchedSet, clues)
	bonus := 0.0
	if clues != nil {
		bonus = contextScore(cond, clues)
	}
	final := clamp(base + bonus)

	return Record{
		Condition:           cond.Name,
		MatchedSymptoms:     matched,
		MatchCount:          len(matched),
		TotalSymptoms:       len(cond.Symptoms),
		BaseMatchPercentage: base,
		ContextScore:        bonus,
		MatchPercentage:     final,
		Confidence:          ConfidenceFor(final),
		Severity:            cond.Severity,
	}, true
}

// baseScore is the confidence-scaled weight of the matched declared symptoms
// over the condition's total weight.
func baseScore(cond *catalog.Condition, matched map[string]struct{}, clues *symptoms.Context) float64 {
	total := cond.TotalWeight()
	if total <= 0 {
		return 0
	}

	var weight float64
	for _, s := range cond.Symptoms {
		key := catalog.Canonical(s)
		if _, ok := matched[key]; !ok {
			continue
		}
		weight += catalog.SymptomWeight(key, cond.Severity) * clues.Confidence(key)
	}
	return weight / total
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < 0:
		return 0
	}
	return v
}

func dedupe(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	out := make([]string, 0, len(input))
	for _, s := range input {
		key := catalog.Canonical(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
