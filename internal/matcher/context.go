package matcher

import (
	"strings"

	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/internal/symptoms"
)

const (
	riskFactorBonus = 0.15
	historyBonus    = 0.20
	severityBonus   = 0.10
	durationBonus   = 0.15
)

var acuteDurationHints = []string{"day", "week", "recent"}

// contextScore sums the bonuses clues earn for cond. The sum is not capped
// here; the caller clamps the final score.
func contextScore(cond *catalog.Condition, clues *symptoms.Context) float64 {
	var bonus float64

	if riskFactorsOverlap(cond.RiskFactors, clues.RiskFactors) {
		bonus += riskFactorBonus
	}

	name := strings.ToLower(cond.Name)
	for _, snippet := range clues.MedicalHistory {
		if strings.Contains(strings.ToLower(snippet), name) {
			bonus += historyBonus
		}
	}

	if clues.Severity != "" && clues.Severity == cond.Severity {
		bonus += severityBonus
	}

	severity := strings.ToLower(cond.Severity)
	duration := strings.ToLower(clues.Duration)
	switch {
	case strings.Contains(severity, "chronic") && strings.Contains(duration, "chronic"):
		bonus += durationBonus
	case strings.Contains(severity, "acute") && containsAny(duration, acuteDurationHints):
		bonus += durationBonus
	}

	return bonus
}

// riskFactorsOverlap matches case-insensitive substrings in either direction,
// so "family history" meets "Family history of migraines".
func riskFactorsOverlap(declared, found []string) bool {
	for _, d := range declared {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		for _, f := range found {
			f = strings.ToLower(strings.TrimSpace(f))
			if f == "" {
				continue
			}
			if strings.Contains(d, f) || strings.Contains(f, d) {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
