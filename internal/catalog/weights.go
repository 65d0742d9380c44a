package catalog

import "strings"

const (
	baseWeight         = 1.0
	criticalMultiplier = 1.5
	severeMultiplier   = 1.2
)

var criticalSymptoms = map[string]struct{}{
	"chest pain":            {},
	"difficulty breathing":  {},
	"shortness of breath":   {},
	"seizure":               {},
	"coughing up blood":     {},
	"severe abdominal pain": {},
	"severe headache":       {},
	"loss of consciousness": {},
}

func IsCritical(symptom string) bool {
	_, ok := criticalSymptoms[Canonical(symptom)]
	return ok
}

// SymptomWeight is the weight a declared symptom contributes to its
// condition: 1.0, x1.5 when critical, x1.2 when the condition is severe.
func SymptomWeight(symptom, severity string) float64 {
	w := baseWeight
	if IsCritical(symptom) {
		w *= criticalMultiplier
	}
	if strings.EqualFold(strings.TrimSpace(severity), "severe") {
		w *= severeMultiplier
	}
	return w
}
