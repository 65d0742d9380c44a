package symptoms

import "github.com/clinify/backend/internal/catalog"

// Context holds the clues inferred from one request's text. It is built per
// request and never shared.
type Context struct {
	Duration       string   `json:"duration,omitempty"`
	Severity       string   `json:"severity,omitempty"`
	MedicalHistory []string `json:"medical_history"`
	Lifestyle      []string `json:"lifestyle"`
	RiskFactors    []string `json:"risk_factors"`
	Environmental  []string `json:"environmental"`
	Medications    []string `json:"medications"`
	// SymptomConfidence is extraction certainty per canonical symptom, in [0,1].
	SymptomConfidence map[string]float64 `json:"symptom_confidence"`
	// SymptomContext is the text surrounding each symptom's match.
	SymptomContext map[string]string `json:"symptom_context"`
}

// NewContext returns an empty-valued context.
func NewContext() *Context {
	return &Context{
		MedicalHistory:    []string{},
		Lifestyle:         []string{},
		RiskFactors:       []string{},
		Environmental:     []string{},
		Medications:       []string{},
		SymptomConfidence: map[string]float64{},
		SymptomContext:    map[string]string{},
	}
}

// Confidence returns the extraction confidence for symptom, 1.0 when
// unknown, clamped to [0,1].
func (c *Context) Confidence(symptom string) float64 {
	if c == nil {
		return 1.0
	}
	v, ok := c.SymptomConfidence[catalog.Canonical(symptom)]
	if !ok {
		return 1.0
	}
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// IsEmpty reports whether no clue of any kind was found.
func (c *Context) IsEmpty() bool {
	return c == nil || (c.Duration == "" &&
		c.Severity == "" &&
		len(c.MedicalHistory) == 0 &&
		len(c.Lifestyle) == 0 &&
		len(c.RiskFactors) == 0 &&
		len(c.Environmental) == 0 &&
		len(c.Medications) == 0 &&
		len(c.SymptomConfidence) == 0 &&
		len(c.SymptomContext) == 0)
}
