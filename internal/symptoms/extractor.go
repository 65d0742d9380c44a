package symptoms

import (
	"strings"

	"go.uber.org/zap"

	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/pkg/logger"
)

const (
	// Partial matching only runs when phrase matching found fewer symptoms.
	partialMatchGate = 3
	// Share of a symptom's tokens that must appear in the text.
	partialMatchRatio = 0.7
)

// Extractor finds canonical symptoms and context clues in free text. It
// holds only immutable lookup tables and is safe for concurrent use.
type Extractor struct {
	registry      *Registry
	symptoms      []string
	symptomTokens map[string][]string
}

func NewExtractor(cat *catalog.Catalog) *Extractor {
	registry := NewRegistry(cat)
	symptoms := registry.Symptoms()

	tokens := make(map[string][]string, len(symptoms))
	for _, s := range symptoms {
		tokens[s] = Tokenize(s)
	}

	return &Extractor{
		registry:      registry,
		symptoms:      symptoms,
		symptomTokens: tokens,
	}
}

// Extract is a one-shot helper that builds an Extractor for cat.
func Extract(text string, cat *catalog.Catalog) ([]string, *Context) {
	return NewExtractor(cat).Extract(text)
}

// Extract returns the symptoms found in text in discovery order, and the
// context clues. Empty text yields an empty list and an empty context.
func (e *Extractor) Extract(text string) ([]string, *Context) {
	found := []string{}
	ctx := NewContext()

	if strings.TrimSpace(text) == "" {
		return found, ctx
	}

	lowered := Normalize(text)
	seen := make(map[string]struct{})

	for _, symptom := range e.symptoms {
		for _, variant := range e.registry.variants[symptom] {
			idx := strings.Index(lowered, variant)
			if idx < 0 {
				continue
			}
			found = append(found, symptom)
			seen[symptom] = struct{}{}
			ctx.SymptomConfidence[symptom] = 1.0
			ctx.SymptomContext[symptom] = window(lowered, idx, idx+len(variant), snippetPad)
			break
		}
	}
	phraseMatches := len(found)

	if phraseMatches < partialMatchGate {
		inputTokens := make(map[string]struct{})
		for _, tok := range Tokenize(text) {
			inputTokens[tok] = struct{}{}
		}

		for _, symptom := range e.symptoms {
			if _, ok := seen[symptom]; ok {
				continue
			}
			ratio, ok := e.partialMatch(symptom, inputTokens)
			if !ok {
				continue
			}
			found = append(found, symptom)
			seen[symptom] = struct{}{}
			ctx.SymptomConfidence[symptom] = ratio
			ctx.SymptomContext[symptom] = lowered
		}
	}

	extractClues(lowered, ctx)

	logger.Debug("Symptoms extracted",
		zap.Int("phrase_matches", phraseMatches),
		zap.Int("partial_matches", len(found)-phraseMatches),
		zap.String("duration", ctx.Duration),
		zap.String("severity", ctx.Severity),
	)

	return found, ctx
}

func (e *Extractor) partialMatch(symptom string, inputTokens map[string]struct{}) (float64, bool) {
	tokens := e.symptomTokens[symptom]
	if len(tokens) == 0 {
		return 0, false
	}

	matched := 0
	for _, tok := range tokens {
		if _, ok := inputTokens[tok]; ok {
			matched++
		}
	}

	need := partialMatchRatio * float64(len(tokens))
	if need < 1 {
		need = 1
	}
	if float64(matched) < need {
		return 0, false
	}
	return float64(matched) / float64(len(tokens)), true
}

// Registry exposes the phrase registry the extractor matches against.
func (e *Extractor) Registry() *Registry {
	return e.registry
}
