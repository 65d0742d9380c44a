package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/clinify/backend/pkg/logger"
)

const DefaultSeverity = "Unknown"

var (
	ErrInvalidCondition = errors.New("invalid catalog entry")
	ErrEmptyCatalog     = errors.New("catalog has no conditions")
)

//go:embed data/conditions.json
var defaultData embed.FS

// Condition is one catalog entry. Description, Treatment, Prevention and
// Recommendations are kept as raw JSON and handed back untouched.
type Condition struct {
	Name            string          `json:"name"`
	Symptoms        []string        `json:"symptoms"`
	Severity        string          `json:"severity"`
	RiskFactors     []string        `json:"risk_factors,omitempty"`
	Description     json.RawMessage `json:"description,omitempty"`
	Treatment       json.RawMessage `json:"treatment,omitempty"`
	Prevention      json.RawMessage `json:"prevention,omitempty"`
	Recommendations json.RawMessage `json:"recommendations,omitempty"`

	symptomSet  map[string]struct{}
	totalWeight float64
}

// HasSymptom reports whether the condition declares symptom, ignoring case.
func (c *Condition) HasSymptom(symptom string) bool {
	_, ok := c.symptomSet[Canonical(symptom)]
	return ok
}

// TotalWeight is the sum of the declared symptom weights, computed at load.
func (c *Condition) TotalWeight() float64 {
	return c.totalWeight
}

// Catalog is an immutable, ordered set of conditions. It is safe for
// concurrent readers.
type Catalog struct {
	conditions []*Condition
	byName     map[string]*Condition
	symptoms   []string
}

// New validates conditions and builds a catalog preserving their order.
func New(conditions ...Condition) (*Catalog, error) {
	if len(conditions) == 0 {
		return nil, ErrEmptyCatalog
	}

	cat := &Catalog{
		conditions: make([]*Condition, 0, len(conditions)),
		byName:     make(map[string]*Condition, len(conditions)),
	}
	seenSymptoms := make(map[string]struct{})

	for i := range conditions {
		c := conditions[i]
		if err := prepare(&c); err != nil {
			return nil, err
		}
		if _, dup := cat.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate condition %q", ErrInvalidCondition, c.Name)
		}

		cat.conditions = append(cat.conditions, &c)
		cat.byName[c.Name] = &c

		for _, s := range c.Symptoms {
			key := Canonical(s)
			if _, ok := seenSymptoms[key]; ok {
				continue
			}
			seenSymptoms[key] = struct{}{}
			cat.symptoms = append(cat.symptoms, key)
		}
	}

	return cat, nil
}

func prepare(c *Condition) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: condition with empty name", ErrInvalidCondition)
	}
	if len(c.Symptoms) == 0 {
		return fmt.Errorf("%w: condition %q has no symptoms", ErrInvalidCondition, c.Name)
	}
	if strings.TrimSpace(c.Severity) == "" {
		c.Severity = DefaultSeverity
	}

	c.Symptoms = append([]string(nil), c.Symptoms...)
	c.symptomSet = make(map[string]struct{}, len(c.Symptoms))
	c.totalWeight = 0
	for _, s := range c.Symptoms {
		key := Canonical(s)
		if key == "" {
			return fmt.Errorf("%w: condition %q has a blank symptom", ErrInvalidCondition, c.Name)
		}
		c.symptomSet[key] = struct{}{}
		c.totalWeight += SymptomWeight(key, c.Severity)
	}
	return nil
}

// Parse reads a JSON object mapping condition name to condition data. Entry
// order in the document is preserved.
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("catalog must be a JSON object, got %v", tok)
	}

	var conditions []Condition
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read condition name: %w", err)
		}
		name, _ := tok.(string)

		var c Condition
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode condition %q: %w", name, err)
		}
		c.Name = name
		conditions = append(conditions, c)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return New(conditions...)
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		return nil, err
	}

	logger.Info("Condition catalog loaded",
		zap.String("path", path),
		zap.Int("conditions", cat.Len()),
		zap.Int("symptoms", len(cat.symptoms)),
	)
	return cat, nil
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	f, err := defaultData.Open("data/conditions.json")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Load reads path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func (c *Catalog) Len() int {
	return len(c.conditions)
}

// Conditions returns the conditions in catalog order. The returned slice may
// be modified; the conditions must not.
func (c *Catalog) Conditions() []*Condition {
	return append([]*Condition(nil), c.conditions...)
}

func (c *Catalog) Get(name string) (*Condition, bool) {
	cond, ok := c.byName[name]
	return cond, ok
}

// Symptoms returns every declared symptom in canonical form, first
// occurrence order.
func (c *Catalog) Symptoms() []string {
	return append([]string(nil), c.symptoms...)
}

// Canonical is the identity used for symptom comparison.
func Canonical(symptom string) string {
	return strings.ToLower(strings.TrimSpace(symptom))
}
