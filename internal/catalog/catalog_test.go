package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesDocumentOrder(t *testing.T) {
	doc := `{
		"Zeta": {"symptoms": ["cough"]},
		"Alpha": {"symptoms": ["fever", "Cough"], "severity": "moderate"},
		"Mid": {"symptoms": ["rash"], "description": ["a", "b"]}
	}`

	cat, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	var names []string
	for _, c := range cat.Conditions() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names)
	assert.Equal(t, []string{"cough", "fever", "rash"}, cat.Symptoms())

	mid, ok := cat.Get("Mid")
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, string(mid.Description))
}

func TestParse_DefaultsSeverity(t *testing.T) {
	cat, err := Parse(strings.NewReader(`{"X": {"symptoms": ["cough"]}}`))
	require.NoError(t, err)

	x, _ := cat.Get("X")
	assert.Equal(t, DefaultSeverity, x.Severity)
}

func TestParse_RejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing symptoms", `{"X": {"severity": "mild"}}`},
		{"empty symptoms", `{"X": {"symptoms": []}}`},
		{"blank symptom", `{"X": {"symptoms": ["cough", "  "]}}`},
		{"blank name", `{" ": {"symptoms": ["cough"]}}`},
		{"duplicate name", `{"X": {"symptoms": ["cough"]}, "X": {"symptoms": ["fever"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCondition)
		})
	}
}

func TestParse_RejectsNonObject(t *testing.T) {
	_, err := Parse(strings.NewReader(`["cough"]`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`{}`))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestCondition_HasSymptomIgnoresCase(t *testing.T) {
	cat, err := New(Condition{Name: "Flu", Symptoms: []string{"Fever", "cough"}})
	require.NoError(t, err)

	flu, _ := cat.Get("Flu")
	assert.True(t, flu.HasSymptom("fever"))
	assert.True(t, flu.HasSymptom(" COUGH "))
	assert.False(t, flu.HasSymptom("rash"))
}

func TestCondition_TotalWeight(t *testing.T) {
	tests := []struct {
		name      string
		condition Condition
		want      float64
	}{
		{
			name:      "unit weights",
			condition: Condition{Name: "Flu", Symptoms: []string{"fever", "cough", "fatigue"}, Severity: "moderate"},
			want:      3.0,
		},
		{
			name:      "critical symptom",
			condition: Condition{Name: "A", Symptoms: []string{"chest pain", "cough"}},
			want:      2.5,
		},
		{
			name:      "severe condition",
			condition: Condition{Name: "B", Symptoms: []string{"chest pain", "cough"}, Severity: "severe"},
			want:      1.5*1.2 + 1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := New(tt.condition)
			require.NoError(t, err)
			c, _ := cat.Get(tt.condition.Name)
			assert.InDelta(t, tt.want, c.TotalWeight(), 1e-9)
		})
	}
}

func TestSymptomWeight(t *testing.T) {
	assert.Equal(t, 1.0, SymptomWeight("cough", "mild"))
	assert.Equal(t, 1.5, SymptomWeight("Shortness of Breath", "mild"))
	assert.InDelta(t, 1.2, SymptomWeight("cough", "Severe"), 1e-9)
	assert.InDelta(t, 1.8, SymptomWeight("seizure", "severe"), 1e-9)
}

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Greater(t, cat.Len(), 10)
	flu, ok := cat.Get("Influenza")
	require.True(t, ok)
	assert.Equal(t, "moderate", flu.Severity)
	assert.True(t, flu.HasSymptom("fever"))
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conditions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Flu": {"symptoms": ["fever"]}}`), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
