package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinify/backend/internal/symptoms"
)

type fakeCompleter struct {
	content string
	err     error
	calls   []CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResponse{Content: f.content}, nil
}

func sampleRequest() ExplainRequest {
	ctx := symptoms.NewContext()
	ctx.Duration = "3 days"
	ctx.Severity = "moderate"
	ctx.Lifestyle = []string{"sleep"}

	return ExplainRequest{
		Text:            "fever and cough for 3 days",
		Condition:       "Influenza",
		MatchedSymptoms: []string{"fever", "cough"},
		MatchPercentage: 0.62,
		Confidence:      "Medium",
		Context:         ctx,
	}
}

func TestExplain_WithoutCompleterUsesFallback(t *testing.T) {
	e := NewExplainer(nil)

	got := e.Explain(context.Background(), sampleRequest())

	assert.False(t, e.Enabled())
	assert.False(t, got.Generated)
	assert.Equal(t, "Influenza", got.Condition)
	assert.Contains(t, got.Text, "- fever\n")
	assert.Contains(t, got.Text, "- cough\n")
	assert.Contains(t, got.Text, "API key")
}

func TestExplain_Generated(t *testing.T) {
	fake := &fakeCompleter{content: "## Why this matches\n..."}
	e := NewExplainer(fake)

	got := e.Explain(context.Background(), sampleRequest())

	assert.True(t, got.Generated)
	assert.Equal(t, fake.content, got.Text)

	require.Len(t, fake.calls, 1)
	prompt := fake.calls[0].UserPrompt
	assert.Contains(t, prompt, "fever and cough for 3 days")
	assert.Contains(t, prompt, "Possible condition: Influenza")
	assert.Contains(t, prompt, "Matched symptoms: fever, cough")
	assert.Contains(t, prompt, "62%")
	assert.Contains(t, prompt, "Duration: 3 days")
	assert.Contains(t, prompt, "Lifestyle factors: sleep")
	assert.NotContains(t, prompt, "Medications")
	assert.Contains(t, fake.calls[0].SystemPrompt, "not a definitive diagnosis")
}

func TestExplain_CompletionFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeCompleter
	}{
		{"error", &fakeCompleter{err: errors.New("boom")}},
		{"blank content", &fakeCompleter{content: "  \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExplainer(tt.fake).Explain(context.Background(), sampleRequest())

			assert.False(t, got.Generated)
			assert.Contains(t, got.Text, "unable to generate")
			assert.Contains(t, got.Text, "- fever")
		})
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(testLLMConfig(""))
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c, err := NewClient(testLLMConfig("sk-test"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.Model())
}
