package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Text string `json:"text"`
}

func TestStore_AnalysisRoundTrip(t *testing.T) {
	s := NewStore(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.SetAnalysis(ctx, "a1", record{Text: "fever"}, time.Minute))

	var got record
	found, err := s.GetAnalysis(ctx, "a1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "fever", got.Text)

	found, err = s.GetAnalysis(ctx, "nope", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.SetAnalysis(ctx, "a1", record{Text: "x"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got record
	found, err := s.GetAnalysis(ctx, "a1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_DeleteAnalysisDropsExplanations(t *testing.T) {
	s := NewStore(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.SetAnalysis(ctx, "a1", record{Text: "x"}, time.Minute))
	require.NoError(t, s.SetExplanation(ctx, "a1", "Influenza", record{Text: "flu"}, time.Minute))
	require.NoError(t, s.SetExplanation(ctx, "a2", "Influenza", record{Text: "other"}, time.Minute))

	require.NoError(t, s.DeleteAnalysis(ctx, "a1"))

	var got record
	found, _ := s.GetAnalysis(ctx, "a1", &got)
	assert.False(t, found)
	found, _ = s.GetExplanation(ctx, "a1", "Influenza", &got)
	assert.False(t, found)
	found, _ = s.GetExplanation(ctx, "a2", "Influenza", &got)
	assert.True(t, found)
	assert.Equal(t, "other", got.Text)
}

func TestStore_ValuesAreCopied(t *testing.T) {
	s := NewStore(time.Minute, time.Minute)
	ctx := context.Background()

	in := &record{Text: "original"}
	require.NoError(t, s.SetAnalysis(ctx, "a1", in, time.Minute))
	in.Text = "mutated"

	var got record
	_, err := s.GetAnalysis(ctx, "a1", &got)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
}
