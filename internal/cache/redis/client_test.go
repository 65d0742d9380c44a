package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Text  string   `json:"text"`
	Items []string `json:"items"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_AnalysisRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetAnalysis(ctx, "a1", record{Text: "fever", Items: []string{"Flu"}}, time.Minute))

	var got record
	found, err := c.GetAnalysis(ctx, "a1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "fever", got.Text)
	assert.Equal(t, []string{"Flu"}, got.Items)

	found, err = c.GetAnalysis(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_AnalysisExpires(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetAnalysis(ctx, "a1", record{Text: "x"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got record
	found, err := c.GetAnalysis(ctx, "a1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_DeleteAnalysisDropsExplanations(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetAnalysis(ctx, "a1", record{Text: "x"}, time.Minute))
	require.NoError(t, c.SetExplanation(ctx, "a1", "Influenza", record{Text: "flu"}, time.Minute))
	require.NoError(t, c.SetExplanation(ctx, "a1", "Common Cold", record{Text: "cold"}, time.Minute))
	require.NoError(t, c.SetExplanation(ctx, "a2", "Influenza", record{Text: "other"}, time.Minute))

	var got record
	found, err := c.GetExplanation(ctx, "a1", "Influenza", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "flu", got.Text)

	require.NoError(t, c.DeleteAnalysis(ctx, "a1"))

	assert.False(t, mr.Exists(analysisKey("a1")))
	found, err = c.GetExplanation(ctx, "a1", "Common Cold", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.GetExplanation(ctx, "a2", "Influenza", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestClient_DeleteAnalysisTreatsIDLiterally(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetExplanation(ctx, "abc", "Influenza", record{Text: "flu"}, time.Minute))
	require.NoError(t, c.SetExplanation(ctx, "abd", "Asthma", record{Text: "asthma"}, time.Minute))

	for _, id := range []string{"*", "ab*", "ab?", "ab[cd]", `ab\c`} {
		require.NoError(t, c.DeleteAnalysis(ctx, id))
	}

	var got record
	found, err := c.GetExplanation(ctx, "abc", "Influenza", &got)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.GetExplanation(ctx, "abd", "Asthma", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "plain-id", escapeGlob("plain-id"))
	assert.Equal(t, `a\*b\?\[c\]\\`, escapeGlob(`a*b?[c]\`))
}

func TestNew_FailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(&redis.Options{Addr: addr, MaxRetries: -1})
	assert.Error(t, err)
}
