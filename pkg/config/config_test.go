package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no config.yaml or .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Analysis.TopN)
	assert.Equal(t, 30, cfg.Analysis.SessionTTLMinutes)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 5000, cfg.Validation.MaxTextLength)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.Catalog.Path)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("SYMPTOM_CHECKER_ANALYSIS_TOPN", "5")
	t.Setenv("SYMPTOM_CHECKER_REDIS_ENABLED", "true")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
}

func TestLoad_ConfigFileAndDotEnv(t *testing.T) {
	dir := chdir(t)
	t.Setenv("OPENAI_API_KEY", "")

	yaml := "analysis:\n  topN: 7\ncatalog:\n  path: /data/conditions.json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SYMPTOM_CHECKER_LLM_MODEL=gpt-4o-mini\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SYMPTOM_CHECKER_LLM_MODEL") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Analysis.TopN)
	assert.Equal(t, "/data/conditions.json", cfg.Catalog.Path)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	chdir(t)
	t.Setenv("SYMPTOM_CHECKER_ANALYSIS_TOPN", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "topN")
}
