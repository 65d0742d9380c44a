package evaluation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/internal/matcher"
)

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	cat, err := catalog.New(
		catalog.Condition{Name: "Flu", Symptoms: []string{"fever", "cough", "fatigue"}},
		catalog.Condition{Name: "Migraine", Symptoms: []string{"headache", "nausea"}},
		catalog.Condition{Name: "Bronchitis", Symptoms: []string{"cough", "wheezing"}},
	)
	require.NoError(t, err)
	return NewEvaluator(cat)
}

func TestRunDatasetEvaluation(t *testing.T) {
	e := testEvaluator(t)

	dataset := &EvaluationDataset{Items: []DatasetItem{
		{Text: "fever, cough and I am exhausted", Expected: "Flu"},
		{Text: "headache with nausea", Expected: "migraine"},
		{Text: "a bad cough and fever", Expected: "Bronchitis"},
		{Text: "I feel dizzy", Expected: "Flu"},
		{Text: "nothing to report", Expected: "Flu"},
	}}

	report, err := e.RunDatasetEvaluation(context.Background(), dataset)
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalItems)
	assert.Equal(t, 2, report.Top1Hits)
	assert.Equal(t, 3, report.Top3Hits)
	assert.InDelta(t, 0.4, report.Top1Rate, 1e-9)
	assert.InDelta(t, 0.6, report.Top3Rate, 1e-9)
	assert.Equal(t, 1, report.NoMatchCount)
	assert.Equal(t, 1, report.NoSymptomsCount)
	assert.Equal(t, 2, report.ConfidenceCounts[matcher.ConfidenceHigh])

	assert.Equal(t, 2, report.Items[2].Rank)
	assert.Equal(t, 0, report.Items[3].Rank)
}

func TestRunDatasetEvaluation_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testEvaluator(t).RunDatasetEvaluation(ctx, &EvaluationDataset{Items: []DatasetItem{{Text: "fever"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "ok.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items": [{"text": "fever", "expected": "Flu"}]}`), 0o600))

	dataset, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, dataset.Items, 1)
	assert.Equal(t, "Flu", dataset.Items[0].Expected)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"items": []}`), 0o600))
	_, err = LoadDataset(empty)
	assert.Error(t, err)

	_, err = LoadDataset(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
