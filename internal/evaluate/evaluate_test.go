package evaluate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/spam-perceptron/internal/features"
	"github.com/khanglvm/spam-perceptron/internal/perceptron"
	"github.com/khanglvm/spam-perceptron/internal/trainer"
)

// unit scores x[0] - x[1] - 0.5
func fixedUnit(t *testing.T) *perceptron.LinearUnit {
	t.Helper()
	u, err := perceptron.FromParams([]float64{1, -1}, -0.5, 0.1)
	require.NoError(t, err)
	return u
}

func TestEvaluate(t *testing.T) {
	samples := []trainer.Sample{
		{Source: "tp", Features: features.Vector{2, 0}, Label: 1}, // 1.5
		{Source: "fn", Features: features.Vector{0, 0}, Label: 1}, // -0.5
		{Source: "tn", Features: features.Vector{0, 1}, Label: 0}, // -1.5
		{Source: "fp", Features: features.Vector{1, 0}, Label: 0}, // 0.5
	}

	before := fixedUnit(t)
	result, err := Evaluate(before, samples)
	require.NoError(t, err)

	assert.Equal(t, Confusion{TruePositive: 1, FalsePositive: 1, TrueNegative: 1, FalseNegative: 1}, result.Confusion)
	assert.InDelta(t, 0.5, result.Accuracy, 1e-12)
	assert.InDelta(t, 0.5, result.Precision, 1e-12)
	assert.InDelta(t, 0.5, result.Recall, 1e-12)
	assert.InDelta(t, 0.5, result.F1, 1e-12)
	// losses: 0.125, 1.125, 1.125, 0.125
	assert.InDelta(t, 0.625, result.MeanLoss, 1e-12)
	assert.Equal(t, []string{"fn", "fp"}, result.Misclassified)

	// scoring does not train
	assert.Equal(t, []float64{1, -1}, before.Weights())
	assert.Equal(t, -0.5, before.Bias())
}

func TestEvaluatePerfect(t *testing.T) {
	samples := []trainer.Sample{
		{Source: "a", Features: features.Vector{3, 0}, Label: 1},
		{Source: "b", Features: features.Vector{0, 3}, Label: 0},
	}

	result, err := Evaluate(fixedUnit(t), samples)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Accuracy)
	assert.Equal(t, 1.0, result.F1)
	assert.Empty(t, result.Misclassified)
}

func TestEvaluateNoPositivePredictions(t *testing.T) {
	samples := []trainer.Sample{
		{Source: "a", Features: features.Vector{0, 2}, Label: 1},
	}

	result, err := Evaluate(fixedUnit(t), samples)
	require.NoError(t, err)
	assert.Zero(t, result.Precision)
	assert.Zero(t, result.Recall)
	assert.Zero(t, result.F1)
}

func TestEvaluateEmpty(t *testing.T) {
	result, err := Evaluate(fixedUnit(t), nil)
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)
}

func TestEvaluateDimensionMismatch(t *testing.T) {
	_, err := Evaluate(fixedUnit(t), []trainer.Sample{{Source: "bad.txt", Features: features.Vector{1, 2, 3}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, perceptron.ErrInvalidInput)
	assert.Contains(t, err.Error(), "bad.txt")
}

func TestFormatResult(t *testing.T) {
	result := &Result{
		Samples:       4,
		Confusion:     Confusion{TruePositive: 2, FalsePositive: 1, TrueNegative: 1},
		Accuracy:      0.75,
		Precision:     2.0 / 3.0,
		Recall:        1,
		F1:            0.8,
		MeanLoss:      0.1,
		Misclassified: []string{"mail/x.txt"},
	}

	out := FormatResult(result)

	for _, want := range []string{"EVALUATION", "Samples:   4", "Accuracy:  75.0%", "Precision: 66.7%", "F1:        0.800", "mail/x.txt"} {
		assert.Contains(t, out, want)
	}

	for _, line := range strings.Split(strings.TrimSpace(strings.Split(out, "\n\n")[0]), "\n") {
		assert.Equal(t, 64, len([]rune(line)), "line %q", line)
	}
}

func TestResultJSON(t *testing.T) {
	data, err := json.Marshal(&Result{Samples: 2, Accuracy: 1})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accuracy":1`)
	assert.Contains(t, string(data), `"confusion":{"truePositive":0`)
	assert.NotContains(t, string(data), "misclassified")
}
