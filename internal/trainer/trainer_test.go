package trainer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/spam-perceptron/internal/features"
	"github.com/khanglvm/spam-perceptron/internal/perceptron"
)

func twoSamples() []Sample {
	return []Sample{
		{Source: "spam.txt", Features: features.Vector{1, 0}, Label: 1},
		{Source: "ham.txt", Features: features.Vector{0, 1}, Label: 0},
	}
}

func zeroUnit(t *testing.T, size int, lr float64) *perceptron.LinearUnit {
	t.Helper()
	u, err := perceptron.FromParams(make([]float64, size), 0, lr)
	require.NoError(t, err)
	return u
}

func TestRunSingleEpochDiagnostics(t *testing.T) {
	unit := zeroUnit(t, 2, 0.1)

	var steps []StepRecord
	tr := &Trainer{Epochs: 1, OnStep: func(s StepRecord) { steps = append(steps, s) }}

	report, err := tr.Run(context.Background(), unit, twoSamples())
	require.NoError(t, err)
	require.Len(t, steps, 2)

	// spam: score 0, grad -1 -> w=[0.1,0], b=0.1
	assert.Equal(t, "spam.txt", steps[0].Source)
	assert.InDelta(t, 0.0, steps[0].Before.Score, 1e-12)
	assert.InDelta(t, -1.0, steps[0].Before.Grad, 1e-12)
	assert.InDelta(t, 0.5, steps[0].Before.Loss, 1e-12)
	assert.InDelta(t, 0.2, steps[0].ScoreAfter, 1e-12)

	// ham: score 0.1, grad 0.1 -> w=[0.1,-0.01], b=0.09
	assert.InDelta(t, 0.1, steps[1].Before.Score, 1e-12)
	assert.Equal(t, 1, steps[1].Before.Prediction)
	assert.InDelta(t, 0.005, steps[1].Before.Loss, 1e-12)
	assert.InDelta(t, 0.08, steps[1].ScoreAfter, 1e-12)

	require.Len(t, report.EpochLoss, 1)
	assert.InDelta(t, 0.2525, report.EpochLoss[0], 1e-12)
	assert.InDelta(t, 0.2525, report.FinalLoss(), 1e-12)

	assert.InDeltaSlice(t, []float64{0.1, -0.01}, unit.Weights(), 1e-12)
	assert.InDelta(t, 0.09, unit.Bias(), 1e-12)

	require.Len(t, report.Predictions, 2)
	assert.Equal(t, 1, report.Predictions[0].Prediction)
	assert.InDelta(t, 0.19, report.Predictions[0].Score, 1e-12)
	assert.Equal(t, 1, report.Predictions[1].Prediction)
	assert.InDelta(t, 0.5, report.Accuracy, 1e-12)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestRunEpochsClamped(t *testing.T) {
	for _, epochs := range []int{0, -3} {
		report, err := New(epochs).Run(context.Background(), zeroUnit(t, 2, 0.1), twoSamples())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Epochs)
		assert.Len(t, report.EpochLoss, 1)
	}
}

func TestRunLossDecreases(t *testing.T) {
	unit := zeroUnit(t, 2, 0.05)
	report, err := New(50).Run(context.Background(), unit, twoSamples())
	require.NoError(t, err)

	require.Len(t, report.EpochLoss, 50)
	assert.Less(t, report.FinalLoss(), report.EpochLoss[0])
}

func TestRunEmptySamples(t *testing.T) {
	unit := zeroUnit(t, 3, 0.1)
	report, err := New(DefaultEpochs).Run(context.Background(), unit, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Samples)
	assert.Len(t, report.EpochLoss, DefaultEpochs)
	assert.Empty(t, report.Predictions)
	assert.Zero(t, report.Accuracy)
	assert.Equal(t, []float64{0, 0, 0}, unit.Weights())
}

func TestRunShuffleVisitsEverySample(t *testing.T) {
	samples := make([]Sample, 6)
	for i := range samples {
		samples[i] = Sample{Source: string(rune('a' + i)), Features: features.Vector{float64(i)}, Label: i % 2}
	}

	seen := map[int]map[int]int{}
	tr := &Trainer{
		Epochs:  3,
		Shuffle: true,
		Rand:    rand.New(rand.NewSource(7)),
		OnStep: func(s StepRecord) {
			if seen[s.Epoch] == nil {
				seen[s.Epoch] = map[int]int{}
			}
			seen[s.Epoch][s.Index]++
		},
	}

	_, err := tr.Run(context.Background(), zeroUnit(t, 1, 0.01), samples)
	require.NoError(t, err)

	require.Len(t, seen, 3)
	for epoch, counts := range seen {
		assert.Len(t, counts, 6, "epoch %d", epoch)
		for idx, n := range counts {
			assert.Equal(t, 1, n, "epoch %d index %d", epoch, idx)
		}
	}
	assert.Equal(t, "a", samples[0].Source)
}

func TestRunShuffleDeterministicWithSeed(t *testing.T) {
	samples := []Sample{
		{Source: "1", Features: features.Vector{3, 0, 1}, Label: 1},
		{Source: "2", Features: features.Vector{0, 2, 0}, Label: 0},
		{Source: "3", Features: features.Vector{1, 1, 2}, Label: 1},
		{Source: "4", Features: features.Vector{0, 0, 1}, Label: 0},
	}

	run := func() []float64 {
		u := zeroUnit(t, 3, 0.05)
		tr := &Trainer{Epochs: 5, Shuffle: true, Rand: rand.New(rand.NewSource(42))}
		_, err := tr.Run(context.Background(), u, samples)
		require.NoError(t, err)
		return append(u.Weights(), u.Bias())
	}

	assert.Equal(t, run(), run())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	unit := zeroUnit(t, 2, 0.1)
	_, err := New(3).Run(ctx, unit, twoSamples())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []float64{0, 0}, unit.Weights())
}

func TestRunDimensionMismatch(t *testing.T) {
	samples := []Sample{{Source: "short.txt", Features: features.Vector{1}, Label: 1}}

	_, err := New(1).Run(context.Background(), zeroUnit(t, 2, 0.1), samples)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short.txt")

	var dimErr *perceptron.DimensionMismatchError
	assert.True(t, errors.As(err, &dimErr))
}

func TestRunInvalidLabel(t *testing.T) {
	samples := []Sample{{Source: "x", Features: features.Vector{1, 1}, Label: 2}}

	_, err := New(1).Run(context.Background(), zeroUnit(t, 2, 0.1), samples)
	assert.ErrorIs(t, err, perceptron.ErrInvalidInput)
}
