/*
Package trainer runs epochs of online perceptron training over a labeled
sample set and reports per-step diagnostics.
*/
package trainer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khanglvm/spam-perceptron/internal/features"
	"github.com/khanglvm/spam-perceptron/internal/perceptron"
)

// DefaultEpochs is the number of passes used when none is configured.
const DefaultEpochs = 10

// Sample is one labeled feature vector.
type Sample struct {
	Source   string
	Features features.Vector
	Label    int
}

// StepRecord is emitted after every training step.
type StepRecord struct {
	Epoch      int
	Index      int
	Source     string
	Label      int
	Before     perceptron.Step
	ScoreAfter float64
}

// Prediction is the unit's verdict on a training sample after the last epoch.
type Prediction struct {
	Source     string  `json:"source"`
	Label      int     `json:"label"`
	Score      float64 `json:"score"`
	Prediction int     `json:"prediction"`
}

// Report summarizes a training run.
type Report struct {
	RunID       string       `json:"runId"`
	Samples     int          `json:"samples"`
	Epochs      int          `json:"epochs"`
	EpochLoss   []float64    `json:"epochLoss"`
	Predictions []Prediction `json:"predictions"`
	Accuracy    float64      `json:"accuracy"`
	StartedAt   time.Time    `json:"startedAt"`
	FinishedAt  time.Time    `json:"finishedAt"`
}

// FinalLoss returns the mean loss of the last epoch.
func (r *Report) FinalLoss() float64 {
	if len(r.EpochLoss) == 0 {
		return 0
	}
	return r.EpochLoss[len(r.EpochLoss)-1]
}

// Trainer drives a LinearUnit through repeated passes over the samples.
type Trainer struct {
	// Epochs is the number of passes; values below 1 run a single pass.
	Epochs int

	// Shuffle reorders the samples before each epoch.
	Shuffle bool

	// Rand is used for shuffling. A time-seeded source is used when nil.
	Rand *rand.Rand

	// Logger receives per-epoch progress at debug level (optional).
	Logger *zap.SugaredLogger

	// OnStep is called after each update (optional).
	OnStep func(StepRecord)
}

// New creates a Trainer with the given number of epochs.
func New(epochs int) *Trainer {
	return &Trainer{Epochs: epochs}
}

// Run trains unit on samples. The samples slice is not modified.
func (t *Trainer) Run(ctx context.Context, unit *perceptron.LinearUnit, samples []Sample) (*Report, error) {
	epochs := t.Epochs
	if epochs < 1 {
		epochs = 1
	}

	log := t.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	rng := t.Rand
	if t.Shuffle && rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Samples:   len(samples),
		Epochs:    epochs,
		EpochLoss: make([]float64, 0, epochs),
		StartedAt: time.Now(),
	}

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}

	for epoch := 1; epoch <= epochs; epoch++ {
		if t.Shuffle {
			rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		total := 0.0
		for _, idx := range order {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("training interrupted in epoch %d: %w", epoch, err)
			}

			s := samples[idx]
			step, err := unit.Train(s.Features, s.Label)
			if err != nil {
				return nil, fmt.Errorf("failed to train on %s: %w", s.Source, err)
			}
			total += step.Loss

			if t.OnStep != nil {
				after, _ := unit.Score(s.Features)
				t.OnStep(StepRecord{
					Epoch:      epoch,
					Index:      idx,
					Source:     s.Source,
					Label:      s.Label,
					Before:     step,
					ScoreAfter: after,
				})
			}
		}

		mean := 0.0
		if len(samples) > 0 {
			mean = total / float64(len(samples))
		}
		report.EpochLoss = append(report.EpochLoss, mean)
		log.Debugw("epoch complete", "epoch", epoch, "meanLoss", mean)
	}

	correct := 0
	report.Predictions = make([]Prediction, 0, len(samples))
	for _, s := range samples {
		score, err := unit.Score(s.Features)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", s.Source, err)
		}
		p := perceptron.Activate(score)
		if p == s.Label {
			correct++
		}
		report.Predictions = append(report.Predictions, Prediction{
			Source:     s.Source,
			Label:      s.Label,
			Score:      score,
			Prediction: p,
		})
	}
	if len(samples) > 0 {
		report.Accuracy = float64(correct) / float64(len(samples))
	}

	report.FinishedAt = time.Now()
	log.Infow("training finished",
		"runId", report.RunID,
		"samples", report.Samples,
		"epochs", report.Epochs,
		"finalLoss", report.FinalLoss(),
		"accuracy", report.Accuracy,
	)

	return report, nil
}
