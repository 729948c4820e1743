/*
Package perceptron implements a single linear threshold unit trained online
with squared-error gradient steps.

The unit computes score = w·x + b and classifies with a step function
(score >= 0 → 1). Training differentiates the loss 0.5*(score - y)^2 through
the raw score, so a sample keeps moving the weights until its score reaches
the label even when the thresholded prediction is already right.

A LinearUnit is safe for concurrent use: Train and Load take an exclusive
lock, scoring and saving share a read lock.
*/
package perceptron

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
)

// DefaultLearningRate is the step size used when none is configured.
const DefaultLearningRate = 0.1

// initRange is the half-width of the uniform initialization interval.
const initRange = 0.5

var (
	randMu     sync.Mutex
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Seed reseeds the process-wide generator used by New.
func Seed(seed int64) {
	randMu.Lock()
	defer randMu.Unlock()
	globalRand = rand.New(rand.NewSource(seed))
}

// LinearUnit is a perceptron with one weight per feature and a bias.
type LinearUnit struct {
	mu           sync.RWMutex
	weights      []float64
	bias         float64
	learningRate float64
}

// Step describes one training update, measured before the update was applied.
type Step struct {
	Score      float64
	Prediction int
	Grad       float64
	Loss       float64
}

// New creates a unit with inputSize weights. Weights and bias are drawn
// uniformly from [-0.5, 0.5] using the process-wide generator.
func New(inputSize int, learningRate float64) (*LinearUnit, error) {
	randMu.Lock()
	defer randMu.Unlock()
	return NewWithRand(inputSize, learningRate, globalRand)
}

// NewWithRand is like New but draws the initial parameters from rng.
func NewWithRand(inputSize int, learningRate float64, rng *rand.Rand) (*LinearUnit, error) {
	if inputSize < 0 {
		return nil, fmt.Errorf("%w: input size %d is negative", ErrInvalidInput, inputSize)
	}
	if err := validateLearningRate(learningRate); err != nil {
		return nil, err
	}

	u := &LinearUnit{
		weights:      make([]float64, inputSize),
		learningRate: learningRate,
	}
	u.bias = rng.Float64()*2*initRange - initRange
	for i := range u.weights {
		u.weights[i] = rng.Float64()*2*initRange - initRange
	}
	return u, nil
}

// FromParams builds a unit from known parameters. The weights are copied.
func FromParams(weights []float64, bias, learningRate float64) (*LinearUnit, error) {
	if err := validateLearningRate(learningRate); err != nil {
		return nil, err
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return &LinearUnit{weights: w, bias: bias, learningRate: learningRate}, nil
}

func validateLearningRate(lr float64) error {
	if math.IsNaN(lr) || math.IsInf(lr, 0) || lr <= 0 {
		return fmt.Errorf("%w: learning rate must be a positive finite number, got %v", ErrInvalidInput, lr)
	}
	return nil
}

// Activate thresholds a raw score: 1 if score >= 0, otherwise 0.
func Activate(score float64) int {
	if score >= 0 {
		return 1
	}
	return 0
}

// Score returns w·inputs + bias.
func (u *LinearUnit) Score(inputs []float64) (float64, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.score(inputs)
}

// Predict returns Activate(Score(inputs)).
func (u *LinearUnit) Predict(inputs []float64) (int, error) {
	s, err := u.Score(inputs)
	if err != nil {
		return 0, err
	}
	return Activate(s), nil
}

// Train applies one stochastic gradient step toward label (0 or 1):
//
//	grad = score(inputs) - label
//	w[i] -= learningRate * grad * inputs[i]
//	bias -= learningRate * grad
//
// The returned Step holds the score, prediction and loss before the update.
func (u *LinearUnit) Train(inputs []float64, label int) (Step, error) {
	if label != 0 && label != 1 {
		return Step{}, fmt.Errorf("%w: label must be 0 or 1, got %d", ErrInvalidInput, label)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	s, err := u.score(inputs)
	if err != nil {
		return Step{}, err
	}
	grad := s - float64(label)

	floats.AddScaled(u.weights, -u.learningRate*grad, inputs)
	u.bias -= u.learningRate * grad

	return Step{
		Score:      s,
		Prediction: Activate(s),
		Grad:       grad,
		Loss:       0.5 * grad * grad,
	}, nil
}

// score requires the caller to hold u.mu.
func (u *LinearUnit) score(inputs []float64) (float64, error) {
	if len(inputs) != len(u.weights) {
		return 0, &DimensionMismatchError{Expected: len(u.weights), Got: len(inputs)}
	}
	return floats.Dot(u.weights, inputs) + u.bias, nil
}

// Weights returns a copy of the weight vector.
func (u *LinearUnit) Weights() []float64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	w := make([]float64, len(u.weights))
	copy(w, u.weights)
	return w
}

// Bias returns the bias term.
func (u *LinearUnit) Bias() float64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.bias
}

// LearningRate returns the step size.
func (u *LinearUnit) LearningRate() float64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.learningRate
}

// Size returns the number of weights, i.e. the expected input length.
func (u *LinearUnit) Size() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.weights)
}
