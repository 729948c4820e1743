/*
Package config provides validation helpers for spam-perceptron configuration.

This file contains shared validation functions used by Load, Save and CLI
commands to reject settings the trainer or storage cannot honor.
*/
package config

import (
	"math"

	"github.com/khanglvm/spam-perceptron/internal/features"
	"github.com/khanglvm/spam-perceptron/internal/logger"
)

// Validate checks that cfg can be used as-is. Failures are *FieldError
// values naming the offending key.
func Validate(cfg *Config) error {
	if err := ValidateTraining(cfg.Training); err != nil {
		return err
	}

	if len(cfg.Keywords) > 0 {
		if err := features.Keywords(cfg.Keywords).Validate(); err != nil {
			return &FieldError{Field: "keywords", Err: err}
		}
	}

	if cfg.ModelPath == "" {
		return fieldErrorf("modelPath", "must not be empty")
	}

	if cfg.Storage.RetentionDays < 0 {
		return fieldErrorf("storage.retentionDays", "must not be negative, got %d", cfg.Storage.RetentionDays)
	}

	if cfg.Log.Level != "" && !logger.ValidLevel(cfg.Log.Level) {
		return fieldErrorf("log.level", "unknown level %q (use debug, info, warn, error or none)", cfg.Log.Level)
	}

	return nil
}

// ValidateTraining checks learning rate and epoch settings.
func ValidateTraining(t TrainingSettings) error {
	if !(t.LearningRate > 0) || math.IsInf(t.LearningRate, 0) {
		return fieldErrorf("training.learningRate", "must be a positive finite number, got %v", t.LearningRate)
	}
	if t.Epochs < 0 {
		return fieldErrorf("training.epochs", "must not be negative, got %d", t.Epochs)
	}
	return nil
}
