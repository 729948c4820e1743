package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/khanglvm/spam-perceptron/internal/logger"
)

// SaveModel registers the keyword list a model was trained with.
func (s *SQLiteStorage) SaveModel(model ModelRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now()
	}

	query := `
		INSERT OR REPLACE INTO models (model_path, keywords, keywords_hash, dimensions, learning_rate, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		model.ModelPath,
		keywordsToJSON(model.Keywords),
		model.KeywordsHash,
		model.Dimensions,
		model.LearningRate,
		formatTime(model.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save model record: %w", err)
	}

	return nil
}

// GetModel returns the registry entry for modelPath, or nil if none exists.
func (s *SQLiteStorage) GetModel(modelPath string) (*ModelRecord, error) {
	if !s.enabled || s.db == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT model_path, keywords, keywords_hash, dimensions, learning_rate, updated_at
		FROM models
		WHERE model_path = ?
	`

	var rec ModelRecord
	var keywordsJSON, updatedAt string
	err := s.db.QueryRow(query, modelPath).Scan(
		&rec.ModelPath,
		&keywordsJSON,
		&rec.KeywordsHash,
		&rec.Dimensions,
		&rec.LearningRate,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model record: %w", err)
	}

	rec.Keywords, err = jsonToKeywords(keywordsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored keywords: %w", err)
	}

	rec.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		logger.Global().Warnf("failed to parse model timestamp: %v", err)
	}

	return &rec, nil
}
