package storage

import (
	"fmt"
	"time"

	"github.com/khanglvm/spam-perceptron/internal/logger"
)

// RecordClassification records a classification result.
func (s *SQLiteStorage) RecordClassification(c Classification) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}

	query := `
		INSERT INTO classifications (model_path, source, content_hash, score, prediction, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		c.ModelPath,
		c.Source,
		c.ContentHash,
		c.Score,
		c.Prediction,
		formatTime(c.Timestamp),
	)
	if err != nil {
		logger.Global().Warnf("failed to record classification: %v", err)
	}

	return nil
}

// GetClassifications retrieves classifications since a given time, newest first.
func (s *SQLiteStorage) GetClassifications(since time.Time, limit int) ([]Classification, error) {
	if !s.enabled || s.db == nil {
		return []Classification{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT model_path, source, content_hash, score, prediction, timestamp
		FROM classifications
		WHERE timestamp >= ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var results []Classification
	for rows.Next() {
		var c Classification
		var timestampStr string

		if err := rows.Scan(
			&c.ModelPath,
			&c.Source,
			&c.ContentHash,
			&c.Score,
			&c.Prediction,
			&timestampStr,
		); err != nil {
			logger.Global().Warnf("failed to scan classification row: %v", err)
			continue
		}

		c.Timestamp, err = parseTime(timestampStr)
		if err != nil {
			logger.Global().Warnf("failed to parse timestamp: %v", err)
			continue
		}

		results = append(results, c)
	}

	return results, rows.Err()
}
