package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khanglvm/spam-perceptron/internal/logger"
)

// RecordTrainingRun records a finished training run. A missing RunID is
// filled with a fresh UUID.
func (s *SQLiteStorage) RecordTrainingRun(run TrainingRun) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	query := `
		INSERT INTO training_runs (run_id, model_path, samples, epochs, final_loss, accuracy, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.RunID,
		run.ModelPath,
		run.Samples,
		run.Epochs,
		run.FinalLoss,
		run.Accuracy,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
	)
	if err != nil {
		logger.Global().Warnf("failed to record training run: %v", err)
	}

	return nil
}

// GetTrainingRuns lists recent training runs, newest first.
func (s *SQLiteStorage) GetTrainingRuns(modelPath string, limit int) ([]TrainingRun, error) {
	if !s.enabled || s.db == nil {
		return []TrainingRun{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, model_path, samples, epochs, final_loss, accuracy, started_at, finished_at
		FROM training_runs
		WHERE ? = '' OR model_path = ?
		ORDER BY finished_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, modelPath, modelPath, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query training runs: %w", err)
	}
	defer rows.Close()

	runs := []TrainingRun{}
	for rows.Next() {
		var run TrainingRun
		var startedAt, finishedAt string

		if err := rows.Scan(
			&run.RunID,
			&run.ModelPath,
			&run.Samples,
			&run.Epochs,
			&run.FinalLoss,
			&run.Accuracy,
			&startedAt,
			&finishedAt,
		); err != nil {
			logger.Global().Warnf("failed to scan training run row: %v", err)
			continue
		}

		if run.StartedAt, err = parseTime(startedAt); err != nil {
			logger.Global().Warnf("failed to parse timestamp: %v", err)
			continue
		}
		if run.FinishedAt, err = parseTime(finishedAt); err != nil {
			logger.Global().Warnf("failed to parse timestamp: %v", err)
			continue
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Cleanup removes old records based on retention policy.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Global()
	cutoff := formatTime(time.Now().Add(-retention))

	if _, err := s.db.Exec("DELETE FROM classifications WHERE timestamp < ?", cutoff); err != nil {
		log.Warnf("failed to cleanup classifications: %v", err)
	}

	if _, err := s.db.Exec("DELETE FROM training_runs WHERE finished_at < ?", cutoff); err != nil {
		log.Warnf("failed to cleanup training_runs: %v", err)
	}

	if _, err := s.db.Exec("VACUUM"); err != nil {
		log.Warnf("failed to vacuum database: %v", err)
	}

	return nil
}
