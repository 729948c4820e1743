package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/khanglvm/spam-perceptron/internal/logger"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			logger.Global().Debugf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001InitialSchema creates the initial database schema.
func (s *SQLiteStorage) migration001InitialSchema() error {
	statements := []struct {
		what  string
		query string
	}{
		{"models table", `
			CREATE TABLE IF NOT EXISTS models (
				model_path TEXT PRIMARY KEY,
				keywords TEXT NOT NULL,
				keywords_hash TEXT NOT NULL,
				dimensions INTEGER NOT NULL,
				learning_rate REAL NOT NULL,
				updated_at TEXT NOT NULL
			)`},
		{"training_runs table", `
			CREATE TABLE IF NOT EXISTS training_runs (
				run_id TEXT PRIMARY KEY,
				model_path TEXT NOT NULL,
				samples INTEGER NOT NULL,
				epochs INTEGER NOT NULL,
				final_loss REAL NOT NULL,
				accuracy REAL NOT NULL,
				started_at TEXT NOT NULL,
				finished_at TEXT NOT NULL
			)`},
		{"training_runs model index", `
			CREATE INDEX IF NOT EXISTS idx_training_runs_model
			ON training_runs(model_path)`},
		{"classifications table", `
			CREATE TABLE IF NOT EXISTS classifications (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				model_path TEXT NOT NULL,
				source TEXT NOT NULL,
				content_hash TEXT NOT NULL,
				score REAL NOT NULL,
				prediction INTEGER NOT NULL,
				timestamp TEXT NOT NULL
			)`},
		{"classifications timestamp index", `
			CREATE INDEX IF NOT EXISTS idx_classifications_timestamp
			ON classifications(timestamp DESC)`},
	}

	for _, st := range statements {
		if _, err := s.db.Exec(st.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", st.what, err)
		}
	}

	return nil
}

// formatTime stores times as UTC RFC3339 so that text order matches time order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// keywordsToJSON converts a keyword list to JSON for storage.
func keywordsToJSON(keywords []string) string {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		logger.Global().Warnf("failed to marshal keywords: %v", err)
		return "[]"
	}
	return string(data)
}

// jsonToKeywords parses JSON storage back to a keyword list.
func jsonToKeywords(jsonStr string) ([]string, error) {
	var keywords []string
	if err := json.Unmarshal([]byte(jsonStr), &keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}
