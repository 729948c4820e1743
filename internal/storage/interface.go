/*
Package storage implements a persistent store for training runs,
classification history and the keyword registry of saved models.

The database lives at ~/.spam-perceptron/history.db and uses modernc.org/sqlite
(a pure Go, CGo-free implementation). Storage degrades gracefully: if the
database cannot be opened, every operation becomes a no-op.
*/
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/khanglvm/spam-perceptron/internal/logger"

	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent storage operations.
type Storage interface {
	// Init initializes the database and runs migrations.
	Init() error

	// SaveModel registers (or updates) the keyword list a model was trained with.
	SaveModel(model ModelRecord) error

	// GetModel returns the registry entry for a model file, or nil if unknown.
	GetModel(modelPath string) (*ModelRecord, error)

	// RecordTrainingRun records a finished training run.
	RecordTrainingRun(run TrainingRun) error

	// GetTrainingRuns lists recent runs, newest first. An empty modelPath lists all.
	GetTrainingRuns(modelPath string, limit int) ([]TrainingRun, error)

	// RecordClassification records a single classification result.
	RecordClassification(c Classification) error

	// GetClassifications lists classifications since a given time, newest first.
	GetClassifications(since time.Time, limit int) ([]Classification, error)

	// Cleanup removes old records based on retention policy.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// DefaultPath returns ~/.spam-perceptron/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".spam-perceptron", "history.db"), nil
}

// NewStorage creates a new SQLite storage instance at dbPath, or at
// DefaultPath if dbPath is empty.
//
// If the database cannot be located, the storage is disabled but operations
// will not fail.
func NewStorage(dbPath string) *SQLiteStorage {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			logger.Global().Warnf("storage disabled: %v", err)
			return &SQLiteStorage{enabled: false}
		}
		dbPath = p
	}

	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// NewDisabled returns a storage whose operations are all no-ops.
func NewDisabled() *SQLiteStorage {
	return &SQLiteStorage{enabled: false}
}

// Path returns the database file location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Enabled reports whether the database is usable.
func (s *SQLiteStorage) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled && s.db != nil
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		log := logger.Global()

		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Warnf("%v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.discard()
			log.Warnf("%v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.discard()
			log.Warnf("%v", initErr)
			return
		}
	})

	return initErr
}

// discard closes a handle that failed to initialize and disables storage.
func (s *SQLiteStorage) discard() {
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
	s.enabled = false
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// HashContent creates a SHA256 hex digest, used to identify documents
// without storing their text.
func HashContent(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
