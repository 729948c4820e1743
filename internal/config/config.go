/*
Package config handles loading and saving spam-perceptron configuration.

Configuration is stored in ~/.spam-perceptron.json. A path ending in .yaml or
.yml is read and written as YAML instead; the schema is the same.

Schema:
  {
    "keywords": ["free", "money"],
    "keywordsFile": "",
    "training": {"learningRate": 0.1, "epochs": 10, "shuffle": false, "seed": 0},
    "modelPath": "model.txt",
    "storage": {"enabled": true, "path": "~/.spam-perceptron/history.db", "retentionDays": 90},
    "index": {"path": ""},
    "log": {"level": "warn", "file": ""}
  }

Environment overrides (a .env file in the working directory is loaded first):
  SPAM_PERCEPTRON_CONFIG     config file path
  SPAM_PERCEPTRON_MODEL      modelPath
  SPAM_PERCEPTRON_LOG_LEVEL  log.level
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv and Load.
const (
	EnvConfig   = "SPAM_PERCEPTRON_CONFIG"
	EnvModel    = "SPAM_PERCEPTRON_MODEL"
	EnvLogLevel = "SPAM_PERCEPTRON_LOG_LEVEL"
)

// Defaults used by NewConfig.
const (
	DefaultLearningRate  = 0.1
	DefaultEpochs        = 10
	DefaultModelPath     = "model.txt"
	DefaultRetentionDays = 90
	DefaultLogLevel      = "warn"
)

// Config represents the root configuration structure.
type Config struct {
	// Keywords is the feature list. Empty means the built-in defaults.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// KeywordsFile points to a file with one keyword per line.
	KeywordsFile string `json:"keywordsFile,omitempty" yaml:"keywordsFile,omitempty"`

	Training TrainingSettings `json:"training" yaml:"training"`

	// ModelPath is where train saves and classify loads the model.
	ModelPath string `json:"modelPath" yaml:"modelPath"`

	Storage StorageSettings `json:"storage" yaml:"storage"`
	Index   IndexSettings   `json:"index" yaml:"index"`
	Log     LogSettings     `json:"log" yaml:"log"`
}

// TrainingSettings configures the training loop.
type TrainingSettings struct {
	LearningRate float64 `json:"learningRate" yaml:"learningRate"`
	Epochs       int     `json:"epochs" yaml:"epochs"`
	Shuffle      bool    `json:"shuffle,omitempty" yaml:"shuffle,omitempty"`

	// Seed makes weight initialization and shuffling reproducible. 0 uses the clock.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// StorageSettings configures the SQLite history database.
type StorageSettings struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	RetentionDays int    `json:"retentionDays" yaml:"retentionDays"`
}

// IndexSettings configures the corpus index. An empty path disables it.
type IndexSettings struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LogSettings configures the process logger.
type LogSettings struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Training: TrainingSettings{
			LearningRate: DefaultLearningRate,
			Epochs:       DefaultEpochs,
		},
		ModelPath: DefaultModelPath,
		Storage: StorageSettings{
			Enabled:       true,
			RetentionDays: DefaultRetentionDays,
		},
		Log: LogSettings{Level: DefaultLogLevel},
	}
}

// GetDefaultConfigPath returns $SPAM_PERCEPTRON_CONFIG or ~/.spam-perceptron.json.
func GetDefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return ExpandHome(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".spam-perceptron.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadOrDefault is LoadFrom that returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	var notFound *ConfigNotFoundError
	if errors.As(err, &notFound) {
		return NewConfig(), nil
	}
	return cfg, err
}

// LoadEnvFile loads variables from a dotenv file. A missing file is not an error.
// Variables already set in the environment are kept.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with SPAM_PERCEPTRON_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvModel); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// isYAML reports whether path should be encoded as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
