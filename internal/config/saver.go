package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/khanglvm/spam-perceptron/internal/logger"
)

// Save writes config with atomic write + backup
func Save(cfg *Config, path string) error {
	// Check write permissions before attempting write
	if err := checkWritePermission(path); err != nil {
		return err
	}

	// 1. Validate
	if err := Validate(cfg); err != nil {
		return invalidConfig(path, err, "Check training and keyword settings and try again")
	}

	// 2. Backup existing config
	if err := backupConfig(path); err != nil {
		// Log warning but continue (first run = no backup needed)
		logger.Global().Warnf("failed to create config backup: %v", err)
	}

	// 3. Marshal
	data, err := encode(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 4. Atomic write
	if err := atomicWrite(path, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func encode(path string, cfg *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func backupConfig(path string) error {
	// Read existing file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // First run, no backup needed
		}
		return err
	}

	// Write to .bak
	bakPath := path + ".bak"
	return os.WriteFile(bakPath, data, 0644)
}

func atomicWrite(path string, data []byte) error {
	// Write to temp file in same directory
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp-" + randomString(6)
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// checkWritePermission verifies we can write to the config path
func checkWritePermission(path string) error {
	dir := filepath.Dir(path)

	// Missing directories are created by atomicWrite
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	// Check if directory exists and is writable
	if err := checkDirectoryWritable(dir); err != nil {
		return &PermissionError{
			Path:    dir,
			Op:      "write",
			Fix:     getWritePermissionFix(dir),
			Details: "Cannot write to config directory",
		}
	}

	// If file exists, check if we can overwrite it
	if _, err := os.Stat(path); err == nil {
		if err := checkFileWritable(path); err != nil {
			return &PermissionError{
				Path:    path,
				Op:      "write",
				Fix:     getWritePermissionFix(path),
				Details: "Config file is read-only",
			}
		}
	}

	return nil
}

func checkDirectoryWritable(dir string) error {
	// Try to create a temp file in the directory
	tmpFile := filepath.Join(dir, ".write-test-"+randomString(8))
	f, err := os.Create(tmpFile)
	if err != nil {
		return err
	}
	f.Close()
	os.Remove(tmpFile)
	return nil
}

func checkFileWritable(path string) error {
	// Try to open file with write access
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	f.Close()
	return nil
}

func getWritePermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Grant 'Write' permission", path)
	default: // unix-like
		return fmt.Sprintf("Run: chmod u+w %s", path)
	}
}

func randomString(n int) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
