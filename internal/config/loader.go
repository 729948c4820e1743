package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// LoadFrom reads config with enhanced error handling. Fields missing from the
// file keep their NewConfig defaults.
func LoadFrom(path string) (*Config, error) {
	// Check file existence first
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'spam-perceptron init' to create configuration",
			}
		}
		return nil, fmt.Errorf("failed to access config: %w", err)
	}

	// Check read permissions
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path:    path,
				Op:      "read",
				Fix:     getReadPermissionFix(path),
				Details: getPermissionDetails(path),
				Err:     err,
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := decode(path, data)
	if err != nil {
		format := "JSON"
		if isYAML(path) {
			format = "YAML"
		}
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("%s parse error: %v", format, err),
			Hint:    "Restore from .bak file if available",
			Err:     err,
		}
	}

	cfg.Keywords = normalizeList(cfg.Keywords)

	if err := Validate(cfg); err != nil {
		return nil, invalidConfig(path, err, "Fix the value or remove it to use the default")
	}

	return cfg, nil
}

// decode unmarshals data over a default config.
func decode(path string, data []byte) (*Config, error) {
	cfg := NewConfig()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getReadPermissionFix returns platform-specific fix command
func getReadPermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	default: // unix-like
		return fmt.Sprintf("Run: chmod 644 %s", path)
	}
}

// getPermissionDetails checks file ownership and permissions
func getPermissionDetails(path string) string {
	if runtime.GOOS == "windows" {
		return "" // Not applicable on Windows
	}

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("Current permissions: %04o", info.Mode().Perm())
}
