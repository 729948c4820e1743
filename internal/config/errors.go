package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// PermissionError reports a config file or directory the process cannot
// read or write.
type PermissionError struct {
	Path    string
	Op      string // "read" or "write"
	Fix     string // Suggested fix command
	Details string // Additional context
	Err     error
}

func (e *PermissionError) Error() string {
	msg := fmt.Sprintf("permission denied (cannot %s config): %s\n", e.Op, e.Path)
	if e.Details != "" {
		msg += e.Details + "\n"
	}
	msg += "💡 Fix: " + e.Fix
	return msg
}

func (e *PermissionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return fs.ErrPermission
}

// ConfigNotFoundError reports a missing config file. Commands treat it as
// "use defaults"; only an explicit --config path makes it fatal.
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	hint := e.Hint
	if hint == "" {
		hint = fmt.Sprintf("Run 'spam-perceptron init' or point %s at an existing file", EnvConfig)
	}
	return fmt.Sprintf("config file not found: %s\n\n💡 %s", e.Path, hint)
}

func (e *ConfigNotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// InvalidConfigError reports a config that cannot be parsed or holds a value
// the trainer, storage or logger cannot use. Field names the offending key
// when known.
type InvalidConfigError struct {
	Path    string
	Field   string
	Message string
	Hint    string
	Err     error
}

func (e *InvalidConfigError) Error() string {
	msg := fmt.Sprintf("invalid config: %s\n", e.Path)
	if e.Message != "" {
		msg += e.Message + "\n"
	}
	if e.Hint != "" {
		msg += "💡 " + e.Hint
	}
	return msg
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Err
}

// FieldError is a validation failure tied to one config key.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErrorf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Err: fmt.Errorf(format, args...)}
}

var fieldHints = map[string]string{
	"training.learningRate": "Set training.learningRate to a small positive number such as 0.1",
	"training.epochs":       "Set training.epochs to 1 or more, or remove it to train for 10 epochs",
	"keywords":              "List lowercase keywords without blanks, or remove the list to use the built-in vocabulary",
	"modelPath":             "Set modelPath to a writable file such as model.txt",
	"storage.retentionDays": "Set storage.retentionDays to 0 to keep history forever, or a positive number of days",
	"log.level":             "Set log.level to debug, info, warn, error or none",
}

// invalidConfig wraps a Validate failure for path, filling Field and a
// key-specific hint when the failure names a config key.
func invalidConfig(path string, err error, fallbackHint string) *InvalidConfigError {
	ice := &InvalidConfigError{
		Path:    path,
		Message: err.Error(),
		Hint:    fallbackHint,
		Err:     err,
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		ice.Field = fe.Field
		if hint, ok := fieldHints[fe.Field]; ok {
			ice.Hint = hint
		}
	}
	return ice
}
