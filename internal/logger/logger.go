/*
Package logger holds the process-wide structured logger.

Diagnostics go to stderr (and optionally a log file) so that command output
on stdout stays machine-readable.
*/
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalMu     sync.RWMutex
	globalLogger = mustDefault()
)

func mustDefault() *zap.SugaredLogger {
	l, err := New("warn", "")
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l
}

// Global returns the process logger.
func Global() *zap.SugaredLogger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// ReplaceGlobal replaces the process logger.
func ReplaceGlobal(l *zap.SugaredLogger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// ParseLevel maps debug|info|warn|error|none to a zap level. Unknown values
// fall back to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "none", "off":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether ParseLevel recognizes s.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error", "none", "off":
		return true
	}
	return false
}

// NewConfig returns the console logger config used by the CLI.
func NewConfig(level zapcore.Level) zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      zapcore.OmitKey,
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// New builds a logger at the given level. If logfile is set, entries are
// also appended to it.
func New(level, logfile string) (*zap.SugaredLogger, error) {
	cfg := NewConfig(ParseLevel(level))
	if logfile != "" {
		if err := os.MkdirAll(filepath.Dir(logfile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, logfile)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.Sugar().Named("spam-perceptron"), nil
}

