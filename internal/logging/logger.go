// Package logging builds the zap loggers used across the application.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's destination and verbosity.
type Options struct {
	Service string
	Env     string
	// Level is a zap level name ("debug", "info", "warn", "error").
	Level string
	// File, when set, receives a copy of every entry.
	File string
	// Stderr sends entries to stderr instead of stdout, keeping stdout free
	// for command output.
	Stderr bool
}

// NewLogger creates a production zap logger that emits JSON entries enriched
// with the service and environment identifiers.
func NewLogger(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	sink := "stdout"
	if opts.Stderr {
		sink = "stderr"
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{sink}
	cfg.ErrorOutputPaths = []string{sink}

	if opts.File != "" {
		if err := ensureLogFile(opts.File); err != nil {
			return nil, fmt.Errorf("prepare log file: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, opts.File)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	cfg.InitialFields = map[string]any{
		"service": opts.Service,
		"env":     opts.Env,
	}

	return cfg.Build()
}

// WithSession returns a logger carrying the checkout session fields.
func WithSession(logger *zap.Logger, sessionID, email string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(
		zap.String("session_id", sessionID),
		zap.String("email", email),
	)
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

func ensureLogFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		f, createErr := os.OpenFile(path, os.O_CREATE, 0o644)
		if createErr != nil {
			return createErr
		}
		_ = f.Close()
	}
	return nil
}
