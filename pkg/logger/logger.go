// Package logger builds the structured zap logger used across the service
// and provides typed field helpers for the recurring log dimensions
// (component, operation, latency).
package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger with the given level ("debug", "info", "warn",
// "error") and format ("json" or "console").
func New(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	switch format {
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "", "json":
		cfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	log, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// NewNop returns a no-op logger for tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// Component tags a log entry with the emitting component.
func Component(name string) zap.Field {
	return zap.String("component", name)
}

// Operation tags a log entry with the logical operation.
func Operation(name string) zap.Field {
	return zap.String("operation", name)
}

// Latency records how long an operation took.
func Latency(d time.Duration) zap.Field {
	return zap.Duration("latency", d)
}

// StudentID tags a log entry with the student being evaluated.
func StudentID(id string) zap.Field {
	return zap.String("student_id", id)
}

// RequestID tags a log entry with the HTTP request id.
func RequestID(id string) zap.Field {
	return zap.String("request_id", id)
}

// SyncRunID tags a log entry with the profile sync run id.
func SyncRunID(id string) zap.Field {
	return zap.String("sync_run_id", id)
}
