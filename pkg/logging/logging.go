// Package logging wraps zap with a key/value API used across lucidum.
package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is a structured logger taking alternating key/value pairs.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a production JSON logger at the given level.
func New(level string) (logger *Logger) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	z, err := cfg.Build()
	if err != nil {
		z, _ = zap.NewProduction()
	}

	logger = &Logger{s: z.Sugar()}
	return logger
}

// NewConsole builds a human-readable logger for interactive commands.
func NewConsole(level string) (logger *Logger) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}

	logger = &Logger{s: z.Sugar()}
	return logger
}

// NewNop returns a logger that discards everything.
func NewNop() (logger *Logger) {
	logger = &Logger{s: zap.NewNop().Sugar()}
	return logger
}

// NewTest returns a logger that writes through t.Log.
func NewTest(t testing.TB) (logger *Logger) {
	logger = &Logger{s: zaptest.NewLogger(t).Sugar()}
	return logger
}

// With returns a child logger carrying the given pairs.
func (l *Logger) With(keyvals ...any) (child *Logger) {
	child = &Logger{s: l.s.With(keyvals...)}
	return child
}

func (l *Logger) Debug(msg string, keyvals ...any) {
	l.s.Debugw(msg, keyvals...)
}

func (l *Logger) Info(msg string, keyvals ...any) {
	l.s.Infow(msg, keyvals...)
}

func (l *Logger) Warn(msg string, keyvals ...any) {
	l.s.Warnw(msg, keyvals...)
}

func (l *Logger) Error(msg string, keyvals ...any) {
	l.s.Errorw(msg, keyvals...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() (err error) {
	err = l.s.Sync()
	return err
}

func parseLevel(level string) (lvl zapcore.Level) {
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}
	return lvl
}
