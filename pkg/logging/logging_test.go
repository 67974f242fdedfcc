package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestLoggersDoNotPanic(t *testing.T) {
	for _, l := range []*Logger{New("debug"), NewConsole("info"), NewNop(), NewTest(t)} {
		child := l.With("request_id", "abc")
		child.Debug("debug", "k", 1)
		child.Info("info")
		child.Warn("warn", "err", "boom")
		child.Error("error")
	}
}
