package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel zapcore.Level
	}{
		{"debug console", Config{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"info json", Config{Level: "info", Format: "json"}, zapcore.InfoLevel},
		{"error silences info", Config{Level: "error", Format: "console"}, zapcore.ErrorLevel},
		{"unknown level", Config{Level: "chatty", Format: "json"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestWithRunID(t *testing.T) {
	l, err := New(&Config{Level: "info", Format: "json"})
	require.NoError(t, err)

	assert.Same(t, l, WithRunID(l, ""))
	assert.NotSame(t, l, WithRunID(l, "run-1"))
}
