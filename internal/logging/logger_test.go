package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  log.Level
	}{
		{level: "debug", want: log.DebugLevel},
		{level: "info", want: log.InfoLevel},
		{level: "warn", want: log.WarnLevel},
		{level: "warning", want: log.WarnLevel},
		{level: "error", want: log.ErrorLevel},
		{level: "DEBUG", want: log.DebugLevel},
		{level: "bogus", want: log.InfoLevel},
		{level: "", want: log.InfoLevel},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		logger := New(&buf, tt.level)
		require.Equal(t, tt.want, logger.GetLevel(), "level %q", tt.level)
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", FieldPath, "a.zp")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "a.zp")
}

func TestSetLevel(t *testing.T) {
	SetLevel("debug")
	require.Equal(t, log.DebugLevel, Default().GetLevel())

	SetLevel("info")
	require.Equal(t, log.InfoLevel, Default().GetLevel())
}
