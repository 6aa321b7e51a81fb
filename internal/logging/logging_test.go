package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("test message", "key", "value")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed), "output: %s", buf.String())
	assert.Equal(t, "test message", parsed["msg"])
	assert.Equal(t, "INFO", parsed["level"])
	assert.Equal(t, "value", parsed["key"])
}

func TestNew_JSONTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelTrace, Format: FormatJSON, Output: &buf})

	logger.Log(t.Context(), LevelTrace, "deep")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "TRACE", parsed["level"])
}

func TestNew_UnknownFormatDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: Format("yaml"), Output: &buf})

	logger.Info("test message")

	var parsed map[string]any
	assert.Error(t, json.Unmarshal(buf.Bytes(), &parsed), "unknown format should fall back to text")
	assert.Contains(t, buf.String(), "test message")
}

func TestNew_FileTee(t *testing.T) {
	var out, file bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &out, File: &file})

	logger.Info("both", "k", "v")
	logger.Debug("neither")

	assert.Contains(t, out.String(), "both k=v")
	assert.NotContains(t, out.String(), "neither")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &parsed), "file copy is JSON: %s", file.String())
	assert.Equal(t, "both", parsed["msg"])
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	require.NotNil(t, logger)
	logger.Error("dropped")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{7, LevelTrace},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
	assert.Less(t, int(LevelTrace), int(slog.LevelDebug))
}

func TestVerbosityFromEnv(t *testing.T) {
	assert.Equal(t, 2, VerbosityFromEnv("1"))
	assert.Equal(t, 2, VerbosityFromEnv("true"))
	assert.Equal(t, 3, VerbosityFromEnv("2"))
	assert.Equal(t, 0, VerbosityFromEnv(""))
	assert.Equal(t, 0, VerbosityFromEnv("yes"))
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	assert.Same(t, slog.Default(), FromContext(context.Background()))
	//nolint:staticcheck // nil context is tolerated
	assert.Same(t, slog.Default(), FromContext(nil))
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	tw := &testWriter{t: t}

	n, err := tw.Write([]byte("test message\n"))
	require.NoError(t, err)
	assert.Equal(t, len("test message\n"), n)

	n, err = tw.Write([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFanout_AttrsReachEveryHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := fanout{
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	logger := slog.New(h).With("agent", "claude").WithGroup("req")

	logger.Info("applied", "name", "p")
	assert.Contains(t, a.String(), `"agent":"claude"`)
	assert.Contains(t, a.String(), `"req":{"name":"p"}`)
	assert.Empty(t, b.String(), "info must not reach an error-level handler")

	logger.Error("failed")
	assert.Contains(t, b.String(), `"msg":"failed"`)
}
