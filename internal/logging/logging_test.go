package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/leengari/geojoin/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, ParseLevel("debug"), slog.LevelDebug)
	assert.Equal(t, ParseLevel("WARN"), slog.LevelWarn)
	assert.Equal(t, ParseLevel("error"), slog.LevelError)
	assert.Equal(t, ParseLevel(""), slog.LevelInfo)
}

func TestConsoleOnlyWithoutSeq(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := setupLogger(config.LogConfig{Level: "warn"}, &buf)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.Check(t, !bytes.Contains(buf.Bytes(), []byte("hidden")))
	assert.Check(t, is.Contains(buf.String(), "shown"))
	assert.Check(t, is.Contains(buf.String(), "k=v"))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	assert.Assert(t, m.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(m).With("run", "x")
	logger.Info("hello")

	assert.Check(t, is.Contains(a.String(), "run=x"))
	assert.Equal(t, b.Len(), 0)
}
