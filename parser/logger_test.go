package parser

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	// Should not panic
	l.Debug("test message", "key", "value")
	l.Info("test message", "key", "value")
	l.Warn("test message", "key", "value")
	l.Error("test message", "key", "value")

	if _, ok := l.With("key", "value").(NopLogger); !ok {
		t.Error("With should return NopLogger")
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogAdapter(slog.New(handler)).With("doc", "api.yaml")

	logger.Debug("loaded document", "bytes", 12)
	logger.Warn("dropped required name", "name", "ghost")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "doc=api.yaml")
	assert.Equal(t, 2, strings.Count(out, "doc=api.yaml"))
}

func TestNewSlogAdapterNil(t *testing.T) {
	a := NewSlogAdapter(nil)
	assert.NotNil(t, a.logger)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, OrNop(nil))
	s := NewSlogAdapter(nil)
	assert.Same(t, s, OrNop(s))
}
