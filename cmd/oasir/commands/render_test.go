package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/erraggy/oasir/ir"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid json", FormatJSON, false},
		{"valid yaml", FormatYAML, false},
		{"text is not structured", "text", true},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRenderDetail(t *testing.T) {
	node := &ir.Array{Items: &ir.Ref{Name: "Pet", Deferred: true}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderDetail(&buf, node, FormatJSON))
		assert.Contains(t, buf.String(), `"kind": "array"`)
		assert.Contains(t, buf.String(), `"deferred": true`)
	})

	t.Run("yaml keeps key order", func(t *testing.T) {
		var buf bytes.Buffer
		v := struct {
			Zeta  string `json:"zeta"`
			Alpha string `json:"alpha"`
		}{Zeta: "z", Alpha: "a"}
		require.NoError(t, RenderDetail(&buf, v, FormatYAML))
		assert.Equal(t, "zeta: z\nalpha: a\n", buf.String())
	})

	t.Run("yaml quotes ambiguous strings", func(t *testing.T) {
		var buf bytes.Buffer
		v := map[string]any{"flag": "true", "list": []int{1, 2}}
		require.NoError(t, RenderDetail(&buf, v, FormatYAML))
		assert.Contains(t, buf.String(), `flag: "true"`)
		assert.Contains(t, buf.String(), "- 1\n")
		assert.NotContains(t, buf.String(), "[1")
	})

	t.Run("unsupported format", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderDetail(&buf, node, "xml")
		require.Error(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestFormatSpecPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatSpecPath(StdinFilePath))
	assert.Equal(t, "api.yaml", FormatSpecPath("api.yaml"))
}

// =============================================================================
// Logger Tests
// =============================================================================

func TestAdaptZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := AdaptZap(zap.New(core).Sugar())

	logger.Debug("loaded", "key", "a.yaml")
	logger.With("op", "listPets").Warn("renamed", "to", "listPets2")
	logger.Info("info")
	logger.Error("failed")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "loaded", entries[0].Message)
	assert.Equal(t, "a.yaml", entries[0].ContextMap()["key"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, map[string]any{"op": "listPets", "to": "listPets2"}, entries[1].ContextMap())
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestAdaptZapNil(t *testing.T) {
	logger := AdaptZap(nil)
	assert.NotPanics(t, func() { logger.With("a", 1).Error("dropped") })
}

func TestNewZapLoggerLevels(t *testing.T) {
	var quiet bytes.Buffer
	NewZapLogger(&quiet, false).Debug("hidden")
	NewZapLogger(&quiet, false).Warn("shown")
	assert.NotContains(t, quiet.String(), "hidden")
	assert.Contains(t, quiet.String(), "shown")

	var verbose bytes.Buffer
	NewZapLogger(&verbose, true).Debug("visible")
	assert.Contains(t, verbose.String(), "visible")
}
