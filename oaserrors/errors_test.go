package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/file.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}

		msg := err.Error()
		if msg != "parse error in /path/to/file.yaml at line 42, column 10: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{Message: "test"}
		assert.ErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrReference)
	})

	t.Run("As extracts ParseError through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("parser: %w", &ParseError{Path: "a.yaml", Line: 3})
		var pe *ParseError
		require.ErrorAs(t, wrapped, &pe)
		assert.Equal(t, 3, pe.Line)
	})
}

func TestReferenceError(t *testing.T) {
	tests := []struct {
		name      string
		err       *ReferenceError
		wantMsg   string
		circular  bool
		traversal bool
	}{
		{
			name:    "dangling pointer",
			err:     &ReferenceError{Ref: "#/components/schemas/Missing", Message: "not found"},
			wantMsg: "reference error: #/components/schemas/Missing: not found",
		},
		{
			name:     "circular chain",
			err:      &ReferenceError{Ref: "#/components/parameters/A", IsCircular: true},
			wantMsg:  "circular reference: #/components/parameters/A",
			circular: true,
		},
		{
			name:      "path traversal",
			err:       &ReferenceError{Ref: "../../etc/passwd#/x", IsPathTraversal: true},
			wantMsg:   "path traversal detected: ../../etc/passwd#/x",
			traversal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrReference)
			assert.Equal(t, tt.circular, errors.Is(tt.err, ErrCircularReference))
			assert.Equal(t, tt.traversal, errors.Is(tt.err, ErrPathTraversal))
		})
	}

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := &ReferenceError{Cause: cause}
		assert.ErrorIs(t, err, cause)
	})
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{ResourceType: "file_size", Limit: 10, Actual: 20}
	assert.Equal(t, "resource limit exceeded: file_size (limit: 10, actual: 20)", err.Error())
	assert.ErrorIs(t, err, ErrResourceLimit)
	assert.Nil(t, err.Unwrap())
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "null-style", Value: "weird", Message: "must be wrapper or branch"}
	assert.Equal(t, "configuration error for null-style (value: weird): must be wrapper or branch", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
}

func TestSchemaTypeError(t *testing.T) {
	err := &SchemaTypeError{Pointer: "#/components/schemas/Bad", Type: "file"}
	assert.Equal(t, "unsupported schema type file at #/components/schemas/Bad", err.Error())
	assert.ErrorIs(t, err, ErrUnsupportedSchemaType)
	assert.NotErrorIs(t, err, ErrParse)
}

func TestParameterError(t *testing.T) {
	t.Run("style", func(t *testing.T) {
		err := &ParameterError{Kind: ParameterStyle, Operation: "getThing", Name: "id", In: "path", Style: "form"}
		assert.Equal(t, `unsupported parameter style "form" for location "path" (parameter "id" in operation getThing)`, err.Error())
		assert.ErrorIs(t, err, ErrUnsupportedParameterStyle)
		assert.NotErrorIs(t, err, ErrUnsupportedParameterLocation)
	})

	t.Run("location", func(t *testing.T) {
		err := &ParameterError{Kind: ParameterLocation, Name: "x", In: "body"}
		assert.Equal(t, `unsupported parameter location "body" (parameter "x")`, err.Error())
		assert.ErrorIs(t, err, ErrUnsupportedParameterLocation)
		assert.NotErrorIs(t, err, ErrUnsupportedParameterStyle)
	})
}

func TestDoubleNormalizationError(t *testing.T) {
	err := fmt.Errorf("registry: %w", &DoubleNormalizationError{Name: "Pet"})
	assert.ErrorIs(t, err, ErrDoubleNormalization)
	assert.Contains(t, err.Error(), `schema "Pet" was already normalized`)
}
