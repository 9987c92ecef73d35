package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/internal/issues"
	"github.com/erraggy/oasir/internal/severity"
	"github.com/erraggy/oasir/ir"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name   string
		items  []int
		offset int
		limit  int
		want   []int
	}{
		{name: "default limit returns all when under 100", items: items, want: []int{0, 1, 2, 3, 4}},
		{name: "explicit limit", items: items, limit: 2, want: []int{0, 1}},
		{name: "offset only", items: items, offset: 2, want: []int{2, 3, 4}},
		{name: "offset and limit", items: items, offset: 1, limit: 2, want: []int{1, 2}},
		{name: "offset at end", items: items, offset: 4, limit: 2, want: []int{4}},
		{name: "offset beyond end", items: items, offset: 5, limit: 2, want: nil},
		{name: "negative offset", items: items, offset: -1, limit: 2, want: nil},
		{name: "limit exceeds remaining", items: items, offset: 3, limit: 10, want: []int{3, 4}},
		{name: "nil slice", items: nil, limit: 2, want: nil},
		{name: "negative limit treated as default", items: items, limit: -1, want: []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.items, tt.offset, tt.limit))
		})
	}
}

func TestPaginateCapsAtMaxLimit(t *testing.T) {
	saved := cfg.MaxLimit
	t.Cleanup(func() { cfg.MaxLimit = saved })
	cfg.MaxLimit = 2

	assert.Equal(t, []int{0, 1}, paginate([]int{0, 1, 2, 3}, 0, 10))
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, sanitizeError(nil))
	assert.Equal(t, "open <path>: no such file", sanitizeError(errors.New("open /home/me/api.yaml: no such file")))
	assert.Equal(t, "plain message", sanitizeError(errors.New("plain message")))
}

func TestErrResult(t *testing.T) {
	res := errResult(errors.New("read /tmp/x.yaml failed"))
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "read <path> failed", text.Text)
}

func TestToPlain(t *testing.T) {
	out, err := toPlain(&ir.Array{Items: &ir.Ref{Name: "Pet"}})
	require.NoError(t, err)
	m, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", m["kind"])
	items, ok := m["items"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Pet", items["name"])
}

func TestSummarize(t *testing.T) {
	e := &ir.Entry{Name: "Tag", Pointer: "#/components/schemas/Tag", Model: &ir.String{}}

	s, err := summarize(e, false, true, false)
	require.NoError(t, err)
	assert.Equal(t, schemaSummary{Name: "Tag", Pointer: "#/components/schemas/Tag", Kind: "string", Circular: true}, s)

	s, err = summarize(e, false, false, true)
	require.NoError(t, err)
	assert.NotNil(t, s.Model)
}

func TestDiagnostics(t *testing.T) {
	assert.Nil(t, diagnostics(nil))
	out := diagnostics([]issues.Issue{{
		Path:     "#/components/schemas/Pet",
		Field:    "required",
		Message:  "no such property",
		Severity: severity.SeverityWarning,
		Line:     7,
	}})
	assert.Equal(t, []diagnostic{{
		Severity: "warning",
		Path:     "#/components/schemas/Pet",
		Field:    "required",
		Message:  "no such property",
		Line:     7,
	}}, out)
}
