package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// petstoreYAML is the document used across the tool tests. Pet and Owner
// reference each other.
const petstoreYAML = `openapi: 3.1.0
info: {title: Pets, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - {name: limit, in: query, schema: {type: integer}}
        - {name: X-Trace, in: header, schema: {type: string}}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {type: array, items: {$ref: '#/components/schemas/Pet'}}
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                name: {type: string}
      responses:
        "201": {description: created}
components:
  schemas:
    Pet:
      type: object
      properties:
        name: {type: [string, "null"]}
        owner: {$ref: '#/components/schemas/Owner'}
        tag: {$ref: '#/components/schemas/Tag'}
        address:
          type: object
          properties:
            city: {type: string}
    Owner:
      type: object
      properties:
        pets: {type: array, items: {$ref: '#/components/schemas/Pet'}}
    Tag:
      type: string
`

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasir-test", Version: "test"},
		nil,
	)
	registerAllTools(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func contentSpec() map[string]any {
	return map[string]any{"content": petstoreYAML}
}

// unmarshalStructured decodes the structured output of a tool result.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}

func names(t *testing.T, v any) []string {
	t.Helper()
	list, ok := v.([]any)
	require.True(t, ok, "expected a list, got %T", v)
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case map[string]any:
			out = append(out, x["name"].(string))
		}
	}
	return out
}

// =============================================================================
// Tool Listing
// =============================================================================

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var got []string
	for _, tool := range result.Tools {
		got = append(got, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
	assert.ElementsMatch(t, []string{"compile", "dependency_order", "normalize_parameters", "reduce"}, got)
}

// =============================================================================
// Tool Calls
// =============================================================================

func TestIntegration_Compile(t *testing.T) {
	specCache.reset()
	session := startTestSession(t)

	result := callTool(t, session, "compile", map[string]any{"spec": contentSpec()})
	require.False(t, result.IsError)

	out := unmarshalStructured(t, result)
	assert.Equal(t, "3.1.0", out["version"])
	assert.Equal(t, float64(3), out["schema_count"])
	assert.Equal(t, float64(2), out["operation_count"])
	assert.Equal(t, []string{"Owner", "Pet"}, names(t, out["circular"]))

	schemas := names(t, out["schemas"])
	assert.Equal(t, []string{"Pet", "Owner", "Tag"}, schemas[:3])
	assert.Contains(t, schemas, "ListPetsQuerySchema")
	assert.Contains(t, schemas, "CreatePetBody")

	ops := out["operations"].([]any)
	require.Len(t, ops, 2)
	create := ops[1].(map[string]any)
	assert.Equal(t, "createPet", create["operation_id"])
	assert.Equal(t, "CreatePetBody", create["body"])
}

func TestIntegration_CompilePaginatesWithDetail(t *testing.T) {
	specCache.reset()
	session := startTestSession(t)

	result := callTool(t, session, "compile", map[string]any{
		"spec":   contentSpec(),
		"detail": true,
		"offset": 2,
		"limit":  1,
	})
	require.False(t, result.IsError)

	out := unmarshalStructured(t, result)
	schemas := out["schemas"].([]any)
	require.Len(t, schemas, 1)
	tag := schemas[0].(map[string]any)
	assert.Equal(t, "Tag", tag["name"])
	assert.Equal(t, "string", tag["kind"])
	model := tag["model"].(map[string]any)
	assert.Equal(t, "string", model["kind"])
}

func TestIntegration_DependencyOrder(t *testing.T) {
	specCache.reset()
	session := startTestSession(t)

	result := callTool(t, session, "dependency_order", map[string]any{
		"spec":  contentSpec(),
		"roots": []string{"Pet"},
	})
	require.False(t, result.IsError)

	out := unmarshalStructured(t, result)
	assert.Equal(t, []string{"Owner", "Pet"}, names(t, out["circular"]))
	assert.Contains(t, names(t, out["order"]), "Tag")
	assert.Equal(t, []string{"Tag", "Owner", "Pet"}, names(t, out["reachable"]))
	assert.Len(t, out["cycles"], 1)
}

func TestIntegration_NormalizeParameters(t *testing.T) {
	specCache.reset()
	session := startTestSession(t)

	result := callTool(t, session, "normalize_parameters", map[string]any{
		"spec":         contentSpec(),
		"operation_id": "listPets",
	})
	require.False(t, result.IsError)

	out := unmarshalStructured(t, result)
	assert.Equal(t, "listPets", out["operation_id"])
	assert.Equal(t, "get", out["method"])
	assert.Equal(t, []string{"ListPetsQuerySchema", "ListPetsHeaderSchema"}, names(t, out["groups"]))

	params := out["parameters"].(map[string]any)
	header := params["header"].(map[string]any)
	list := header["list"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "X-Trace", list[0].(map[string]any)["name"])

	result = callTool(t, session, "normalize_parameters", map[string]any{
		"spec":         contentSpec(),
		"operation_id": "nope",
	})
	assert.True(t, result.IsError)
}

func TestIntegration_Reduce(t *testing.T) {
	specCache.reset()
	session := startTestSession(t)

	result := callTool(t, session, "reduce", map[string]any{
		"spec":         contentSpec(),
		"schema":       "Pet",
		"hoist_inline": true,
	})
	require.False(t, result.IsError)

	out := unmarshalStructured(t, result)
	assert.Equal(t, "wrapper", out["null_style"])
	assert.Equal(t, []string{"PetAddress"}, names(t, out["materialized"]))
	assert.Contains(t, names(t, out["order"]), "PetAddress")

	expr := out["expression"].(map[string]any)
	assert.Equal(t, "object", expr["kind"])
	assert.Equal(t, []string{"Owner", "Tag", "PetAddress"}, names(t, out["used"]))
}

func TestIntegration_ReduceBranchStyle(t *testing.T) {
	specCache.reset()
	session := startTestSession(t)

	result := callTool(t, session, "reduce", map[string]any{
		"spec":       contentSpec(),
		"schema":     "Pet",
		"null_style": "branch",
	})
	require.False(t, result.IsError)
	out := unmarshalStructured(t, result)
	assert.Equal(t, "branch", out["null_style"])
	assert.Empty(t, out["materialized"])
}

func TestIntegration_Errors(t *testing.T) {
	specCache.reset()
	session := startTestSession(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"no spec", "compile", map[string]any{"spec": map[string]any{}}},
		{"unknown schema", "reduce", map[string]any{"spec": contentSpec(), "schema": "Ghost"}},
		{"bad null style", "reduce", map[string]any{"spec": contentSpec(), "schema": "Pet", "null_style": "maybe"}},
		{"missing operation id", "normalize_parameters", map[string]any{"spec": contentSpec()}},
		{"unreadable file", "dependency_order", map[string]any{"spec": map[string]any{"file": "/nonexistent/api.yaml"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, session, tt.tool, tt.args)
			assert.True(t, result.IsError)
		})
	}
}
