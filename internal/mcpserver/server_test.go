package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/codefionn/docsmcp/internal/tools"
)

func newTestServer(t *testing.T, readOnly bool) (*Server, *gdocs.FakeDocuments) {
	t.Helper()
	fake := gdocs.NewFakeDocuments(
		gdocs.TextDocument("doc-1", "First", "Second line", "Test test test. This is a test sentence."),
	)
	editor := gdocs.NewEditor(gdocs.Ready[gdocs.DocumentsAPI](fake), 0)
	reg := tools.NewDocsRegistry(tools.Deps{Editor: editor, ReadOnly: readOnly})
	s, err := New(reg, "test", time.Second)
	require.NoError(t, err)

	initialize(t, s)
	return s, fake
}

var nextID int

func send(t *testing.T, s *Server, method string, params interface{}) map[string]interface{} {
	t.Helper()
	nextID++
	raw, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      nextID,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), raw)
	require.NotNil(t, resp)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Nil(t, out["error"], "protocol error: %s", data)
	result, ok := out["result"].(map[string]interface{})
	require.True(t, ok, "no result in %s", data)
	return result
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	result := send(t, s, "initialize", map[string]interface{}{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "0"},
	})
	info := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "docsmcp", info["name"])
	assert.Contains(t, result["instructions"], "half-open")
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	result := send(t, s, "tools/call", map[string]interface{}{"name": name, "arguments": args})
	content := result["content"].([]interface{})
	require.Len(t, content, 1)
	text := content[0].(map[string]interface{})["text"].(string)
	isError, _ := result["isError"].(bool)
	return text, isError
}

func TestToolsListAnnotations(t *testing.T) {
	s, _ := newTestServer(t, false)

	result := send(t, s, "tools/list", map[string]interface{}{})
	list := result["tools"].([]interface{})
	require.Len(t, list, 10)

	byName := map[string]map[string]interface{}{}
	for _, item := range list {
		tool := item.(map[string]interface{})
		byName[tool["name"].(string)] = tool
	}

	read := byName[tools.ToolNameReadDocument]
	require.NotNil(t, read)
	schema := read["inputSchema"].(map[string]interface{})
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["required"], "document_id")
	assert.Equal(t, true, read["annotations"].(map[string]interface{})["readOnlyHint"])

	del := byName[tools.ToolNameDeleteRange]["annotations"].(map[string]interface{})
	assert.Equal(t, false, del["readOnlyHint"])
	assert.Equal(t, true, del["destructiveHint"])
	assert.Equal(t, "Delete range", del["title"])

	styling := byName[tools.ToolNameApplyTextStyle]["annotations"].(map[string]interface{})
	assert.Equal(t, false, styling["destructiveHint"])
}

func TestCallToolStylesByText(t *testing.T) {
	s, fake := newTestServer(t, false)

	text, isError := callTool(t, s, tools.ToolNameApplyTextStyle, map[string]interface{}{
		"document_id":    "doc-1",
		"text_to_find":   "test",
		"match_instance": 3,
		"style":          map[string]interface{}{"bold": true},
	})
	require.False(t, isError, text)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "OK", out["status"])
	assert.Equal(t, map[string]interface{}{"startIndex": float64(45), "endIndex": float64(49)}, out["range"])
	require.Len(t, fake.Batches(), 1)
}

func TestCallToolFailuresAreToolErrors(t *testing.T) {
	s, fake := newTestServer(t, false)

	text, isError := callTool(t, s, tools.ToolNameDeleteRange, map[string]interface{}{
		"document_id": "doc-1",
		"start_index": 10,
		"end_index":   5,
	})
	assert.True(t, isError)
	assert.Contains(t, text, "[INVALID_RANGE]")

	text, isError = callTool(t, s, tools.ToolNameApplyTextStyle, map[string]interface{}{
		"document_id":  "doc-1",
		"text_to_find": "absent",
		"style":        map[string]interface{}{"italic": true},
	})
	assert.True(t, isError)
	assert.Contains(t, text, "[NOT_FOUND]")
	assert.Empty(t, fake.Batches())
}

func TestCallToolReadOnly(t *testing.T) {
	s, fake := newTestServer(t, true)

	text, isError := callTool(t, s, tools.ToolNameInsertText, map[string]interface{}{
		"document_id": "doc-1",
		"index":       1,
		"text":        "hello",
	})
	assert.True(t, isError)
	assert.Contains(t, text, "read-only mode")
	assert.Contains(t, text, "[PERMISSION_DENIED]")
	assert.Empty(t, fake.Batches())

	text, isError = callTool(t, s, tools.ToolNameReadDocument, map[string]interface{}{"document_id": "doc-1"})
	assert.False(t, isError, text)
}

func TestToCallToolResult(t *testing.T) {
	tests := []struct {
		name    string
		res     *tools.ToolResult
		want    string
		isError bool
	}{
		{
			name: "string",
			res:  &tools.ToolResult{Result: "plain"},
			want: "plain",
		},
		{
			name: "nil",
			res:  &tools.ToolResult{},
			want: "",
		},
		{
			name: "map",
			res:  &tools.ToolResult{Result: map[string]interface{}{"a": 1}},
			want: "{\n  \"a\": 1\n}",
		},
		{
			name:    "error without kind",
			res:     &tools.ToolResult{Error: "boom"},
			want:    "boom",
			isError: true,
		},
		{
			name: "error with kind",
			res: &tools.ToolResult{
				Error:             "bad",
				ExecutionMetadata: &tools.ExecutionMetadata{ErrorType: "INVALID_ARGUMENT"},
			},
			want:    "bad [INVALID_ARGUMENT]",
			isError: true,
		},
		{
			name:    "unencodable",
			res:     &tools.ToolResult{Result: map[string]interface{}{"f": func() {}}},
			want:    "encode result: json: unsupported type: func()",
			isError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toCallToolResult(tt.res)
			require.Len(t, got.Content, 1)
			text, ok := got.Content[0].(mcp.TextContent)
			require.True(t, ok, fmt.Sprintf("content is %T", got.Content[0]))
			if text.Text != tt.want {
				t.Errorf("text = %q, want %q", text.Text, tt.want)
			}
			if got.IsError != tt.isError {
				t.Errorf("IsError = %v, want %v", got.IsError, tt.isError)
			}
		})
	}
}

func TestToolTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"read_document", "Read document"},
		{"insert_page_break", "Insert page break"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := toolTitle(tt.in); got != tt.want {
			t.Errorf("toolTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
