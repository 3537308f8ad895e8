package tools

import (
	"context"
	"strings"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"read_document", "read_document", 0},
		{"read_documnt", "read_document", 1},
		{"insert_texts", "insert_text", 1},
		{"delete_rangé", "delete_range", 1},
		{"apply_text_stlye", "apply_text_style", 2},
	}

	for _, tt := range tests {
		result := levenshteinDistance(tt.s1, tt.s2)
		if result != tt.expected {
			t.Errorf("levenshteinDistance(%q, %q) = %d; want %d", tt.s1, tt.s2, result, tt.expected)
		}
	}
}

// mockTool is a simple tool implementation for testing
type mockTool struct {
	name  string
	calls int
}

func (m *mockTool) Name() string        { return m.name }
func (m *mockTool) Description() string { return "Mock tool for testing" }
func (m *mockTool) Parameters() map[string]interface{} {
	return objectSchema(nil, map[string]interface{}{})
}

func (m *mockTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	m.calls++
	return &ToolResult{Result: "mock result"}
}

func newMockRegistry(authorizer Authorizer, names ...string) *Registry {
	registry := NewRegistry(authorizer)
	for _, name := range names {
		registry.Register(&mockTool{name: name})
	}
	return registry
}

func TestFindSimilarTools(t *testing.T) {
	registry := newMockRegistry(nil,
		ToolNameReadDocument, ToolNameInsertText, ToolNameDeleteRange,
		ToolNameApplyTextStyle, ToolNameApplyParagraphStyle, ToolNameListComments)

	tests := []struct {
		name            string
		typo            string
		expectedContain []string
		expectedFirst   string
	}{
		{name: "Single character typo", typo: "read_documnt", expectedFirst: ToolNameReadDocument},
		{name: "Extra character", typo: "insert_texts", expectedFirst: ToolNameInsertText},
		{name: "Case difference", typo: "Delete_Range", expectedFirst: ToolNameDeleteRange},
		{name: "No close matches", typo: "completely_different_tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			similar := registry.findSimilarTools(tt.typo, 3, 5)
			if tt.expectedFirst == "" {
				if len(similar) != 0 {
					t.Errorf("findSimilarTools(%q) = %v; want none", tt.typo, similar)
				}
				return
			}
			if len(similar) == 0 || similar[0] != tt.expectedFirst {
				t.Errorf("findSimilarTools(%q) = %v; want %q first", tt.typo, similar, tt.expectedFirst)
			}
		})
	}
}

func TestFormatToolNotFoundError(t *testing.T) {
	registry := newMockRegistry(nil, ToolNameReadDocument, ToolNameInsertText, ToolNameDeleteRange, ToolNameApplyTextStyle)

	tests := []struct {
		name          string
		toolName      string
		shouldContain []string
	}{
		{"close match", "read_documen", []string{"tool not found: read_documen", ToolNameReadDocument}},
		{"very different", "xyz123", []string{"tool not found: xyz123"}},
		{"manual suggestion", "replace_text", []string{"tool not found: replace_text", ToolNameDeleteRange, ToolNameInsertText, "Delete the old range"}},
		{"manual suggestion with note only", "share_document", []string{"Sharing is not supported"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := registry.formatToolNotFoundError(tt.toolName)
			for _, substr := range tt.shouldContain {
				if !strings.Contains(msg, substr) {
					t.Errorf("formatToolNotFoundError(%q) = %q; should contain %q", tt.toolName, msg, substr)
				}
			}
		})
	}
}

func TestExecuteWithInvalidTool(t *testing.T) {
	registry := newMockRegistry(nil, ToolNameReadDocument)

	call := &ToolCall{ID: "test-123", Name: "read_documnt"}
	result := registry.Execute(context.Background(), call)

	if !strings.Contains(result.Error, ToolNameReadDocument) {
		t.Errorf("Expected error to suggest %q, got: %s", ToolNameReadDocument, result.Error)
	}
	if result.ID != call.ID {
		t.Errorf("Expected result ID %q, got %q", call.ID, result.ID)
	}
}

func TestExecuteFillsMetadata(t *testing.T) {
	registry := newMockRegistry(nil, "mock")
	result := registry.Execute(context.Background(), &ToolCall{ID: "1", Name: "mock"})

	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	md := result.ExecutionMetadata
	if md == nil || md.ToolType != "mock" || md.StartTime == nil || md.EndTime == nil {
		t.Errorf("metadata = %+v", md)
	}
}

func TestReadOnlyAuthorizer(t *testing.T) {
	tests := []struct {
		tool    string
		allowed bool
	}{
		{ToolNameReadDocument, true},
		{ToolNameListComments, true},
		{ToolNameExportDocument, true},
		{ToolNameFindElement, true},
		{ToolNameInsertText, false},
		{ToolNameApplyTextStyle, false},
		{ToolNameDeleteFile, false},
		{ToolNameResolveComment, false},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			mock := &mockTool{name: tt.tool}
			registry := NewRegistry(ReadOnlyAuthorizer{})
			registry.Register(mock)

			result := registry.Execute(context.Background(), &ToolCall{ID: "x", Name: tt.tool})
			if tt.allowed {
				if result.Error != "" || mock.calls != 1 {
					t.Errorf("allowed tool: error %q, calls %d", result.Error, mock.calls)
				}
				return
			}
			if !strings.Contains(result.Error, "read-only") {
				t.Errorf("error = %q; want read-only denial", result.Error)
			}
			if mock.calls != 0 {
				t.Errorf("denied tool executed %d times", mock.calls)
			}
			if result.ExecutionMetadata == nil || result.ExecutionMetadata.ErrorType != "PERMISSION_DENIED" {
				t.Errorf("metadata = %+v", result.ExecutionMetadata)
			}
		})
	}
}

func TestListSpecsSorted(t *testing.T) {
	registry := newMockRegistry(nil, "b_tool", "c_tool", "a_tool")
	registry.RegisterSpec(&ReadDocumentSpec{}, NewReadDocumentFactory(nil, 0))

	specs := registry.ListSpecs()
	var names []string
	for _, s := range specs {
		names = append(names, s.Name())
	}
	want := "a_tool,b_tool,c_tool," + ToolNameReadDocument
	if got := strings.Join(names, ","); got != want {
		t.Errorf("ListSpecs() = %s; want %s", got, want)
	}

	schemas := registry.ToJSONSchema()
	if len(schemas) != 4 {
		t.Fatalf("ToJSONSchema() returned %d entries", len(schemas))
	}
	fn := schemas[3]["function"].(map[string]interface{})
	if fn["name"] != ToolNameReadDocument {
		t.Errorf("last schema = %v", fn["name"])
	}
}

func TestGetParamHelpers(t *testing.T) {
	params := map[string]interface{}{
		"s": "value",
		"f": float64(7),
		"b": true,
		"n": "not a number",
	}
	if got := GetStringParam(params, "s", ""); got != "value" {
		t.Errorf("GetStringParam = %q", got)
	}
	if got := GetStringParam(params, "f", "def"); got != "def" {
		t.Errorf("GetStringParam on number = %q; want default", got)
	}
	if got := GetIntParam(params, "f", 0); got != 7 {
		t.Errorf("GetIntParam = %d", got)
	}
	if got := GetIntParam(params, "n", 3); got != 3 {
		t.Errorf("GetIntParam on string = %d; want default", got)
	}
	if got := GetBoolParam(params, "b", false); !got {
		t.Error("GetBoolParam = false")
	}
}
