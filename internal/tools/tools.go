package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codefionn/docsmcp/internal/docerr"
)

// ToolSpec represents the static specification of a tool (name, description, parameters).
// It is used for schema generation and does not require any runtime dependencies.
type ToolSpec interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
}

// ToolExecutor handles the actual execution of a tool with specific runtime dependencies.
type ToolExecutor interface {
	Execute(ctx context.Context, params map[string]interface{}) *ToolResult
}

// Tool combines ToolSpec and ToolExecutor for tools whose spec and
// dependencies live on one struct.
type Tool interface {
	ToolSpec
	ToolExecutor
}

// ToolFactory creates tool executors with specific runtime dependencies.
// The factory receives the registry so executors can reach other tools.
//
// Example:
//
//	func NewReadDocumentFactory(editor *gdocs.Editor, maxLength int) ToolFactory {
//	    return func(reg *Registry) ToolExecutor {
//	        return NewReadDocumentExecutor(editor, maxLength)
//	    }
//	}
type ToolFactory func(registry *Registry) ToolExecutor

// ToolCall represents a tool invocation from the client
type ToolCall struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result"`
	Error  string      `json:"error,omitempty"`

	ExecutionMetadata *ExecutionMetadata `json:"execution_metadata,omitempty"`
}

// ExecutionMetadata captures detailed information about tool execution
type ExecutionMetadata struct {
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	DurationMs int64      `json:"duration_ms,omitempty"`

	ToolType   string `json:"tool_type,omitempty"`
	DocumentID string `json:"document_id,omitempty"`

	// ErrorType is the docerr kind of a failure, e.g. "INVALID_RANGE".
	ErrorType string `json:"error_type,omitempty"`
}

type registryEntry struct {
	spec     ToolSpec
	executor ToolExecutor
}

// Registry manages available tools
type Registry struct {
	entries    map[string]*registryEntry
	authorizer Authorizer
}

// NewRegistry creates a new tool registry with an optional authorizer
func NewRegistry(authorizer Authorizer) *Registry {
	return &Registry{
		entries:    make(map[string]*registryEntry),
		authorizer: authorizer,
	}
}

// Register adds a tool whose spec and executor are the same value.
func (r *Registry) Register(tool Tool) {
	r.entries[tool.Name()] = &registryEntry{spec: tool, executor: tool}
}

// RegisterSpec adds a tool spec with a factory to the registry
func (r *Registry) RegisterSpec(spec ToolSpec, factory ToolFactory) {
	r.entries[spec.Name()] = &registryEntry{
		spec:     spec,
		executor: factory(r),
	}
}

// GetExecutor retrieves a tool executor by name
func (r *Registry) GetExecutor(name string) (ToolExecutor, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.executor, true
}

// ListSpecs returns all registered tool specs ordered by name
func (r *Registry) ListSpecs() []ToolSpec {
	result := make([]ToolSpec, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, entry.spec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Execute executes a tool call
func (r *Registry) Execute(ctx context.Context, call *ToolCall) *ToolResult {
	entry, ok := r.entries[call.Name]
	if !ok {
		return &ToolResult{
			ID:    call.ID,
			Error: r.formatToolNotFoundError(call.Name),
		}
	}

	if entry.executor == nil {
		return &ToolResult{
			ID:    call.ID,
			Error: "tool executor not available: " + call.Name,
		}
	}

	if r.authorizer != nil {
		decision, err := r.authorizer.Authorize(ctx, call.Name, call.Parameters)
		if err != nil {
			return &ToolResult{
				ID:    call.ID,
				Error: "authorization error: " + err.Error(),
			}
		}
		if decision != nil && !decision.Allowed {
			return &ToolResult{
				ID:    call.ID,
				Error: decision.Reason,
				ExecutionMetadata: &ExecutionMetadata{
					ToolType:  call.Name,
					ErrorType: string(docerr.KindPermissionDenied),
				},
			}
		}
	}

	if call.Parameters == nil {
		call.Parameters = map[string]interface{}{}
	}

	start := time.Now()
	result := entry.executor.Execute(ctx, call.Parameters)
	if result == nil {
		return &ToolResult{
			ID:    call.ID,
			Error: "tool returned nil result",
		}
	}
	end := time.Now()

	result.ID = call.ID
	if result.ExecutionMetadata == nil {
		result.ExecutionMetadata = &ExecutionMetadata{}
	}
	md := result.ExecutionMetadata
	md.StartTime = &start
	md.EndTime = &end
	md.DurationMs = end.Sub(start).Milliseconds()
	md.ToolType = call.Name
	return result
}

// ToJSONSchema converts tools to JSON schema format
func (r *Registry) ToJSONSchema() []map[string]interface{} {
	specs := r.ListSpecs()
	schemas := make([]map[string]interface{}, 0, len(specs))
	for _, spec := range specs {
		schemas = append(schemas, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        spec.Name(),
				"description": spec.Description(),
				"parameters":  spec.Parameters(),
			},
		})
	}
	return schemas
}

// manualSuggestions maps names clients commonly guess to the tools that do
// the job.
var manualSuggestions = map[string]struct {
	tools []string
	note  string
}{
	"format_text":       {tools: []string{ToolNameApplyTextStyle}},
	"bold_text":         {tools: []string{ToolNameApplyTextStyle}, note: "Pass style {\"bold\": true}."},
	"set_heading":       {tools: []string{ToolNameApplyParagraphStyle}, note: "Use namedStyleType, e.g. HEADING_1."},
	"update_document":   {tools: []string{ToolNameInsertText, ToolNameDeleteRange}, note: "Edits are expressed as inserts and deletions at native indices."},
	"replace_text":      {tools: []string{ToolNameDeleteRange, ToolNameInsertText}, note: "Delete the old range, then insert at its start index."},
	"get_document":      {tools: []string{ToolNameReadDocument}},
	"search_text":       {tools: []string{ToolNameApplyTextStyle, ToolNameReadDocument}, note: "Text search is available through text_to_find targets."},
	"upload_document":   {tools: []string{ToolNameCreateDocument}, note: "Pass the content as initial_content."},
	"comment":           {tools: []string{ToolNameAddComment, ToolNameListComments}},
	"share_document":    {note: "Sharing is not supported; change permissions in Google Drive."},
	"download_document": {tools: []string{ToolNameExportDocument}},
}

// formatToolNotFoundError builds the error for an unknown tool, listing
// registered tools with similar names.
func (r *Registry) formatToolNotFoundError(name string) string {
	var b strings.Builder
	b.WriteString("tool not found: ")
	b.WriteString(name)

	if manual, ok := manualSuggestions[name]; ok {
		var available []string
		for _, t := range manual.tools {
			if _, registered := r.entries[t]; registered {
				available = append(available, t)
			}
		}
		if len(available) > 0 {
			fmt.Fprintf(&b, ". Try: %s", strings.Join(available, ", "))
		}
		if manual.note != "" {
			b.WriteString(". ")
			b.WriteString(manual.note)
		}
		return b.String()
	}

	if similar := r.findSimilarTools(name, 3, 5); len(similar) > 0 {
		fmt.Fprintf(&b, ". Did you mean: %s?", strings.Join(similar, ", "))
	}
	return b.String()
}

// findSimilarTools returns up to maxSuggestions registered names within
// maxDistance edits of name, closest first.
func (r *Registry) findSimilarTools(name string, maxSuggestions, maxDistance int) []string {
	type candidate struct {
		name     string
		distance int
	}
	var candidates []candidate
	for registered := range r.entries {
		d := levenshteinDistance(strings.ToLower(name), strings.ToLower(registered))
		if d <= maxDistance {
			candidates = append(candidates, candidate{registered, d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

func levenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Helper function to get string parameter
func GetStringParam(params map[string]interface{}, key string, defaultVal string) string {
	if val, ok := params[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// Helper function to get int parameter
func GetIntParam(params map[string]interface{}, key string, defaultVal int) int {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case json.Number:
			if i, err := v.Int64(); err == nil {
				return int(i)
			}
		}
	}
	return defaultVal
}

// Helper function to get bool parameter
func GetBoolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if val, ok := params[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultVal
}
