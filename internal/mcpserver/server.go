// Package mcpserver exposes a tools.Registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codefionn/docsmcp/internal/logger"
	"github.com/codefionn/docsmcp/internal/tools"
)

const serverName = "docsmcp"

const instructions = "Google Docs and Drive tools. Document positions are 1-based indices " +
	"as reported by read_document with format=json; ranges are half-open [start_index, end_index). " +
	"Prefer text_to_find with match_instance over raw indices when styling: indices shift after every edit. " +
	"Use list_documents or search_documents to find a document_id."

// Server bridges registry tools to MCP clients.
type Server struct {
	reg     *tools.Registry
	mcp     *server.MCPServer
	timeout time.Duration
	log     *logger.Logger
}

// New builds an MCP server advertising every tool in reg. timeout bounds a
// single tool call; zero means no bound.
func New(reg *tools.Registry, version string, timeout time.Duration) (*Server, error) {
	s := &Server{
		reg:     reg,
		timeout: timeout,
		log:     logger.Global().WithPrefix("mcp"),
	}

	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest) {
		s.log.Debug("call %s (id %v)", message.Params.Name, id)
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		s.log.Warn("%s (id %v): %v", method, id, err)
	})

	s.mcp = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithHooks(hooks),
		server.WithInstructions(instructions),
	)

	serverTools, err := s.buildTools()
	if err != nil {
		return nil, err
	}
	s.mcp.AddTools(serverTools...)
	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) buildTools() ([]server.ServerTool, error) {
	specs := s.reg.ListSpecs()
	out := make([]server.ServerTool, 0, len(specs))
	for _, spec := range specs {
		schema, err := json.Marshal(spec.Parameters())
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", spec.Name(), err)
		}
		tool := mcp.NewToolWithRawSchema(spec.Name(), spec.Description(), schema)
		tool.Annotations.Title = toolTitle(spec.Name())
		tool.Annotations.ReadOnlyHint = mcp.ToBoolPtr(!tools.IsMutating(spec.Name()))
		tool.Annotations.DestructiveHint = mcp.ToBoolPtr(tools.IsDestructive(spec.Name()))
		tool.Annotations.OpenWorldHint = mcp.ToBoolPtr(true)
		out = append(out, server.ServerTool{Tool: tool, Handler: s.handler(spec.Name())})
	}
	return out, nil
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		res := s.reg.Execute(ctx, &tools.ToolCall{
			Name:       name,
			Parameters: req.GetArguments(),
		})
		if md := res.ExecutionMetadata; md != nil {
			s.log.Debug("%s finished in %dms %s", name, md.DurationMs, md.ErrorType)
		}
		return toCallToolResult(res), nil
	}
}

// toCallToolResult renders a registry result for the client. Failures are
// tool errors, never protocol errors, so the model can read and correct them.
func toCallToolResult(res *tools.ToolResult) *mcp.CallToolResult {
	if res.Error != "" {
		msg := res.Error
		if md := res.ExecutionMetadata; md != nil && md.ErrorType != "" {
			msg = fmt.Sprintf("%s [%s]", msg, md.ErrorType)
		}
		return mcp.NewToolResultError(msg)
	}
	switch v := res.Result.(type) {
	case nil:
		return mcp.NewToolResultText("")
	case string:
		return mcp.NewToolResultText(v)
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return mcp.NewToolResultError("encode result: " + err.Error())
		}
		return mcp.NewToolResultText(string(data))
	}
}

// toolTitle turns "apply_text_style" into "Apply text style".
func toolTitle(name string) string {
	title := strings.ReplaceAll(name, "_", " ")
	if title == "" {
		return title
	}
	return strings.ToUpper(title[:1]) + title[1:]
}

// Serve speaks MCP over in and out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(logger.StdLogger(s.log, slog.LevelError))
	s.log.Info("serving %d tools over stdio", len(s.reg.ListSpecs()))
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
