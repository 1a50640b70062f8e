package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// WrapAsMCP creates an MCP server exposing the toolset's tools. Each
// tool is registered with the low-level API.
func WrapAsMCP(ts Toolset, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    ts.Name(),
		Version: version,
	}, nil)

	for _, tool := range ts.Tools() {
		toolName := tool.Name
		srv.AddTool(
			&mcp.Tool{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.Parameters,
			},
			makeHandler(ts, toolName),
		)
	}

	return srv
}

// makeHandler creates a ToolHandler that delegates to Toolset.Call.
// Domain failures are already rendered as text by the toolset; only
// infrastructure failures surface as IsError.
func makeHandler(ts Toolset, toolName string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]interface{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return &mcp.CallToolResult{
					Content: []mcp.Content{
						&mcp.TextContent{Text: fmt.Sprintf("invalid arguments: %v", err)},
					},
					IsError: true,
				}, nil
			}
		}
		if args == nil {
			args = make(map[string]interface{})
		}

		text, err := ts.Call(ctx, toolName, args)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
				},
				IsError: true,
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
		}, nil
	}
}
