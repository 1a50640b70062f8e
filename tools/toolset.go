// Package tools defines the callable tool surface and its hosting
// adapters (MCP over stdio and streamable HTTP).
package tools

import (
	"context"
	"fmt"
)

// Tool describes a single callable capability.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema
}

// Toolset is a named group of tools invokable by name. All results are
// human-readable text: domain failures come back as ordinary text with
// a manual fallback, never as errors. Call returns an error only for
// infrastructure problems (unknown tool, malformed arguments).
type Toolset interface {
	// Name returns the toolset identifier (e.g. "kurt").
	Name() string

	// Tools returns the list of tools this toolset provides.
	Tools() []Tool

	// Call invokes a tool by name with JSON-compatible arguments.
	Call(ctx context.Context, toolName string, args map[string]interface{}) (string, error)
}

// ErrUnknownTool is returned when a tool name is not recognized.
type ErrUnknownTool struct {
	Toolset string
	Tool    string
}

func (e *ErrUnknownTool) Error() string {
	return fmt.Sprintf("toolset %q has no tool %q", e.Toolset, e.Tool)
}
