package tools

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Handler executes a tool. The returned payload is serialized into the
// result envelope; errors become runtime failures in the envelope, they
// never propagate past the executor.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Param describes a single tool parameter. Type is a JSON Schema primitive
// type name ("string", "number", "integer", "boolean").
type Param struct {
	Type        string
	Description string
	Required    bool
}

// Spec declares a tool: its wire schema plus the handler that backs it.
type Spec struct {
	Name        string
	Description string
	Params      map[string]Param

	// ShellParam names the argument that carries a shell command line.
	// When set, the executor checks the argument's first token against
	// the command allow-list before the handler runs.
	ShellParam string

	Handler Handler
}

// MCPTool converts the spec into the neutral schema type handed to
// providers, which each convert it to their SDK's tool format.
func (s Spec) MCPTool() mcptypes.Tool {
	properties := make(map[string]any, len(s.Params))
	var required []string
	for name, p := range s.Params {
		properties[name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, name)
		}
	}

	return mcptypes.Tool{
		Name:        s.Name,
		Description: s.Description,
		InputSchema: mcptypes.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}
