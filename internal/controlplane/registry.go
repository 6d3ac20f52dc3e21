package controlplane

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// ToolHandler executes one tool invocation and returns its result payload.
type ToolHandler func(ctx context.Context, arguments map[string]any) (any, error)

// ToolRegistry holds the tools the control plane exposes, in registration order.
type ToolRegistry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]registeredTool
}

type registeredTool struct {
	tool    mcp.Tool
	handler ToolHandler
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]registeredTool)}
}

// Register adds a tool. Registering the same name twice overwrites the
// handler but keeps the original listing position.
func (r *ToolRegistry) Register(tool mcp.Tool, handler ToolHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = registeredTool{tool: tool, handler: handler}
}

// List returns the tool descriptors in registration order, converted to the
// wire shape served by tools/list.
func (r *ToolRegistry) List() []types.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Tool, 0, len(r.order))
	for _, name := range r.order {
		reg := r.tools[name]
		out = append(out, types.Tool{
			Name:        reg.tool.Name,
			Description: reg.tool.Description,
			InputSchema: types.ToolInputSchema{
				Type:       reg.tool.InputSchema.Type,
				Properties: reg.tool.InputSchema.Properties,
				Required:   reg.tool.InputSchema.Required,
			},
		})
	}
	return out
}

// Call dispatches one tools/call request to the named tool.
func (r *ToolRegistry) Call(ctx context.Context, name string, arguments map[string]any) (any, error) {
	r.mu.RLock()
	reg, exists := r.tools[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return reg.handler(ctx, arguments)
}
