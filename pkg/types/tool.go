package types

// ToolInputSchema defines the schema for the input parameters of a tool.
// Properties map a parameter name to its JSON-Schema-like declaration
// (type, description, default).
type ToolInputSchema struct {
	Type       string         `json:"type,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Tool represents a remote procedure exposed by the MCP control plane.
// It is treated as opaque metadata: rendered, and consulted during argument
// coercion, but never validated against by the client beyond its declared types.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// PropertySchema extracts the declaration of a single parameter from the
// tool's input schema. ok is false when the parameter is not declared or
// its declaration is not an object.
func (t Tool) PropertySchema(name string) (map[string]any, bool) {
	raw, exists := t.InputSchema.Properties[name]
	if !exists {
		return nil, false
	}
	prop, isMap := raw.(map[string]any)
	return prop, isMap
}
