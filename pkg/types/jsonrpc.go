// Package types contains the wire-level data structures exchanged between
// mcpdeck and a local MCP control plane, plus the enums shared with UI sinks.
package types

import "encoding/json"

// JSONRPCVersion is the protocol version sent on every request.
const JSONRPCVersion = "2.0"

// JSON-RPC method names understood by the control plane.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// JSONRPCRequest is a single JSON-RPC 2.0 request sent over HTTP POST.
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// ToolCallParams is the params object for a tools/call request.
type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// JSONRPCError is the error object of a failed JSON-RPC response.
type JSONRPCError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// JSONRPCResponse is a single JSON-RPC 2.0 response body.
// Result is kept raw so callers can decode it into a method-specific shape,
// or pass it through verbatim.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// ListToolsResult is the result payload of a tools/list response.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}
