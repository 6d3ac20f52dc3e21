package client

import (
	"context"
	"encoding/json"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// ListTools fetches the tool descriptors currently exposed by the control plane.
// The returned slice is never nil. A response that is valid JSON but does not
// carry a result.tools list yields an empty slice, not an error: the server is
// the source of truth for its own catalogue and an unexpected shape is treated
// as "no tools".
func (c *Client) ListTools(ctx context.Context) ([]types.Tool, error) {
	resp, err := c.call(ctx, types.MethodToolsList, struct{}{})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &ApplicationError{Code: resp.Error.Code, Message: resp.Error.Message}
	}

	var result types.ListToolsResult
	if len(resp.Result) > 0 {
		// best effort: an undecodable result payload degrades to an empty list
		_ = json.Unmarshal(resp.Result, &result)
	}
	if result.Tools == nil {
		result.Tools = []types.Tool{}
	}
	return result.Tools, nil
}

// CallTool invokes a named tool with the given arguments and returns the raw
// result payload verbatim. The caller does not interpret the result beyond
// displaying it. A JSON-RPC error object is surfaced as an ApplicationError
// carrying the server's message.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	if args == nil {
		args = map[string]any{}
	}
	params := types.ToolCallParams{Name: name, Arguments: args}

	resp, err := c.call(ctx, types.MethodToolsCall, params)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &ApplicationError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	return resp.Result, nil
}

// Ping issues a lightweight tools/list request and reports only whether any
// HTTP response arrived. A body the client cannot parse still counts as alive;
// only transport and timeout failures mean the server is down.
func (c *Client) Ping(ctx context.Context) error {
	reqBody, err := json.Marshal(types.JSONRPCRequest{
		JSONRPC: types.JSONRPCVersion,
		ID:      c.nextID.Add(1),
		Method:  types.MethodToolsList,
		Params:  struct{}{},
	})
	if err != nil {
		return err
	}
	_, err = c.post(ctx, reqBody)
	return err
}
