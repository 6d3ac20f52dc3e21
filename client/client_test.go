package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// rpcHandler decodes the JSON-RPC request and lets the test craft a response
// for it. The raw body is also handed over so tests can assert on the wire shape.
func rpcHandler(t *testing.T, respond func(req types.JSONRPCRequest, raw []byte) any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req types.JSONRPCRequest
		require.NoError(t, json.Unmarshal(raw, &req))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(respond(req, raw)))
	}
}

func TestListTools(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		var req types.JSONRPCRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		gotMethod = req.Method

		resp := types.JSONRPCResponse{
			JSONRPC: types.JSONRPCVersion,
			ID:      1,
			Result: json.RawMessage(`{"tools": [
				{"name": "add-postgres", "description": "Add a postgres service"},
				{"name": "add-frontend"}
			]}`),
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	c := New(ts.URL)
	tools, err := c.ListTools(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/mcp", gotPath)
	assert.Equal(t, types.MethodToolsList, gotMethod)

	// order of the server's catalogue is preserved
	require.Len(t, tools, 2)
	assert.Equal(t, "add-postgres", tools[0].Name)
	assert.Equal(t, "Add a postgres service", tools[0].Description)
	assert.Equal(t, "add-frontend", tools[1].Name)
}

func TestListToolsEmptyAndMalformedResult(t *testing.T) {
	tests := []struct {
		name   string
		result string
	}{
		{"missing result", ""},
		{"empty object", `{}`},
		{"tools not a list", `{"tools": "oops"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(rpcHandler(t, func(req types.JSONRPCRequest, raw []byte) any {
				resp := types.JSONRPCResponse{JSONRPC: types.JSONRPCVersion, ID: 1}
				if tc.result != "" {
					resp.Result = json.RawMessage(tc.result)
				}
				return resp
			}))
			defer ts.Close()

			tools, err := New(ts.URL).ListTools(context.Background())
			require.NoError(t, err)
			require.NotNil(t, tools)
			assert.Empty(t, tools)
		})
	}
}

func TestListToolsApplicationError(t *testing.T) {
	ts := httptest.NewServer(rpcHandler(t, func(req types.JSONRPCRequest, raw []byte) any {
		return types.JSONRPCResponse{
			JSONRPC: types.JSONRPCVersion,
			ID:      1,
			Error:   &types.JSONRPCError{Code: -32603, Message: "boom"},
		}
	}))
	defer ts.Close()

	_, err := New(ts.URL).ListTools(context.Background())
	require.Error(t, err)

	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, -32603, appErr.Code)
	assert.Equal(t, "boom", appErr.Error())
}

func TestCallTool(t *testing.T) {
	var gotParams types.ToolCallParams
	ts := httptest.NewServer(rpcHandler(t, func(req types.JSONRPCRequest, raw []byte) any {
		var envelope struct {
			Params types.ToolCallParams `json:"params"`
		}
		require.NoError(t, json.Unmarshal(raw, &envelope))
		gotParams = envelope.Params

		return types.JSONRPCResponse{
			JSONRPC: types.JSONRPCVersion,
			ID:      1,
			Result:  json.RawMessage(`{"content": [{"type": "text", "text": "done"}]}`),
		}
	}))
	defer ts.Close()

	result, err := New(ts.URL).CallTool(context.Background(), "add-postgres", map[string]any{
		"version": "16",
	})
	require.NoError(t, err)

	assert.Equal(t, "add-postgres", gotParams.Name)
	assert.Equal(t, map[string]any{"version": "16"}, gotParams.Arguments)
	assert.JSONEq(t, `{"content": [{"type": "text", "text": "done"}]}`, string(result))
}

func TestCallToolNilArguments(t *testing.T) {
	var rawReq []byte
	ts := httptest.NewServer(rpcHandler(t, func(req types.JSONRPCRequest, raw []byte) any {
		rawReq = raw
		return types.JSONRPCResponse{JSONRPC: types.JSONRPCVersion, ID: 1, Result: json.RawMessage(`{}`)}
	}))
	defer ts.Close()

	_, err := New(ts.URL).CallTool(context.Background(), "add-compose-include", nil)
	require.NoError(t, err)

	// nil arguments are sent as an empty object, never as null
	assert.Contains(t, string(rawReq), `"arguments":{}`)
}

func TestCallToolApplicationError(t *testing.T) {
	ts := httptest.NewServer(rpcHandler(t, func(req types.JSONRPCRequest, raw []byte) any {
		return types.JSONRPCResponse{
			JSONRPC: types.JSONRPCVersion,
			ID:      1,
			Error:   &types.JSONRPCError{Code: -32603, Message: "service \"db\" already exists"},
		}
	}))
	defer ts.Close()

	_, err := New(ts.URL).CallTool(context.Background(), "add-postgres", nil)
	require.Error(t, err)

	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "service \"db\" already exists", appErr.Message)
}

func TestMalformedResponseBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer ts.Close()

	_, err := New(ts.URL).ListTools(context.Background())
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestResponseIDMismatch(t *testing.T) {
	ts := httptest.NewServer(rpcHandler(t, func(req types.JSONRPCRequest, raw []byte) any {
		return types.JSONRPCResponse{
			JSONRPC: types.JSONRPCVersion,
			ID:      9999,
			Result:  json.RawMessage(`{"tools": []}`),
		}
	}))
	defer ts.Close()

	_, err := New(ts.URL).ListTools(context.Background())
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "does not match request id")
}

func TestRequestIDsIncrement(t *testing.T) {
	var ids []int64
	ts := httptest.NewServer(rpcHandler(t, func(req types.JSONRPCRequest, raw []byte) any {
		ids = append(ids, req.ID)
		return types.JSONRPCResponse{JSONRPC: types.JSONRPCVersion, ID: req.ID, Result: json.RawMessage(`{"tools": []}`)}
	}))
	defer ts.Close()

	c := New(ts.URL)
	for i := 0; i < 3; i++ {
		_, err := c.ListTools(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	c := New(ts.URL, WithTimeout(50*time.Millisecond))
	_, err := c.ListTools(context.Background())
	require.Error(t, err)

	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestTransportError(t *testing.T) {
	// a server that is immediately closed leaves nothing listening on its port
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	_, err := New(ts.URL).ListTools(context.Background())
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "could not connect to")
}

func TestPing(t *testing.T) {
	t.Run("garbage body still counts as alive", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>nope</html>"))
		}))
		defer ts.Close()

		assert.NoError(t, New(ts.URL).Ping(context.Background()))
	})

	t.Run("connection refused is down", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ts.Close()

		err := New(ts.URL).Ping(context.Background())
		var transportErr *TransportError
		assert.ErrorAs(t, err, &transportErr)
	})

	t.Run("timeout is down", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		defer ts.Close()

		err := New(ts.URL, WithTimeout(50*time.Millisecond)).Ping(context.Background())
		var timeoutErr *TimeoutError
		assert.ErrorAs(t, err, &timeoutErr)
	})
}

func TestNewForPort(t *testing.T) {
	c := NewForPort(31338)
	assert.Equal(t, "http://127.0.0.1:31338/mcp", c.Endpoint())
}
