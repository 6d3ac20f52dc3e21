// Package client provides an HTTP JSON-RPC client for a local MCP control plane.
// It is a single-shot request/response client: one JSON-RPC request per HTTP POST,
// one JSON object per response body, no streaming and no retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

const (
	// DefaultPort is the TCP port the control plane listens on unless configured otherwise.
	DefaultPort = 31338

	// DefaultTimeout bounds interactive list/call requests.
	DefaultTimeout = 10 * time.Second

	// ProbeTimeout bounds liveness probes issued by the health monitor.
	ProbeTimeout = 5 * time.Second

	mcpPathSuffix = "/mcp"
)

// Client talks JSON-RPC 2.0 over HTTP to a single control plane endpoint.
// It is safe for concurrent use; overlapping requests are correlated by
// their JSON-RPC id, so a response can never be attributed to the wrong call.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client

	nextID atomic.Int64
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the given base URL, eg "http://127.0.0.1:31338".
// The /mcp path is appended by the client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:   baseURL + mcpPathSuffix,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewForPort creates a Client for a control plane on the loopback interface.
func NewForPort(port int, opts ...Option) *Client {
	return New(fmt.Sprintf("http://127.0.0.1:%d", port), opts...)
}

// Endpoint returns the full URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// call performs one JSON-RPC request and returns the decoded response.
// Transport, timeout and parse failures are returned as their respective
// typed errors so callers can branch on the failure class.
func (c *Client) call(ctx context.Context, method string, params any) (*types.JSONRPCResponse, error) {
	id := c.nextID.Add(1)

	reqBody, err := json.Marshal(types.JSONRPCRequest{
		JSONRPC: types.JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	body, err := c.post(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	var resp types.JSONRPCResponse
	if err := json.Unmarshal(bytes.TrimSpace(body), &resp); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("response to %s is not valid JSON: %w", method, err)}
	}

	// A response carrying a foreign id belongs to some other request and must
	// not be attributed to this one.
	if resp.ID != 0 && resp.ID != id {
		return nil, &ParseError{
			Err: fmt.Errorf("response id %d does not match request id %d", resp.ID, id),
		}
	}

	return &resp, nil
}

// post sends the raw request body and accumulates the full response body.
// The configured timeout is enforced by cancelling the in-flight request.
func (c *Client) post(ctx context.Context, reqBody []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", c.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyRequestError(c.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyRequestError(c.endpoint, err)
	}
	return body, nil
}
