package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportError indicates the connection to the control plane could not be
// opened or broke mid-request. It usually means the server process is not running.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not connect to %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError indicates the client-enforced deadline elapsed before a
// response arrived. The in-flight request is aborted, never left dangling.
type TimeoutError struct {
	Endpoint string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out: %v", e.Endpoint, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ParseError indicates the response body was not a valid JSON-RPC response,
// or carried an id belonging to a different request.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// ApplicationError is a JSON-RPC error object reported by the server.
// It is distinct from transport failures: the server is alive and responded,
// it just rejected the call.
type ApplicationError struct {
	Code    int
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// classifyRequestError maps an http.Client failure to the client error taxonomy.
func classifyRequestError(endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Endpoint: endpoint, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Endpoint: endpoint, Err: err}
	}
	return &TransportError{Endpoint: endpoint, Err: err}
}
