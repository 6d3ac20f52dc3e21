// Package tools implements the publish layer between the MCP client and the
// UI sink: list results and invocation outcomes are turned into sink events,
// and invocations are recorded in the state store.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcpdeck/mcpdeck/client"
	"github.com/mcpdeck/mcpdeck/internal/args"
	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/internal/telemetry"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// Caller is the slice of the MCP client this service needs.
type Caller interface {
	ListTools(ctx context.Context) ([]types.Tool, error)
	CallTool(ctx context.Context, name string, arguments map[string]any) (json.RawMessage, error)
}

var _ Caller = (*client.Client)(nil)

// RunRecorder persists tool-run history. *state.Service satisfies this.
type RunRecorder interface {
	RecordToolRun(toolName string, arguments map[string]any, success bool) error
}

// Service publishes tool listings and invocation results.
type Service struct {
	client  Caller
	sink    sink.Sink
	store   RunRecorder
	metrics telemetry.CustomMetrics
}

// NewService creates the tool service. store may be nil when run history is
// not persisted; metrics may be nil, in which case a no-op is used.
func NewService(c Caller, s sink.Sink, store RunRecorder, metrics telemetry.CustomMetrics) *Service {
	if metrics == nil {
		metrics = telemetry.NewNoopCustomMetrics()
	}
	return &Service{client: c, sink: s, store: store, metrics: metrics}
}

// ListTools fetches the tool catalogue and publishes it to the sink.
// Exactly one of two things is published: the full list, or an empty list
// together with the error message. The fetched list is also returned so
// callers can render or index it.
func (s *Service) ListTools(ctx context.Context) ([]types.Tool, error) {
	tools, err := s.client.ListTools(ctx)
	if err != nil {
		s.sink.LogLine(fmt.Sprintf("failed to list tools: %v", err), types.SeverityError)
		s.sink.PublishTools([]types.Tool{}, err.Error())
		return nil, err
	}

	s.sink.PublishTools(tools, "")
	return tools, nil
}

// InvokeTool coerces the raw inputs against the tool's schema and invokes it.
// A coercion failure aborts locally: no request is sent and the validation
// error names the offending parameter. On success the raw result payload is
// logged verbatim; on a server-side error only an error line is logged and
// prior UI state is left untouched.
func (s *Service) InvokeTool(ctx context.Context, tool types.Tool, inputs map[string]string) (json.RawMessage, error) {
	arguments, err := args.Build(tool.InputSchema, inputs)
	if err != nil {
		s.sink.LogLine(err.Error(), types.SeverityError)
		return nil, err
	}

	started := time.Now()
	result, err := s.client.CallTool(ctx, tool.Name, arguments)

	outcome := telemetry.ToolCallOutcomeSuccess
	if err != nil {
		outcome = telemetry.ToolCallOutcomeError
	}
	s.metrics.RecordToolCall(ctx, tool.Name, outcome, time.Since(started))

	if s.store != nil {
		// run history is presentational; a failure to record never fails the call
		_ = s.store.RecordToolRun(tool.Name, arguments, err == nil)
	}

	if err != nil {
		s.sink.LogLine(fmt.Sprintf("tool %s failed: %v", tool.Name, err), types.SeverityError)
		return nil, err
	}

	s.sink.LogLine(string(result), types.SeveritySuccess)
	return result, nil
}
