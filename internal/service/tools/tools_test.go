package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdeck/mcpdeck/internal/args"
	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// fakeCaller counts calls so tests can assert that validation failures never
// reach the network.
type fakeCaller struct {
	listCalls int
	callCalls int

	tools   []types.Tool
	listErr error

	result   json.RawMessage
	callErr  error
	gotName  string
	gotArgs  map[string]any
}

func (f *fakeCaller) ListTools(ctx context.Context) ([]types.Tool, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tools, nil
}

func (f *fakeCaller) CallTool(ctx context.Context, name string, arguments map[string]any) (json.RawMessage, error) {
	f.callCalls++
	f.gotName = name
	f.gotArgs = arguments
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.result, nil
}

type fakeRecorder struct {
	runs []struct {
		name    string
		success bool
	}
}

func (f *fakeRecorder) RecordToolRun(toolName string, arguments map[string]any, success bool) error {
	f.runs = append(f.runs, struct {
		name    string
		success bool
	}{toolName, success})
	return nil
}

func TestListToolsPublishesFullList(t *testing.T) {
	caller := &fakeCaller{tools: []types.Tool{{Name: "add-postgres"}, {Name: "add-frontend"}}}
	rec := &sink.Recorder{}
	svc := NewService(caller, rec, nil, nil)

	tools, err := svc.ListTools(context.Background())
	require.NoError(t, err)
	assert.Len(t, tools, 2)

	require.Len(t, rec.Tools, 1)
	assert.Equal(t, caller.tools, rec.Tools[0].Tools)
	assert.Empty(t, rec.Tools[0].ErrMsg)
}

func TestListToolsPublishesEmptyListOnFailure(t *testing.T) {
	caller := &fakeCaller{listErr: errors.New("connection refused")}
	rec := &sink.Recorder{}
	svc := NewService(caller, rec, nil, nil)

	_, err := svc.ListTools(context.Background())
	require.Error(t, err)

	// never a partial publish: an empty list plus the error message
	require.Len(t, rec.Tools, 1)
	assert.Empty(t, rec.Tools[0].Tools)
	assert.NotNil(t, rec.Tools[0].Tools)
	assert.Contains(t, rec.Tools[0].ErrMsg, "connection refused")
	require.Len(t, rec.ErrorLogs(), 1)
}

func TestInvokeTool(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{"service": "postgres"}`)}
	rec := &sink.Recorder{}
	store := &fakeRecorder{}
	svc := NewService(caller, rec, store, nil)

	tool := types.Tool{
		Name: "add-postgres",
		InputSchema: types.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"version": map[string]any{"type": "string", "default": "16"},
				"port":    map[string]any{"type": "integer", "default": float64(5432)},
			},
		},
	}

	result, err := svc.InvokeTool(context.Background(), tool, map[string]string{"port": "5433"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"service": "postgres"}`, string(result))

	assert.Equal(t, "add-postgres", caller.gotName)
	assert.Equal(t, map[string]any{"version": "16", "port": int64(5433)}, caller.gotArgs)

	// success is logged verbatim and recorded
	require.NotEmpty(t, rec.Logs)
	last := rec.Logs[len(rec.Logs)-1]
	assert.Equal(t, types.SeveritySuccess, last.Severity)
	assert.Equal(t, `{"service": "postgres"}`, last.Message)

	require.Len(t, store.runs, 1)
	assert.True(t, store.runs[0].success)
}

func TestInvokeToolValidationFailureNeverHitsNetwork(t *testing.T) {
	caller := &fakeCaller{}
	rec := &sink.Recorder{}
	svc := NewService(caller, rec, nil, nil)

	tool := types.Tool{
		Name: "add-postgres",
		InputSchema: types.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"port": map[string]any{"type": "integer"}},
		},
	}

	_, err := svc.InvokeTool(context.Background(), tool, map[string]string{"port": "fifty"})
	require.Error(t, err)

	var valErr *args.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "port", valErr.Param)

	assert.Zero(t, caller.callCalls)
	require.Len(t, rec.ErrorLogs(), 1)
}

func TestInvokeToolServerError(t *testing.T) {
	caller := &fakeCaller{callErr: errors.New("service \"postgres\" already exists")}
	rec := &sink.Recorder{}
	store := &fakeRecorder{}
	svc := NewService(caller, rec, store, nil)

	_, err := svc.InvokeTool(context.Background(), types.Tool{Name: "add-postgres"}, nil)
	require.Error(t, err)

	errs := rec.ErrorLogs()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "tool add-postgres failed")

	// the failed run is still recorded, marked unsuccessful
	require.Len(t, store.runs, 1)
	assert.False(t, store.runs[0].success)
}
