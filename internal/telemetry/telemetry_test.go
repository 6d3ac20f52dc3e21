package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	p, err := Init(context.Background(), &Config{ServiceName: "mcpdeck", Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.Equal(t, "mcpdeck", p.ServiceName())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitEnabled(t *testing.T) {
	p, err := Init(context.Background(), &Config{ServiceName: "mcpdeck", Enabled: true})
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	assert.True(t, p.IsEnabled())
	require.NotNil(t, p.Meter)

	metrics, err := NewOtelCustomMetrics(p.Meter)
	require.NoError(t, err)

	// recording must not panic or block
	metrics.RecordToolCall(context.Background(), "add-postgres", ToolCallOutcomeSuccess, 25*time.Millisecond)
	metrics.RecordToolCall(context.Background(), "add-postgres", ToolCallOutcomeError, time.Millisecond)
	metrics.RecordProbeFailure(context.Background())
}

func TestNoopMetrics(t *testing.T) {
	m := NewNoopCustomMetrics()
	m.RecordToolCall(context.Background(), "x", ToolCallOutcomeSuccess, time.Second)
	m.RecordProbeFailure(context.Background())
}
