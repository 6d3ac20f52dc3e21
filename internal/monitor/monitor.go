// Package monitor implements liveness monitoring of the local MCP control plane.
//
// The monitor is a two-state machine: Idle and Monitoring. While monitoring it
// probes the control plane immediately and then on a fixed period. The first
// failed probe logs an error, forces the "server running" checklist step back
// to pending and returns the monitor to Idle. It never restarts itself: the
// only recovery action is the user restarting the server, which is expected
// to call Start again.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcpdeck/mcpdeck/client"
	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/internal/telemetry"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// DefaultInterval is the probe period while monitoring.
const DefaultInterval = 2 * time.Second

// Prober issues one liveness probe. Any nil return means the server answered,
// even if the answer was garbage. *client.Client satisfies this.
type Prober interface {
	Ping(ctx context.Context) error
}

var _ Prober = (*client.Client)(nil)

// Monitor owns the probe loop. Construct one per process lifetime and share
// it by reference; there is deliberately no package-level instance.
type Monitor struct {
	prober       Prober
	sink         sink.Sink
	metrics      telemetry.CustomMetrics
	interval     time.Duration
	probeTimeout time.Duration

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithInterval overrides the probe period.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// WithProbeTimeout overrides the per-probe deadline.
func WithProbeTimeout(d time.Duration) Option {
	return func(m *Monitor) { m.probeTimeout = d }
}

// WithMetrics records probe failures on the given metrics implementation.
func WithMetrics(metrics telemetry.CustomMetrics) Option {
	return func(m *Monitor) { m.metrics = metrics }
}

// New creates an Idle monitor that probes through p and reports through s.
func New(p Prober, s sink.Sink, opts ...Option) *Monitor {
	m := &Monitor{
		prober:       p,
		sink:         s,
		metrics:      telemetry.NewNoopCustomMetrics(),
		interval:     DefaultInterval,
		probeTimeout: client.ProbeTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start transitions the monitor from Idle to Monitoring and launches the
// probe loop. Calling Start while already monitoring is a no-op: there is
// never more than one loop running.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.active = true
	m.cancel = cancel
	m.done = make(chan struct{})

	m.sink.LogLine("health monitoring started", types.SeverityInfo)
	go m.run(ctx, m.done)
}

// Stop transitions the monitor back to Idle and cancels the probe loop.
// A probe already in flight is abandoned; its outcome is discarded.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return
	}
	m.active = false
	m.cancel()
	m.sink.LogLine("health monitoring stopped", types.SeverityInfo)
}

// Active reports whether the monitor is in the Monitoring state.
func (m *Monitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Wait blocks until the current probe loop exits. It returns immediately if
// the monitor never started. Intended for orderly shutdown and tests.
func (m *Monitor) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	// probe once immediately, then on every tick
	if !m.probe(ctx) {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.probe(ctx) {
				return
			}
		}
	}
}

// probe runs one liveness check. It returns false when monitoring must end,
// either because the server is down or because Stop raced with the probe.
func (m *Monitor) probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	err := m.prober.Ping(probeCtx)
	cancel()

	if err == nil {
		return true
	}
	if ctx.Err() != nil {
		// Stop was called while the probe was in flight; its failure is
		// ours, not the server's, and must not resurrect any state changes.
		return false
	}
	m.fail(err)
	return false
}

// fail performs the Monitoring -> Idle transition after a failed probe.
// It does nothing if the monitor was already stopped by the time the
// failure landed.
func (m *Monitor) fail(err error) {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.active = false
	m.cancel()
	m.mu.Unlock()

	m.metrics.RecordProbeFailure(context.Background())
	m.sink.LogLine(fmt.Sprintf("control plane is not responding: %v", err), types.SeverityError)
	m.sink.SetStepStatus(types.StepServerRunning, types.StepPending)
}
