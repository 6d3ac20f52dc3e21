package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// fakeProber fails every probe after failAfter successful ones.
type fakeProber struct {
	calls     atomic.Int64
	failAfter int64
	err       error
}

func (p *fakeProber) Ping(ctx context.Context) error {
	n := p.calls.Add(1)
	if p.err != nil && n > p.failAfter {
		return p.err
	}
	return nil
}

// blockingProber blocks until its context is cancelled, then returns the
// context error. Used to exercise the Stop-during-probe race.
type blockingProber struct {
	started chan struct{}
}

func (p *blockingProber) Ping(ctx context.Context) error {
	close(p.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestStartIsIdempotent(t *testing.T) {
	rec := &sink.Recorder{}
	m := New(&fakeProber{}, rec, WithInterval(10*time.Millisecond))

	m.Start()
	m.Start()
	assert.True(t, m.Active())

	m.Stop()
	m.Wait()
	assert.False(t, m.Active())

	// a second Start would have logged a second "started" line
	var started int
	for _, l := range rec.Logs {
		if l.Message == "health monitoring started" {
			started++
		}
	}
	assert.Equal(t, 1, started)
}

func TestHealthyProbesKeepMonitoring(t *testing.T) {
	p := &fakeProber{}
	rec := &sink.Recorder{}
	m := New(p, rec, WithInterval(5*time.Millisecond))

	m.Start()
	require.Eventually(t, func() bool {
		return p.calls.Load() >= 3
	}, time.Second, time.Millisecond)

	assert.True(t, m.Active())
	assert.Empty(t, rec.ErrorLogs())
	assert.Empty(t, rec.Steps)

	m.Stop()
	m.Wait()
}

func TestFailedProbeStopsMonitoringAndResetsStep(t *testing.T) {
	p := &fakeProber{failAfter: 2, err: errors.New("connection refused")}
	rec := &sink.Recorder{}
	m := New(p, rec, WithInterval(5*time.Millisecond))

	m.Start()
	m.Wait()

	assert.False(t, m.Active())

	errs := rec.ErrorLogs()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "control plane is not responding")
	assert.Contains(t, errs[0].Message, "connection refused")

	// exactly one reset of the "server running" step, back to pending
	updates := rec.StepUpdatesFor(types.StepServerRunning)
	require.Len(t, updates, 1)
	assert.Equal(t, types.StepPending, updates[0].Status)

	// the loop is gone: no probe is issued after the failure
	calls := p.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, p.calls.Load())
}

func TestImmediateFailureOnFirstProbe(t *testing.T) {
	p := &fakeProber{failAfter: 0, err: errors.New("no route to host")}
	rec := &sink.Recorder{}
	m := New(p, rec, WithInterval(time.Hour))

	m.Start()
	m.Wait()

	assert.False(t, m.Active())
	assert.Equal(t, int64(1), p.calls.Load())
	require.Len(t, rec.StepUpdatesFor(types.StepServerRunning), 1)
}

func TestStopDuringProbeDoesNotReportFailure(t *testing.T) {
	p := &blockingProber{started: make(chan struct{})}
	rec := &sink.Recorder{}
	m := New(p, rec, WithProbeTimeout(time.Hour))

	m.Start()
	<-p.started
	m.Stop()
	m.Wait()

	assert.False(t, m.Active())
	assert.Empty(t, rec.ErrorLogs())
	assert.Empty(t, rec.Steps)
}

func TestProbeTimeoutCountsAsFailure(t *testing.T) {
	p := &blockingProber{started: make(chan struct{})}
	rec := &sink.Recorder{}
	m := New(p, rec, WithProbeTimeout(10*time.Millisecond))

	m.Start()
	m.Wait()

	assert.False(t, m.Active())
	require.Len(t, rec.ErrorLogs(), 1)
	require.Len(t, rec.StepUpdatesFor(types.StepServerRunning), 1)
}

func TestRestartAfterFailure(t *testing.T) {
	p := &fakeProber{failAfter: 0, err: errors.New("down")}
	rec := &sink.Recorder{}
	m := New(p, rec, WithInterval(5*time.Millisecond))

	m.Start()
	m.Wait()
	require.False(t, m.Active())

	// the monitor never restarts itself, but an explicit Start works again
	p.err = nil
	m.Start()
	assert.True(t, m.Active())

	m.Stop()
	m.Wait()
}

func TestWaitWithoutStart(t *testing.T) {
	m := New(&fakeProber{}, &sink.Recorder{})

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked for a monitor that never started")
	}
}
