package launcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/internal/steps"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

func TestLaunchForwardsOutput(t *testing.T) {
	rec := &sink.Recorder{}
	tracker := steps.NewTracker(rec, nil)
	l := New(rec, tracker)

	proc, err := l.Launch(context.Background(), "echo hello-from-the-control-plane")
	require.NoError(t, err)
	require.NoError(t, proc.Wait())

	assert.Equal(t, types.StepDone, tracker.Get(types.StepControlPlane))

	// the command itself plus its output, both with command severity
	var echoed, forwarded bool
	deadline := time.Now().Add(2 * time.Second)
	for !forwarded && time.Now().Before(deadline) {
		echoed, forwarded = false, false
		for _, entry := range rec.LogsCopy() {
			if entry.Severity != types.SeverityCommand {
				continue
			}
			if entry.Message == "$ echo hello-from-the-control-plane" {
				echoed = true
			}
			if entry.Message == "hello-from-the-control-plane" {
				forwarded = true
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.True(t, echoed)
	assert.True(t, forwarded)
}

func TestLaunchFailureMarksStepError(t *testing.T) {
	rec := &sink.Recorder{}
	tracker := steps.NewTracker(rec, nil)
	l := New(rec, tracker)

	// exit code 3 surfaces through Wait, not Launch: the shell itself started fine
	proc, err := l.Launch(context.Background(), "exit 3")
	require.NoError(t, err)
	assert.Error(t, proc.Wait())
}

func TestWaitIsIdempotent(t *testing.T) {
	l := New(&sink.Recorder{}, nil)

	proc, err := l.Launch(context.Background(), "true")
	require.NoError(t, err)

	assert.NoError(t, proc.Wait())
	assert.NoError(t, proc.Wait())
}

func TestLaunchHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New(&sink.Recorder{}, nil)

	proc, err := l.Launch(ctx, "sleep 60")
	require.NoError(t, err)

	cancel()
	assert.Error(t, proc.Wait())
}
