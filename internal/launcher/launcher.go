// Package launcher starts the companion control-plane process from a shell
// command string and streams its output to the UI sink.
package launcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/internal/steps"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// Launcher spawns external processes on behalf of the setup flow.
type Launcher struct {
	sink    sink.Sink
	tracker *steps.Tracker
}

// New creates a Launcher. tracker may be nil.
func New(s sink.Sink, tracker *steps.Tracker) *Launcher {
	return &Launcher{sink: s, tracker: tracker}
}

// Process is a handle on a launched control-plane process.
type Process struct {
	cmd *exec.Cmd

	once sync.Once
	err  error
}

// Wait blocks until the process exits and returns its exit error, if any.
func (p *Process) Wait() error {
	p.once.Do(func() { p.err = p.cmd.Wait() })
	return p.err
}

// Launch runs the literal command string through the platform shell.
// The command's stdout and stderr are forwarded to the sink line by line
// with command severity. Step 3 of the checklist tracks the launch.
func (l *Launcher) Launch(ctx context.Context, command string) (*Process, error) {
	l.setStep(types.StepControlPlane, types.StepDoing)
	l.sink.LogLine("$ "+command, types.SeverityCommand)

	shell, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	cmd := exec.CommandContext(ctx, shell, flag, command)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		l.setStep(types.StepControlPlane, types.StepError)
		return nil, fmt.Errorf("failed to attach to command output: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		l.setStep(types.StepControlPlane, types.StepError)
		return nil, fmt.Errorf("failed to attach to command output: %w", err)
	}

	if err := cmd.Start(); err != nil {
		l.setStep(types.StepControlPlane, types.StepError)
		l.sink.LogLine(fmt.Sprintf("failed to launch control plane: %v", err), types.SeverityError)
		return nil, fmt.Errorf("failed to launch %q: %w", command, err)
	}

	go l.forward(stdout)
	go l.forward(stderr)

	l.setStep(types.StepControlPlane, types.StepDone)
	return &Process{cmd: cmd}, nil
}

func (l *Launcher) forward(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l.sink.LogLine(scanner.Text(), types.SeverityCommand)
	}
}

func (l *Launcher) setStep(stepID int, status types.StepStatus) {
	if l.tracker != nil {
		l.tracker.Set(stepID, status)
	}
}
