package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/client"
	"github.com/mcpdeck/mcpdeck/internal/launcher"
	"github.com/mcpdeck/mcpdeck/internal/monitor"
	"github.com/mcpdeck/mcpdeck/internal/steps"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

var launchCmdReadyTimeout time.Duration

var launchCmd = &cobra.Command{
	Use:   "launch <command...>",
	Short: "Launch an external control plane and monitor it",
	Long: "Runs the given shell command as the control plane process, waits for it to\n" +
		"answer on the configured port, and then monitors its liveness until the\n" +
		"process exits, the monitor detects it is down, or you interrupt.",
	Args: cobra.MinimumNArgs(1),
	RunE: runLaunch,
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "1",
	},
}

func init() {
	launchCmd.Flags().DurationVar(
		&launchCmdReadyTimeout,
		"ready-timeout",
		30*time.Second,
		"How long to wait for the control plane to answer its first probe",
	)

	rootCmd.AddCommand(launchCmd)
}

// waitReady polls the control plane until it answers or the timeout elapses.
func waitReady(ctx context.Context, probe *client.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := probe.Ping(ctx); err == nil {
			return nil
		} else if time.Now().After(deadline) {
			return fmt.Errorf("control plane did not become ready within %s: %w", timeout, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func runLaunch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port, err := getMcpPort()
	if err != nil {
		return err
	}

	var store steps.Store
	if svc := openStateStore(); svc != nil {
		store = svc
	}
	tracker := steps.NewTracker(uiSink, store)
	trackedSink := steps.TrackerSink{Sink: uiSink, Tracker: tracker}

	command := strings.Join(args, " ")
	proc, err := launcher.New(trackedSink, tracker).Launch(ctx, command)
	if err != nil {
		return err
	}

	probe := client.NewForPort(port, client.WithTimeout(client.ProbeTimeout))

	tracker.Set(types.StepServerRunning, types.StepDoing)
	if err := waitReady(ctx, probe, launchCmdReadyTimeout); err != nil {
		tracker.Set(types.StepServerRunning, types.StepError)
		return err
	}
	tracker.Set(types.StepServerRunning, types.StepDone)
	uiSink.LogLine(fmt.Sprintf("control plane is up on port %d", port), types.SeveritySuccess)

	mon := monitor.New(probe, trackedSink)
	mon.Start()

	procDone := make(chan error, 1)
	go func() { procDone <- proc.Wait() }()

	monDone := make(chan struct{})
	go func() { mon.Wait(); close(monDone) }()

	select {
	case <-ctx.Done():
		mon.Stop()
		return nil
	case err := <-procDone:
		mon.Stop()
		if err != nil {
			return fmt.Errorf("control plane exited: %w", err)
		}
		return nil
	case <-monDone:
		// the monitor went idle on its own: the server stopped responding
		return fmt.Errorf("control plane stopped responding")
	}
}
