package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/client"
	"github.com/mcpdeck/mcpdeck/internal/monitor"
	"github.com/mcpdeck/mcpdeck/internal/steps"
)

var monitorCmdInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor the liveness of a running control plane",
	Long: "Periodically probes the control plane on the configured port and reports\n" +
		"when it stops responding. Runs until you interrupt or the control plane\n" +
		"goes down.",
	RunE: runMonitor,
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "2",
	},
}

func init() {
	monitorCmd.Flags().DurationVar(
		&monitorCmdInterval,
		"interval",
		monitor.DefaultInterval,
		"How often to probe the control plane",
	)

	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
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

	probe := client.NewForPort(port, client.WithTimeout(client.ProbeTimeout))
	mon := monitor.New(probe, trackedSink, monitor.WithInterval(monitorCmdInterval))
	mon.Start()

	monDone := make(chan struct{})
	go func() { mon.Wait(); close(monDone) }()

	select {
	case <-ctx.Done():
		mon.Stop()
		return nil
	case <-monDone:
		return fmt.Errorf("control plane on port %d stopped responding", port)
	}
}
