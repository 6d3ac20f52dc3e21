package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/internal/controlplane"
	"github.com/mcpdeck/mcpdeck/internal/scaffold"
	"github.com/mcpdeck/mcpdeck/internal/telemetry"
)

// TelemetryEnabledEnvVar toggles the prometheus /metrics endpoint.
const TelemetryEnabledEnvVar = "OTEL_ENABLED"

var (
	startCmdDir              string
	startCmdTelemetryEnabled bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the mcpdeck control plane",
	Long: "Starts the embedded MCP control plane: a JSON-RPC-over-HTTP server on /mcp\n" +
		"exposing the built-in scaffolding tools (add-frontend, add-postgres, ...).\n\n" +
		"The port is taken from --port, the " + McpPortEnvVar + " environment variable, or the\n" +
		"default. Telemetry is disabled unless --telemetry or " + TelemetryEnabledEnvVar + " is set,\n" +
		"in which case prometheus metrics are served on /metrics.",
	RunE: runStartServer,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
}

func init() {
	startCmd.Flags().StringVar(
		&startCmdDir,
		"dir",
		".",
		"Workspace directory the scaffolding tools operate on",
	)
	startCmd.Flags().BoolVar(
		&startCmdTelemetryEnabled,
		"telemetry",
		false,
		fmt.Sprintf("Enable OpenTelemetry metrics. Alternatively, set the %s environment variable", TelemetryEnabledEnvVar),
	)

	rootCmd.AddCommand(startCmd)
}

// isTelemetryEnabled returns true if telemetry should be enabled.
// The flag takes precedence over the environment variable.
func isTelemetryEnabled() (bool, error) {
	if startCmdTelemetryEnabled {
		return true, nil
	}
	envEnabled := strings.ToLower(strings.TrimSpace(os.Getenv(TelemetryEnabledEnvVar)))
	if envEnabled == "" {
		return false, nil
	}
	enabled, err := strconv.ParseBool(envEnabled)
	if err != nil {
		return false, fmt.Errorf(
			"invalid value for %s environment variable: '%s', valid values are 'true' or 'false'",
			TelemetryEnabledEnvVar, envEnabled,
		)
	}
	return enabled, nil
}

func runStartServer(cmd *cobra.Command, args []string) error {
	telemetryEnabled, err := isTelemetryEnabled()
	if err != nil {
		return err
	}
	otelConfig := &telemetry.Config{
		ServiceName: "mcpdeck",
		Enabled:     telemetryEnabled,
	}
	otelProviders, err := telemetry.Init(cmd.Context(), otelConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry providers: %v", err)
	}
	defer func() {
		if err := otelProviders.Shutdown(cmd.Context()); err != nil {
			cmd.Printf("Warning: failed to shutdown OpenTelemetry providers: %v\n", err)
		}
	}()

	// By default a no-op metrics implementation is used, so the rest of the
	// code never has to check whether metrics are enabled.
	metrics := telemetry.NewNoopCustomMetrics()
	if otelProviders.IsEnabled() {
		metrics, err = telemetry.NewOtelCustomMetrics(otelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create metrics: %v", err)
		}
	}

	port, err := getMcpPort()
	if err != nil {
		return err
	}

	resolver, err := scaffold.NewOSPathResolver()
	if err != nil {
		return err
	}
	sc := scaffold.New(afero.NewOsFs(), uiSink, nil, resolver, port)

	opts := &controlplane.ServerOptions{
		Port:          strconv.Itoa(port),
		Scaffolder:    sc,
		WorkspaceDir:  startCmdDir,
		OtelProviders: otelProviders,
		Metrics:       metrics,
	}
	s, err := controlplane.NewServer(opts)
	if err != nil {
		return fmt.Errorf("failed to create control plane server: %v", err)
	}

	cmd.Printf("mcpdeck control plane listening on :%d\n\n", port)
	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to run the control plane: %v", err)
	}

	return nil
}
