// Package cmd implements the mcpdeck command line interface.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcpdeck/mcpdeck/client"
	"github.com/mcpdeck/mcpdeck/internal/sink"
)

const (
	// McpPortEnvVar configures the control-plane port when the --port flag
	// is not given.
	McpPortEnvVar = "MCPDECK_PORT"

	// DBUrlEnvVar points the state store at a custom database.
	// When unset, a local sqlite file is used.
	DBUrlEnvVar = "DATABASE_URL"
)

type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

var (
	rootCmdPort int

	zapLogger *zap.Logger
	uiSink    sink.Sink
	mcpClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "mcpdeck",
	Short: "Bootstrap and drive a local AI development control plane",
	Long: "mcpdeck scaffolds local developer environment configuration, launches a\n" +
		"local MCP control plane and lets you list, inspect and invoke its tools.\n" +
		"It also monitors the control plane's liveness while you work.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

func init() {
	rootCmd.PersistentFlags().IntVar(
		&rootCmdPort,
		"port",
		0,
		fmt.Sprintf("control plane TCP port (overrides env var %s, default %d)", McpPortEnvVar, client.DefaultPort),
	)
}

// initRuntime prepares the logger, the UI sink and the MCP client shared by
// all subcommands. They are constructed exactly once per process.
func initRuntime(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zapLogger = logger
	uiSink = sink.NewLogger(logger)

	port, err := getMcpPort()
	if err != nil {
		return err
	}
	mcpClient = client.NewForPort(port)

	return nil
}

// getMcpPort returns the configured control-plane port.
// Precedence: command line flag > environment variable > default.
func getMcpPort() (int, error) {
	if rootCmdPort != 0 {
		return rootCmdPort, nil
	}
	envPort := strings.TrimSpace(os.Getenv(McpPortEnvVar))
	if envPort == "" {
		return client.DefaultPort, nil
	}
	port, err := strconv.Atoi(envPort)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf(
			"invalid value for %s environment variable: '%s', must be a TCP port number", McpPortEnvVar, envPort,
		)
	}
	return port, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
