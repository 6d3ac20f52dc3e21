package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/internal/db"
	"github.com/mcpdeck/mcpdeck/internal/scaffold"
	"github.com/mcpdeck/mcpdeck/internal/service/state"
	"github.com/mcpdeck/mcpdeck/internal/steps"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Scaffold workspace configuration and assistant settings",
	Long: "Creates the workspace compose include (unless it already exists) and registers\n" +
		"the mcpdeck control plane in the settings files of your AI coding assistants.\n" +
		"Both operations are idempotent: existing user configuration is never overwritten,\n" +
		"only the mcpdeck entry in each settings file is added or updated.",
	RunE: runSetup,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "1",
	},
}

var (
	setupCmdDir          string
	setupCmdAssistants   []string
	setupCmdSettingsFile string
)

func init() {
	setupCmd.Flags().StringVar(
		&setupCmdDir,
		"dir",
		".",
		"Workspace directory to scaffold the compose include into",
	)
	setupCmd.Flags().StringSliceVar(
		&setupCmdAssistants,
		"assistant",
		[]string{scaffold.AssistantClaude},
		"Assistant settings to configure (claude, cursor). May be repeated.",
	)
	setupCmd.Flags().StringVar(
		&setupCmdSettingsFile,
		"settings-file",
		"",
		"Explicit settings file path, overriding platform detection (single assistant only)",
	)

	rootCmd.AddCommand(setupCmd)
}

// newPathResolver picks the settings path strategy for this run.
func newPathResolver() (scaffold.PathResolver, error) {
	if setupCmdSettingsFile != "" {
		if len(setupCmdAssistants) != 1 {
			return nil, fmt.Errorf("--settings-file requires exactly one --assistant")
		}
		return scaffold.StaticPathResolver{setupCmdAssistants[0]: setupCmdSettingsFile}, nil
	}
	return scaffold.NewOSPathResolver()
}

// openStateStore connects to the local state database. A nil service is
// returned when the database cannot be opened: setup progress is then only
// reported, not persisted.
func openStateStore() *state.Service {
	conn, err := db.NewDBConnection(os.Getenv(DBUrlEnvVar))
	if err != nil {
		zapLogger.Sugar().Warnw("state store unavailable, progress will not be persisted", "error", err)
		return nil
	}
	svc, err := state.NewService(conn)
	if err != nil {
		zapLogger.Sugar().Warnw("state store unavailable, progress will not be persisted", "error", err)
		return nil
	}
	return svc
}

func runSetup(cmd *cobra.Command, args []string) error {
	resolver, err := newPathResolver()
	if err != nil {
		return err
	}

	port, err := getMcpPort()
	if err != nil {
		return err
	}

	var store steps.Store
	if svc := openStateStore(); svc != nil {
		store = svc
	}
	tracker := steps.NewTracker(uiSink, store)

	sc := scaffold.New(afero.NewOsFs(), uiSink, tracker, resolver, port)
	if err := sc.Setup(setupCmdDir, setupCmdAssistants); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	cmd.Println("Setup complete. Run `mcpdeck start` to bring up the control plane.")
	return nil
}
