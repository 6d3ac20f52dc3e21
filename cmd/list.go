package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/internal/service/tools"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools exposed by the control plane",
	RunE:  runListTools,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "3",
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runListTools(cmd *cobra.Command, args []string) error {
	store := openStateStore()
	var recorder tools.RunRecorder
	if store != nil {
		recorder = store
	}

	svc := tools.NewService(mcpClient, uiSink, recorder, nil)
	list, err := svc.ListTools(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	if len(list) == 0 {
		cmd.Println("The control plane does not expose any tools.")
		return nil
	}

	for _, t := range list {
		marker := " "
		if store != nil {
			if ran, err := store.HasToolRun(t.Name); err == nil && ran {
				marker = "*"
			}
		}
		cmd.Printf("%s %s", marker, t.Name)
		if t.Description != "" {
			cmd.Printf(" - %s", t.Description)
		}
		cmd.Println()
	}
	cmd.Println()
	cmd.Println("Tools marked with * have been run at least once.")

	return nil
}
