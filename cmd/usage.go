package cmd

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

var usageCmd = &cobra.Command{
	Use:   "usage <name>",
	Short: "Show the input schema of a tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolUsage,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "5",
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

func runToolUsage(cmd *cobra.Command, args []string) error {
	name := args[0]

	list, err := mcpClient.ListTools(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch tool list: %w", err)
	}

	var tool *types.Tool
	for i := range list {
		if list[i].Name == name {
			tool = &list[i]
			break
		}
	}
	if tool == nil {
		return fmt.Errorf("tool '%s' does not exist on the control plane", name)
	}

	cmd.Printf("Usage: %s\n", tool.Name)
	if tool.Description != "" {
		cmd.Println(tool.Description)
	}
	cmd.Println()

	if len(tool.InputSchema.Properties) == 0 {
		cmd.Println("This tool does not accept any parameters.")
		return nil
	}

	cmd.Println("Parameters:")
	for propName, prop := range tool.InputSchema.Properties {
		req := "optional"
		if slices.Contains(tool.InputSchema.Required, propName) {
			req = "required"
		}
		p, err := json.MarshalIndent(prop, "  ", "  ")
		if err != nil {
			return fmt.Errorf("failed to render schema for parameter '%s': %w", propName, err)
		}
		cmd.Printf("- %s (%s)\n  %s\n", propName, req, string(p))
	}

	return nil
}
