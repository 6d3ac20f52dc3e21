package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/internal/service/tools"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

var invokeCmdParams []string

var invokeCmd = &cobra.Command{
	Use:   "invoke <name>",
	Short: "Invoke a tool on the control plane",
	Long: "Invokes a tool by name. Parameters are supplied as repeated -p key=value\n" +
		"flags and are coerced against the tool's declared input schema: booleans and\n" +
		"numbers are parsed, array and object parameters expect JSON, and anything\n" +
		"else is passed through as a string. Schema defaults fill in whatever you\n" +
		"don't supply.",
	Args: cobra.ExactArgs(1),
	RunE: runInvokeTool,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "4",
	},
}

func init() {
	invokeCmd.Flags().StringArrayVarP(
		&invokeCmdParams,
		"param",
		"p",
		nil,
		"Tool parameter as key=value. May be repeated.",
	)

	rootCmd.AddCommand(invokeCmd)
}

// parseParams splits the repeated -p flags into the raw input map.
func parseParams(params []string) (map[string]string, error) {
	inputs := make(map[string]string, len(params))
	for _, p := range params {
		key, value, found := strings.Cut(p, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", p)
		}
		inputs[key] = value
	}
	return inputs, nil
}

func runInvokeTool(cmd *cobra.Command, args []string) error {
	name := args[0]

	inputs, err := parseParams(invokeCmdParams)
	if err != nil {
		return err
	}

	// fetch the catalogue so coercion can see the tool's schema; an unknown
	// name still goes to the server, which is the source of truth for acceptance
	list, err := mcpClient.ListTools(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch tool list: %w", err)
	}
	tool := types.Tool{Name: name}
	for _, t := range list {
		if t.Name == name {
			tool = t
			break
		}
	}

	var recorder tools.RunRecorder
	if store := openStateStore(); store != nil {
		recorder = store
	}
	svc := tools.NewService(mcpClient, uiSink, recorder, nil)
	result, err := svc.InvokeTool(cmd.Context(), tool, inputs)
	if err != nil {
		return fmt.Errorf("failed to invoke tool '%s': %w", name, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result, "", "  "); err != nil {
		cmd.Println(string(result))
		return nil
	}
	cmd.Println(pretty.String())

	return nil
}
