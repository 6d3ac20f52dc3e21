package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mcpdeck/mcpdeck/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of mcpdeck",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("mcpdeck " + version.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
