package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of backlogd (overridden by ldflags at build time)
	Version = "0.4.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]string{
				"version": Version,
				"build":   Build,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "backlogd version %s (%s)\n", Version, Build)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
