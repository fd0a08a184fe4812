package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/backlogd/backlogd/internal/config"
	"github.com/backlogd/backlogd/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

func init() {
	shellCmd.Flags().String("project", "", "Project to select on start")
	rootCmd.AddCommand(shellCmd)
}

// runShell reads from a terminal with line editing, or from the command's
// stdin when it is redirected.
func runShell(cmd *cobra.Command) error {
	var (
		in  shell.LineReader
		err error
	)
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		in, err = shell.NewReader(f, cmd.OutOrStdout(), config.HistoryFile())
	} else {
		in = shell.NewScannerReader(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	var opts []shell.Option
	if cmd.Flags().Lookup("project") != nil {
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			opts = append(opts, shell.WithProject(project))
		}
	}
	return shell.New(store, presenter, in, opts...).Run(cmd.Context())
}
