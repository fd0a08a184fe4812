package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/backlogd/backlogd/internal/activity"
	"github.com/backlogd/backlogd/internal/backlog"
	"github.com/backlogd/backlogd/internal/config"
	"github.com/backlogd/backlogd/internal/configfile"
	"github.com/backlogd/backlogd/internal/debug"
	"github.com/backlogd/backlogd/internal/storage/yamlstore"
	"github.com/backlogd/backlogd/internal/ui"
)

var (
	dataDir    string
	actor      string
	jsonOutput bool
	noColor    bool

	store       *backlog.Store
	activityLog *activity.Log
	presenter   *ui.Console
)

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding project documents (default: $BACKLOGD_DATA_DIR or database_backlogd)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor name for the activity log (default: $BACKLOGD_ACTOR or $USER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

var rootCmd = &cobra.Command{
	Use:   "backlogd",
	Short: "backlogd - CLI product backlog manager",
	Long: `Manage product backlogs from the terminal. Projects hold prioritized
backlog items and are stored as one YAML document per project.

Run without arguments to start the interactive shell.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("no-color") {
			noColor = config.GetBool("no-color") || os.Getenv("NO_COLOR") != ""
		}
		if !cmd.Flags().Changed("data-dir") && dataDir == "" {
			dataDir = config.DataDir()
		}
		if !cmd.Flags().Changed("actor") && actor == "" {
			actor = config.Actor()
		}
		config.Set("data-dir", dataDir)
		if noColor {
			color.NoColor = true
		}
		presenter = ui.NewConsole(cmd.OutOrStdout(), noColor)

		// Commands that never touch the data directory
		if slices.Contains([]string{"version", "help", "completion"}, cmd.Name()) {
			return nil
		}
		return openStore(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeStore()
	},
}

// openStore creates the data directory if needed and loads every project.
func openStore(ctx context.Context) error {
	ys, err := yamlstore.New(dataDir)
	if err != nil {
		return err
	}

	meta, err := configfile.Ensure(dataDir, Version)
	if err != nil {
		debug.Logf("metadata: %v", err)
	} else if warning := meta.CheckVersion(Version); warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	var opts []backlog.Option
	if logOpts := config.ActivityLog(); logOpts.Enabled {
		activityLog = activity.Open(activity.DefaultPath(dataDir), actor, activity.Options{
			MaxSizeMB:  logOpts.MaxSizeMB,
			MaxBackups: logOpts.MaxBackups,
			MaxAgeDays: logOpts.MaxAgeDays,
			Compress:   logOpts.Compress,
		})
		opts = append(opts, backlog.WithRecorder(activityLog))
	}

	store, err = backlog.Open(ctx, ys, opts...)
	if err != nil {
		return err
	}
	return nil
}

func closeStore() {
	if err := activityLog.Close(); err != nil {
		debug.Logf("closing activity log: %v", err)
	}
	activityLog = nil
	store = nil
}

// warnLoadErrors reports projects that were skipped while loading.
func warnLoadErrors() {
	for _, err := range store.LoadErrors() {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		closeStore()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
