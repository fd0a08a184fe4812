package main

import (
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects with item counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		warnLoadErrors()
		summaries := store.Summaries()
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), summaries)
		}
		presenter.Projects(summaries)
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an empty project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := store.CreateProject(cmd.Context(), name); err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]interface{}{"project": name, "created": true})
		}
		presenter.Success("Project '%s' created successfully.", name)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a project and its document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		deleted, err := store.DeleteProject(cmd.Context(), name, confirmer(cmd))
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]interface{}{"project": name, "deleted": deleted})
		}
		if !deleted {
			presenter.Warn("Deletion cancelled.")
			return nil
		}
		presenter.Success("Project '%s' deleted successfully.", name)
		return nil
	},
}

func init() {
	projectDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")

	projectCmd.AddCommand(projectListCmd, projectCreateCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
