package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/backlogd/backlogd/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a project to CSV or Excel",
}

func newExportCmd(format export.Format, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(format) + " PROJECT",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := args[0]
			filename, _ := cmd.Flags().GetString("filename")

			items, err := store.Items(project)
			if err != nil {
				return err
			}
			path, err := export.Project(project, items, format, filename, time.Now())
			if errors.Is(err, export.ErrEmpty) {
				presenter.Warn("No items to export in project '%s'.", project)
				return nil
			}
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]interface{}{"project": project, "path": path, "items": len(items)})
			}
			presenter.Success("Exported to %s", path)
			return nil
		},
	}
	cmd.Flags().String("filename", "", "Output file (default: <project>_backlog_<timestamp>."+string(format)+")")
	return cmd
}

func init() {
	exportCmd.AddCommand(
		newExportCmd(export.FormatCSV, "Export a project to CSV"),
		newExportCmd(export.FormatXLSX, "Export a project to an Excel workbook"),
	)
	rootCmd.AddCommand(exportCmd)
}
