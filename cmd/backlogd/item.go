package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backlogd/backlogd/internal/types"
	"github.com/backlogd/backlogd/internal/utils"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage backlog items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add PROJECT TITLE DESCRIPTION",
	Short: "Add an item to a project",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := types.NewItem{Title: args[1], Description: args[2]}

		priority, _ := cmd.Flags().GetString("priority")
		p, err := types.ParsePriority(priority)
		if err != nil {
			return err
		}
		in.Priority = p
		in.Sprint, _ = cmd.Flags().GetString("sprint")
		in.Epic, _ = cmd.Flags().GetString("epic")
		in.Assignee, _ = cmd.Flags().GetString("assignee")
		if cmd.Flags().Changed("points") {
			points, _ := cmd.Flags().GetInt("points")
			in.StoryPoints = &points
		}

		item, err := store.AddItem(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), item)
		}
		presenter.Success("Item '%s' added to project '%s'.", item.ID, args[0])
		return nil
	},
}

var itemUpdateCmd = &cobra.Command{
	Use:   "update PROJECT ID",
	Short: "Update fields of an item",
	Long: `Update fields of an item. Only the flags given are changed.
ID may be a bare number, resolved against the project prefix (3 -> WEB-3).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		id := utils.ResolveItemID(project, args[1])

		upd, err := updatesFromFlags(cmd)
		if err != nil {
			return err
		}
		if upd.IsEmpty() {
			presenter.Warn("No changes made.")
			return nil
		}

		item, err := store.UpdateItem(cmd.Context(), project, id, upd)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), item)
		}
		presenter.Success("Item '%s' updated successfully.", item.ID)
		return nil
	},
}

// updatesFromFlags fills one slot per flag the user actually passed.
func updatesFromFlags(cmd *cobra.Command) (types.ItemUpdates, error) {
	var upd types.ItemUpdates
	flags := cmd.Flags()

	text := map[string]**string{
		"title":       &upd.Title,
		"description": &upd.Description,
		"sprint":      &upd.Sprint,
		"epic":        &upd.Epic,
		"assignee":    &upd.Assignee,
	}
	for name, slot := range text {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*slot = types.StringPtr(v)
		}
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := types.ParsePriority(v)
		if err != nil {
			return upd, err
		}
		upd.Priority = &p
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		st, err := types.ParseStatus(v)
		if err != nil {
			return upd, err
		}
		upd.Status = &st
	}
	if flags.Changed("points") {
		v, _ := flags.GetInt("points")
		upd.StoryPoints = types.IntPtr(v)
	}
	return upd, nil
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete PROJECT ID",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		id := utils.ResolveItemID(project, args[1])
		deleted, err := store.DeleteItem(cmd.Context(), project, id, confirmer(cmd))
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]interface{}{"id": id, "deleted": deleted})
		}
		if !deleted {
			presenter.Warn("Deletion cancelled.")
			return nil
		}
		presenter.Success("Item '%s' deleted successfully.", id)
		return nil
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show PROJECT ID",
	Short: "Show item details",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		item, err := store.ShowItem(project, utils.ResolveItemID(project, args[1]))
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), item)
		}
		presenter.ItemDetail(item)
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		warnLoadErrors()
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		groups, err := store.ListItems(f)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), groups)
		}
		presenter.Items(groups)
		return nil
	},
}

func filterFromFlags(cmd *cobra.Command) (types.ItemFilter, error) {
	var f types.ItemFilter
	flags := cmd.Flags()

	text := map[string]**string{
		"project":  &f.Project,
		"sprint":   &f.Sprint,
		"epic":     &f.Epic,
		"assignee": &f.Assignee,
	}
	for name, slot := range text {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*slot = types.StringPtr(v)
		}
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := types.ParsePriority(v)
		if err != nil {
			return f, err
		}
		f.Priority = &p
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		st, err := types.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	return f, nil
}

func init() {
	priorityHelp := fmt.Sprintf("Priority (%s)", strings.Join(types.PriorityChoices(), ", "))
	statusHelp := fmt.Sprintf("Status (%s)", strings.Join(types.StatusChoices(), ", "))

	itemAddCmd.Flags().String("priority", string(types.PriorityMedium), priorityHelp)
	itemAddCmd.Flags().String("sprint", "", "Sprint name")
	itemAddCmd.Flags().String("epic", "", "Epic name")
	itemAddCmd.Flags().String("assignee", "", "Assignee name")
	itemAddCmd.Flags().Int("points", 0, "Story points")

	itemUpdateCmd.Flags().String("title", "", "New title")
	itemUpdateCmd.Flags().String("description", "", "New description")
	itemUpdateCmd.Flags().String("priority", "", priorityHelp)
	itemUpdateCmd.Flags().String("status", "", statusHelp)
	itemUpdateCmd.Flags().String("sprint", "", "Sprint name")
	itemUpdateCmd.Flags().String("epic", "", "Epic name")
	itemUpdateCmd.Flags().String("assignee", "", "Assignee name")
	itemUpdateCmd.Flags().Int("points", 0, "Story points")

	itemDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")

	itemListCmd.Flags().String("project", "", "Only list this project")
	itemListCmd.Flags().String("priority", "", priorityHelp)
	itemListCmd.Flags().String("status", "", statusHelp)
	itemListCmd.Flags().String("sprint", "", "Sprint name")
	itemListCmd.Flags().String("epic", "", "Epic name")
	itemListCmd.Flags().String("assignee", "", "Assignee name")

	itemCmd.AddCommand(itemAddCmd, itemUpdateCmd, itemDeleteCmd, itemShowCmd, itemListCmd)
	rootCmd.AddCommand(itemCmd)
}
