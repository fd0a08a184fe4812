// Package shell implements the interactive backlogd command loop.
//
// The shell is either Unselected or Selected (a current project is set).
// Item commands need a current project; project commands work in both
// states. Input comes from a LineReader and all output goes through a
// ui.Presenter.
package shell

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/backlogd/backlogd/internal/backlog"
	"github.com/backlogd/backlogd/internal/debug"
	"github.com/backlogd/backlogd/internal/export"
	"github.com/backlogd/backlogd/internal/types"
	"github.com/backlogd/backlogd/internal/ui"
	"github.com/backlogd/backlogd/internal/utils"
)

const noProjectMsg = "No project selected. Use 'use <project>' to select a project."

// Shell is the interactive command loop.
type Shell struct {
	store   *backlog.Store
	ui      ui.Presenter
	in      LineReader
	now     func() time.Time
	current string
	running bool

	// set when a confirmation prompt was interrupted or hit end of input
	promptErr error
}

// Option configures a Shell.
type Option func(*Shell)

// WithClock replaces time.Now for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithProject starts the shell with a project selected.
func WithProject(name string) Option {
	return func(s *Shell) { s.current = name }
}

// New returns a shell over store.
func New(store *backlog.Store, p ui.Presenter, in LineReader, opts ...Option) *Shell {
	s := &Shell{store: store, ui: p, in: in, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.current != "" && !store.Has(s.current) {
		s.current = ""
	}
	return s
}

// Current returns the selected project, or "" when none is selected.
func (s *Shell) Current() string {
	return s.current
}

// Prompt returns the main prompt for the current state.
func (s *Shell) Prompt() string {
	if s.current == "" {
		return "backlogd[no project]>> "
	}
	return "backlogd[" + s.current + "]>> "
}

// Run prints the banner and processes lines until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.ui.Banner()
	for _, err := range s.store.LoadErrors() {
		s.ui.Error("Error: %v", err)
	}

	s.running = true
	for s.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, err := s.in.ReadLine(s.Prompt())
		switch {
		case errors.Is(err, ErrInterrupt):
			s.ui.Warn("Use 'exit' to quit.")
			continue
		case errors.Is(err, io.EOF):
			s.ui.Warn("Goodbye!")
			return nil
		case err != nil:
			return err
		}
		s.Execute(ctx, input)
	}
	return nil
}

// Execute parses and runs one input line. It reports whether the shell
// should keep running.
func (s *Shell) Execute(ctx context.Context, input string) bool {
	line, ok := ParseLine(input)
	if !ok {
		return true
	}
	debug.Logf("shell: %s %q", line.Command, line.Args)

	s.running = true
	if err := s.dispatch(ctx, line); err != nil {
		s.report(err)
	}
	return s.running
}

func (s *Shell) report(err error) {
	switch {
	case errors.Is(err, ErrInterrupt):
		s.ui.Warn("Operation cancelled.")
	case errors.Is(err, io.EOF):
		s.ui.Warn("Operation cancelled.")
		s.running = false
	default:
		s.ui.Error("Error: %v", err)
	}
}

func (s *Shell) dispatch(ctx context.Context, line Line) error {
	if line.Command.NeedsProject() && s.current == "" {
		s.ui.Error(noProjectMsg)
		return nil
	}

	switch line.Command {
	case CmdHelp:
		s.ui.Help()
	case CmdExit:
		s.ui.Warn("Goodbye!")
		s.running = false
	case CmdClear:
		s.ui.Clear()
	case CmdStatus:
		s.status()
	case CmdProjects:
		s.ui.Projects(s.store.Summaries())
	case CmdUse:
		s.use(line.Args)
	case CmdCreateProject:
		return s.createProject(ctx, line.Args)
	case CmdDeleteProject:
		return s.deleteProject(ctx, line.Args)
	case CmdItems:
		return s.items(line.Args)
	case CmdAdd:
		return s.add(ctx, line.Args)
	case CmdUpdate:
		return s.update(ctx, line.Args)
	case CmdDelete:
		return s.deleteItem(ctx, line.Args)
	case CmdShow:
		return s.show(line.Args)
	case CmdExportCSV:
		return s.export(export.FormatCSV, line.Args)
	case CmdExportXLSX:
		return s.export(export.FormatXLSX, line.Args)
	default:
		s.ui.Error("Unknown command: %s", line.Word)
		s.ui.Warn("Type 'help' for available commands.")
	}
	return nil
}

func (s *Shell) status() {
	st := ui.StatusInfo{
		Project:  s.current,
		Projects: len(s.store.Projects()),
		DataDir:  s.store.Location(),
	}
	if s.current != "" {
		if sum, err := s.store.Summary(s.current); err == nil {
			st.Summary = &sum
		}
	}
	s.ui.Status(st)
}

func (s *Shell) use(args []string) {
	if len(args) == 0 {
		s.ui.Error("Usage: use <project-name>")
		return
	}
	name := args[0]
	if !s.store.Has(name) {
		s.ui.Error("Project '%s' not found.", name)
		available := "none"
		if names := s.store.Projects(); len(names) > 0 {
			available = strings.Join(names, ", ")
		}
		s.ui.Warn("Available projects: %s", available)
		return
	}
	s.current = name
	s.ui.Success("Switched to project '%s'", name)
}

func (s *Shell) createProject(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s.ui.Error("Usage: create-project <project-name>")
		return nil
	}
	name := args[0]
	if err := s.store.CreateProject(ctx, name); err != nil {
		if !s.store.Has(name) || errors.Is(err, types.ErrAlreadyExists) {
			return err
		}
		// created in memory but not saved
		s.current = name
		return err
	}
	s.current = name
	s.ui.Success("Project '%s' created successfully.", name)
	return nil
}

func (s *Shell) deleteProject(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s.ui.Error("Usage: delete-project <project-name>")
		return nil
	}
	name := args[0]
	deleted, err := s.store.DeleteProject(ctx, name, s.confirm)
	if err != nil {
		return err
	}
	if !deleted {
		return s.declined()
	}
	if s.current == name {
		s.current = ""
	}
	s.ui.Success("Project '%s' deleted successfully.", name)
	return nil
}

func (s *Shell) items(args []string) error {
	f, err := FilterFromArgs(args)
	if err != nil {
		return err
	}
	f.Project = types.StringPtr(s.current)
	groups, err := s.store.ListItems(f)
	if err != nil {
		return err
	}
	s.ui.Items(groups)
	return nil
}

func (s *Shell) add(ctx context.Context, args []string) error {
	var in types.NewItem
	var err error
	if len(args) >= 2 {
		in.Title, in.Description = args[0], args[1]
	} else {
		if in.Title, err = s.ask("Enter item title", ""); err != nil {
			return err
		}
		if in.Description, err = s.ask("Enter item description", ""); err != nil {
			return err
		}
	}

	priority, err := s.askChoice("Priority", types.PriorityChoices(), string(types.PriorityMedium))
	if err != nil {
		return err
	}
	in.Priority = types.Priority(priority)
	if in.Sprint, err = s.ask("Sprint (optional)", ""); err != nil {
		return err
	}
	if in.Epic, err = s.ask("Epic (optional)", ""); err != nil {
		return err
	}
	if in.Assignee, err = s.ask("Assignee (optional)", ""); err != nil {
		return err
	}
	if in.StoryPoints, err = s.askPoints("Story points (optional)", ""); err != nil {
		return err
	}

	item, err := s.store.AddItem(ctx, s.current, in)
	if err != nil {
		return err
	}
	s.ui.Success("Item '%s' added to project '%s'.", item.ID, s.current)
	return nil
}

func (s *Shell) update(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s.ui.Error("Usage: update <item-id>")
		return nil
	}
	id := utils.ResolveItemID(s.current, args[0])
	item, err := s.store.ShowItem(s.current, id)
	if err != nil {
		return err
	}

	s.ui.Info("Updating item '%s': %s", item.ID, item.Title)
	s.ui.Warn("Press Enter to keep current value")

	var upd types.ItemUpdates
	text := func(label, current string, slot **string) error {
		v, err := s.ask(label+" ["+orNone(current)+"]", "")
		if err == nil && v != "" {
			*slot = types.StringPtr(v)
		}
		return err
	}

	if err := text("Title", item.Title, &upd.Title); err != nil {
		return err
	}
	if err := text("Description", preview(item.Description), &upd.Description); err != nil {
		return err
	}
	p, err := s.askChoice("Priority ["+string(item.Priority)+"]", types.PriorityChoices(), "")
	if err != nil {
		return err
	}
	if p != "" {
		pr := types.Priority(p)
		upd.Priority = &pr
	}
	st, err := s.askChoice("Status ["+string(item.Status)+"]", types.StatusChoices(), "")
	if err != nil {
		return err
	}
	if st != "" {
		status := types.Status(st)
		upd.Status = &status
	}
	if err := text("Sprint", item.Sprint, &upd.Sprint); err != nil {
		return err
	}
	if err := text("Epic", item.Epic, &upd.Epic); err != nil {
		return err
	}
	if err := text("Assignee", item.Assignee, &upd.Assignee); err != nil {
		return err
	}
	current := ""
	if item.StoryPoints != nil {
		current = strconv.Itoa(*item.StoryPoints)
	}
	if upd.StoryPoints, err = s.askPoints("Story points ["+orNone(current)+"]", ""); err != nil {
		return err
	}

	if upd.IsEmpty() {
		s.ui.Warn("No changes made.")
		return nil
	}
	if _, err := s.store.UpdateItem(ctx, s.current, item.ID, upd); err != nil {
		return err
	}
	s.ui.Success("Item '%s' updated successfully.", item.ID)
	return nil
}

func (s *Shell) deleteItem(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s.ui.Error("Usage: delete <item-id>")
		return nil
	}
	id := utils.ResolveItemID(s.current, args[0])
	deleted, err := s.store.DeleteItem(ctx, s.current, id, s.confirm)
	if err != nil {
		return err
	}
	if !deleted {
		return s.declined()
	}
	s.ui.Success("Item '%s' deleted successfully.", id)
	return nil
}

func (s *Shell) show(args []string) error {
	if len(args) == 0 {
		s.ui.Error("Usage: show <item-id>")
		return nil
	}
	item, err := s.store.ShowItem(s.current, utils.ResolveItemID(s.current, args[0]))
	if err != nil {
		return err
	}
	s.ui.ItemDetail(item)
	return nil
}

func (s *Shell) export(format export.Format, args []string) error {
	filename := ""
	if len(args) > 0 {
		filename = args[0]
	}
	items, err := s.store.Items(s.current)
	if err != nil {
		return err
	}
	path, err := export.Project(s.current, items, format, filename, s.now())
	if errors.Is(err, export.ErrEmpty) {
		s.ui.Warn("No items to export in project '%s'.", s.current)
		return nil
	}
	if err != nil {
		return err
	}
	s.ui.Success("Exported to %s", path)
	return nil
}

// declined reports a refused confirmation, or the interrupt/EOF that ended it.
func (s *Shell) declined() error {
	if err := s.promptErr; err != nil {
		s.promptErr = nil
		return err
	}
	s.ui.Warn("Deletion cancelled.")
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return s
}
