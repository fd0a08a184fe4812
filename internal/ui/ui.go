// Package ui renders backlog records for a terminal: colored status
// messages, tables of projects and items, and bordered detail panels.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/muesli/termenv"

	"github.com/backlogd/backlogd/internal/backlog"
	"github.com/backlogd/backlogd/internal/types"
)

// Presenter is everything the shell and the batch commands show to a user.
type Presenter interface {
	Banner()
	Clear()
	Help()

	Success(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})

	Projects(summaries []backlog.ProjectSummary)
	Items(groups []backlog.ProjectItems)
	ItemDetail(item types.Item)
	Status(st StatusInfo)
}

// StatusInfo is the content of the status panel.
type StatusInfo struct {
	Project  string
	Projects int
	DataDir  string
	Summary  *backlog.ProjectSummary
}

const maxTitleWidth = 50

// Console writes to a terminal or any other writer.
type Console struct {
	out io.Writer
	r   *lipgloss.Renderer

	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	red    func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	bold   func(a ...interface{}) string

	priorityStyles map[types.Priority]lipgloss.Style
	statusStyles   map[types.Status]lipgloss.Style
}

// NewConsole returns a Console writing to out. noColor strips all styling.
func NewConsole(out io.Writer, noColor bool) *Console {
	r := lipgloss.NewRenderer(out)
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	c := &Console{
		out:    out,
		r:      r,
		green:  mk(color.FgGreen),
		yellow: mk(color.FgYellow),
		red:    mk(color.FgRed),
		cyan:   mk(color.FgCyan),
		bold:   mk(color.Bold),
	}
	c.priorityStyles = map[types.Priority]lipgloss.Style{
		types.PriorityCritical: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		types.PriorityHigh:     r.NewStyle().Foreground(lipgloss.Color("9")),
		types.PriorityMedium:   r.NewStyle().Foreground(lipgloss.Color("11")),
		types.PriorityLow:      r.NewStyle().Foreground(lipgloss.Color("10")),
	}
	c.statusStyles = map[types.Status]lipgloss.Style{
		types.StatusTodo:       r.NewStyle().Foreground(lipgloss.Color("12")),
		types.StatusInProgress: r.NewStyle().Foreground(lipgloss.Color("11")),
		types.StatusDone:       r.NewStyle().Foreground(lipgloss.Color("10")),
		types.StatusBlocked:    r.NewStyle().Foreground(lipgloss.Color("9")),
	}
	return c
}

// Writer returns the underlying output.
func (c *Console) Writer() io.Writer {
	return c.out
}

const banner = `
╔══════════════════════════════════════════════════════════════╗
║        backlogd - CLI Product Backlog Manager                ║
║                                                              ║
║  Manage product backlogs from the terminal, stored as YAML.  ║
║                                                              ║
║  Type 'help' for available commands or 'exit' to quit.       ║
╚══════════════════════════════════════════════════════════════╝`

// Banner prints the shell greeting.
func (c *Console) Banner() {
	fmt.Fprintln(c.out, c.cyan(banner))
}

// Clear clears the screen and redraws the banner.
func (c *Console) Clear() {
	fmt.Fprint(c.out, "\033[H\033[2J")
	c.Banner()
}

// Success, Info, Warn and Error print one colored line each.
func (c *Console) Success(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.green(fmt.Sprintf(format, args...)))
}

func (c *Console) Info(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.cyan(fmt.Sprintf(format, args...)))
}

func (c *Console) Warn(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.yellow(fmt.Sprintf(format, args...)))
}

func (c *Console) Error(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.red(fmt.Sprintf(format, args...)))
}

// Projects prints one row per project with its item and status counts.
func (c *Console) Projects(summaries []backlog.ProjectSummary) {
	if len(summaries) == 0 {
		c.Warn("No projects found.")
		return
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Items), StatusText(s)})
	}
	t := c.table("Project Name", "Items", "Status").Rows(rows...)
	c.titled("Available Projects", t.String())
}

// StatusText formats per-status counts as "todo: 2 | done: 1", or "Empty".
func StatusText(s backlog.ProjectSummary) string {
	if len(s.Statuses) == 0 {
		return "Empty"
	}
	parts := make([]string, len(s.Statuses))
	for i, sc := range s.Statuses {
		parts[i] = fmt.Sprintf("%s: %d", sc.Status, sc.Count)
	}
	return strings.Join(parts, " | ")
}

// Items prints one table per project group.
func (c *Console) Items(groups []backlog.ProjectItems) {
	if len(groups) == 0 {
		c.Warn("No items found.")
		return
	}
	for _, g := range groups {
		rows := make([][]string, 0, len(g.Items))
		for _, item := range g.Items {
			rows = append(rows, []string{
				item.ID,
				truncate(item.Title, maxTitleWidth),
				c.priorityStyles[item.Priority].Render(string(item.Priority)),
				c.statusStyles[item.Status].Render(string(item.Status)),
				orDash(item.Sprint),
				orDash(item.Epic),
				orDash(item.Assignee),
				pointsOr(item.StoryPoints, "-"),
			})
		}
		t := c.table("ID", "Title", "Priority", "Status", "Sprint", "Epic", "Assignee", "Points").Rows(rows...)
		c.titled("Backlog Items - "+g.Project, t.String())
	}
}

// ItemDetail prints every field of one item in a panel.
func (c *Console) ItemDetail(item types.Item) {
	label := c.r.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	line := func(name, value string) string {
		return label.Render(name+":") + " " + value
	}
	lines := []string{
		line("Title", item.Title),
		line("Description", item.Description),
		line("Priority", string(item.Priority)),
		line("Status", string(item.Status)),
		line("Sprint", orDefault(item.Sprint, "Not assigned")),
		line("Epic", orDefault(item.Epic, "Not assigned")),
		line("Assignee", orDefault(item.Assignee, "Unassigned")),
		line("Story Points", pointsOr(item.StoryPoints, "Not estimated")),
		line("Created", stamp(item.CreatedAt)),
		line("Updated", stamp(item.UpdatedAt)),
	}
	c.panel("Item Details - "+item.ID, "12", lines)
}

// Status prints the active project, project count and data directory.
func (c *Console) Status(st StatusInfo) {
	lines := []string{
		c.bold("Current Status:"),
		"• Active Project: " + orDefault(st.Project, "None"),
		"• Total Projects: " + strconv.Itoa(st.Projects),
		"• Data Directory: " + st.DataDir,
	}
	if st.Summary != nil {
		lines = append(lines, "", c.bold("Current Project Items:"))
		for _, sc := range st.Summary.Statuses {
			lines = append(lines, fmt.Sprintf("• %s: %d", sc.Status, sc.Count))
		}
		lines = append(lines, fmt.Sprintf("• Total: %d", st.Summary.Items))
	}
	c.panel("Status", "10", lines)
}

const helpText = `General:
  help, h, ?             Show this help message
  exit, quit, q          Exit the application
  clear, cls             Clear the screen
  status                 Show current status

Project Management:
  projects               List all projects
  use <project>          Switch to a project
  create-project <name>  Create a new project
  delete-project <name>  Delete a project

Item Management:
  items [filters]        List items in current project
  add [title] [desc]     Add a new item (interactive)
  update <id>            Update an item (interactive)
  delete <id>            Delete an item
  show <id>              Show item details

Export:
  export-csv [filename]  Export current project to CSV
  export-xlsx [filename] Export current project to Excel

Filtering Options (for 'items' command):
  --priority <level>     low, medium, high, critical
  --status <status>      todo, in_progress, done, blocked
  --sprint <name>        Filter by sprint
  --epic <name>          Filter by epic
  --assignee <name>      Filter by assignee

Examples:
  use web-app
  items --priority high --status todo
  add "User Login" "Implement authentication system"
  update WEB-APP-1
  show 1`

// Help prints the command reference.
func (c *Console) Help() {
	c.panel("Help", "12", strings.Split(helpText, "\n"))
}

func (c *Console) table(headers ...string) *table.Table {
	header := c.r.NewStyle().Bold(true).Padding(0, 1)
	cell := c.r.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(c.r.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func (c *Console) titled(title, body string) {
	fmt.Fprintln(c.out, c.r.NewStyle().Bold(true).Render(title))
	fmt.Fprintln(c.out, body)
}

func (c *Console) panel(title, borderColor string, lines []string) {
	box := c.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1)
	fmt.Fprintln(c.out, c.r.NewStyle().Bold(true).Render(title))
	fmt.Fprintln(c.out, box.Render(strings.Join(lines, "\n")))
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func orDash(s string) string {
	return orDefault(s, "-")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func pointsOr(p *int, def string) string {
	if p == nil {
		return def
	}
	return strconv.Itoa(*p)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("2006-01-02 15:04:05")
}
