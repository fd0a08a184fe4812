package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backlogd/backlogd/internal/backlog"
	"github.com/backlogd/backlogd/internal/types"
)

var inProcessMutex sync.Mutex // rootCmd, cobra flag state and globals are not thread-safe

// runInProcess executes backlogd with args against dir and returns its
// output. stdin feeds confirmations and the shell.
func runInProcess(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	inProcessMutex.Lock()
	defer inProcessMutex.Unlock()

	var out bytes.Buffer
	rootCmd.SetArgs(append([]string{"--data-dir", dir, "--actor", "tester", "--no-color"}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))

	err := rootCmd.Execute()

	closeStore()
	dataDir, actor, jsonOutput, noColor = "", "", false, false
	resetFlags(rootCmd)
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runInProcess(t, dir, "", args...)
	if err != nil {
		t.Fatalf("backlogd %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// resetFlags restores every flag to its default so state does not leak
// between in-process runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestProjectLifecycle(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "project", "create", "web")
	assertContains(t, out, "Project 'web' created successfully.")
	if _, err := os.Stat(filepath.Join(dir, "web.yaml")); err != nil {
		t.Fatalf("project document missing: %v", err)
	}

	out = mustRun(t, dir, "project", "list")
	assertContains(t, out, "Available Projects", "web", "Empty")

	if _, err := runInProcess(t, dir, "", "project", "create", "web"); !errors.Is(err, types.ErrAlreadyExists) {
		t.Errorf("duplicate create error = %v, want ErrAlreadyExists", err)
	}

	out, err := runInProcess(t, dir, "n\n", "project", "delete", "web")
	if err != nil {
		t.Fatalf("declined delete failed: %v", err)
	}
	assertContains(t, out, "Are you sure you want to delete project 'web'? [y/N]: ", "Deletion cancelled.")

	out, err = runInProcess(t, dir, "yes\n", "project", "delete", "web")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	assertContains(t, out, "Project 'web' deleted successfully.")
	if _, err := os.Stat(filepath.Join(dir, "web.yaml")); !os.IsNotExist(err) {
		t.Errorf("document still present after delete: %v", err)
	}

	if _, err := runInProcess(t, dir, "", "project", "delete", "web", "--yes"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestItemCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "project", "create", "web")

	out := mustRun(t, dir, "--json", "item", "add", "web", "Login", "OAuth flow",
		"--priority", "high", "--sprint", "s1", "--points", "5")
	var item types.Item
	if err := json.Unmarshal([]byte(out), &item); err != nil {
		t.Fatalf("parsing add output: %v\n%s", err, out)
	}
	if item.ID != "WEB-1" || item.Priority != types.PriorityHigh || item.Status != types.StatusTodo {
		t.Errorf("added item = %+v", item)
	}
	if item.StoryPoints == nil || *item.StoryPoints != 5 {
		t.Errorf("StoryPoints = %v, want 5", item.StoryPoints)
	}

	mustRun(t, dir, "item", "add", "web", "Footer", "Links")

	out = mustRun(t, dir, "item", "update", "web", "2", "--status", "in_progress", "--assignee", "bob")
	assertContains(t, out, "Item 'WEB-2' updated successfully.")

	out = mustRun(t, dir, "item", "show", "web", "WEB-2")
	assertContains(t, out, "Item Details - WEB-2", "Status: in_progress", "Assignee: bob", "Priority: medium")

	out = mustRun(t, dir, "--json", "item", "list", "--priority", "high")
	var groups []backlog.ProjectItems
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("parsing list output: %v\n%s", err, out)
	}
	if len(groups) != 1 || len(groups[0].Items) != 1 || groups[0].Items[0].ID != "WEB-1" {
		t.Errorf("filtered listing = %+v", groups)
	}

	out = mustRun(t, dir, "item", "update", "web", "WEB-1")
	assertContains(t, out, "No changes made.")
}

func TestItemListAcrossProjects(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "project", "create", "web")
	mustRun(t, dir, "project", "create", "api")
	mustRun(t, dir, "project", "create", "docs")
	mustRun(t, dir, "item", "add", "web", "Login", "x", "--priority", "high")
	mustRun(t, dir, "item", "add", "api", "Auth", "y", "--priority", "high")
	mustRun(t, dir, "item", "add", "docs", "Guide", "z", "--priority", "low")

	out := mustRun(t, dir, "item", "list", "--priority", "high", "--status", "todo")
	assertContains(t, out, "Backlog Items - web", "Backlog Items - api", "WEB-1", "API-1")
	if strings.Contains(out, "Backlog Items - docs") {
		t.Errorf("project without matches was listed:\n%s", out)
	}

	if _, err := runInProcess(t, dir, "", "item", "list", "--project", "mobile"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("missing project error = %v, want ErrNotFound", err)
	}
}

func TestItemErrors(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "project", "create", "web")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing project", []string{"item", "add", "ghost", "t", "d"}, types.ErrNotFound},
		{"bad priority", []string{"item", "add", "web", "t", "d", "--priority", "urgent"}, types.ErrValidation},
		{"bad status", []string{"item", "update", "web", "1", "--status", "closed"}, types.ErrValidation},
		{"missing item", []string{"item", "show", "web", "WEB-42"}, types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runInProcess(t, dir, "", tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := runInProcess(t, dir, "", "item", "add", "web", "only-title"); err == nil {
		t.Error("missing argument accepted")
	}
}

func TestItemDeleteConfirmation(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "project", "create", "web")
	mustRun(t, dir, "item", "add", "web", "Login", "x")

	out, err := runInProcess(t, dir, "", "item", "delete", "web", "1")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Delete item 'WEB-1: Login'? [y/N]: ", "Deletion cancelled.")

	out = mustRun(t, dir, "item", "delete", "web", "WEB-1", "--yes")
	assertContains(t, out, "Item 'WEB-1' deleted successfully.")

	out = mustRun(t, dir, "item", "add", "web", "Next", "x")
	assertContains(t, out, "Item 'WEB-1' added")
}

func TestExportCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "project", "create", "web")

	out := mustRun(t, dir, "export", "csv", "web")
	assertContains(t, out, "No items to export in project 'web'.")

	mustRun(t, dir, "item", "add", "web", "Login", "OAuth, with comma")
	csvPath := filepath.Join(dir, "out.csv")
	out = mustRun(t, dir, "export", "csv", "web", "--filename", csvPath)
	assertContains(t, out, "Exported to "+csvPath)

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != strings.Join(types.FieldNames(), ",") {
		t.Errorf("CSV = %q", string(data))
	}

	xlsxPath := filepath.Join(dir, "out.xlsx")
	mustRun(t, dir, "export", "xlsx", "web", "--filename", xlsxPath)
	if _, err := os.Stat(xlsxPath); err != nil {
		t.Errorf("xlsx export missing: %v", err)
	}
}

func TestShellFromStdin(t *testing.T) {
	dir := t.TempDir()
	script := strings.Join([]string{
		"create-project web",
		`add "Login" "OAuth flow"`,
		"high", "", "", "", "3",
		"items",
		"exit",
	}, "\n") + "\n"

	out, err := runInProcess(t, dir, script)
	if err != nil {
		t.Fatalf("shell failed: %v\n%s", err, out)
	}
	assertContains(t, out,
		"backlogd[no project]>> ",
		"Project 'web' created successfully.",
		"Item 'WEB-1' added to project 'web'.",
		"Backlog Items - web",
		"Goodbye!",
	)

	data, err := os.ReadFile(filepath.Join(dir, "web.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(data), "id: WEB-1", "priority: high", "story_points: 3")
}

func TestDataDirMetadataAndActivityLog(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "project", "create", "web")
	mustRun(t, dir, "item", "add", "web", "Login", "x")

	meta, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatalf("metadata.json missing: %v", err)
	}
	assertContains(t, string(meta), `"format": "yaml"`, Version)

	log, err := os.ReadFile(filepath.Join(dir, "backlogd.log"))
	if err != nil {
		t.Fatalf("activity log missing: %v", err)
	}
	assertContains(t, string(log),
		"actor=tester action=create-project project=web",
		"actor=tester action=add project=web item=WEB-1",
	)
}

func TestVersion(t *testing.T) {
	out := mustRun(t, t.TempDir(), "version")
	assertContains(t, out, "backlogd version "+Version)
}
