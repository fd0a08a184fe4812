package yamlstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/backlogd/backlogd/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func sampleItems() []*types.Item {
	created := time.Date(2025, 1, 15, 10, 0, 0, 123456789, time.UTC)
	return []*types.Item{
		{
			ID:          "WEB-1",
			Title:       "Login",
			Description: "OAuth flow",
			Priority:    types.PriorityHigh,
			Status:      types.StatusTodo,
			Sprint:      "sprint-1",
			Epic:        "auth",
			Assignee:    "alice",
			StoryPoints: types.IntPtr(5),
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Hour),
		},
		{
			ID:          "WEB-2",
			Title:       "Logout: \"quick\" fix",
			Description: "multi\nline",
			Priority:    types.PriorityLow,
			Status:      types.StatusDone,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	items := sampleItems()

	if err := s.SaveProject(ctx, "web", items); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}
	loaded, err := s.LoadProject(ctx, "web")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if diff := cmp.Diff(items, loaded); diff != "" {
		t.Errorf("roundtrip mismatch (-saved +loaded):\n%s", diff)
	}

	// Re-saving what was loaded must reproduce the same records
	if err := s.SaveProject(ctx, "web", loaded); err != nil {
		t.Fatalf("second SaveProject failed: %v", err)
	}
	again, err := s.LoadProject(ctx, "web")
	if err != nil {
		t.Fatalf("second LoadProject failed: %v", err)
	}
	if diff := cmp.Diff(loaded, again); diff != "" {
		t.Errorf("second roundtrip mismatch:\n%s", diff)
	}
}

func TestEncodeFieldOrder(t *testing.T) {
	data, err := Encode(sampleItems()[:1])
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	text := string(data)
	last := -1
	for _, name := range types.FieldNames() {
		idx := strings.Index(text, name+":")
		if idx < 0 {
			t.Fatalf("field %s missing from document:\n%s", name, text)
		}
		if idx < last {
			t.Errorf("field %s out of order in document:\n%s", name, text)
		}
		last = idx
	}
}

func TestEmptyProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.SaveProject(ctx, "empty", nil); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}
	data, err := os.ReadFile(s.ProjectPath("empty"))
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty document = %q, want []", data)
	}

	items, err := s.LoadProject(ctx, "empty")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected 0 items, got %d", len(items))
	}
}

func TestLoadZeroLengthFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.ProjectPath("blank"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := s.LoadProject(context.Background(), "blank")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected 0 items, got %d", len(items))
	}
}

func TestListProjectsIgnoresOtherFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"web", "api"} {
		if err := s.SaveProject(ctx, name, nil); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"metadata.json", "backlogd.log", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(s.Location(), f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(s.Location(), "dir.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if diff := cmp.Diff([]string{"api", "web"}, names); diff != "" {
		t.Errorf("ListProjects mismatch:\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "- id: [unclosed\n"},
		{"not a sequence", "id: WEB-1\n"},
		{"unknown field", "- id: WEB-1\n  priority: low\n  status: todo\n  color: red\n"},
		{"invalid status", "- id: WEB-1\n  priority: low\n  status: closed\n"},
		{"duplicate id", "- id: WEB-1\n  priority: low\n  status: todo\n- id: WEB-1\n  priority: low\n  status: todo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := os.WriteFile(s.ProjectPath("bad"), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := s.LoadProject(context.Background(), "bad")
			if !errors.Is(err, types.ErrPersistence) {
				t.Errorf("LoadProject() error = %v, want ErrPersistence", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadProject(context.Background(), "nope")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("LoadProject() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.SaveProject(ctx, "web", sampleItems()); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteProject(ctx, "web"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := os.Stat(s.ProjectPath("web")); !os.IsNotExist(err) {
		t.Errorf("document still exists after delete: %v", err)
	}
	if err := s.DeleteProject(ctx, "web"); err != nil {
		t.Errorf("deleting a missing project: %v, want nil", err)
	}
}

func TestSavePermissions(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveProject(context.Background(), "web", nil); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(s.ProjectPath("web"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != filePerms {
		t.Errorf("permissions = %v, want %v", info.Mode().Perm(), os.FileMode(filePerms))
	}
}

func TestLoadNaiveTimestamps(t *testing.T) {
	// yaml.dump of dataclass items with isoformat() timestamps
	doc := `- id: WEB-1
  title: Login
  description: OAuth flow
  priority: high
  status: todo
  sprint: null
  epic: null
  assignee: null
  story_points: null
  created_at: '2024-01-02T10:00:00.123456'
  updated_at: '2024-01-02T11:30:00'
- id: WEB-2
  title: Logout
  description: ''
  priority: medium
  status: done
  sprint: s1
  epic: null
  assignee: bob
  story_points: 3
  created_at: '2024-01-03T09:00:00+02:00'
  updated_at: 2024-01-03T09:15:00Z
`
	s := newTestStore(t)
	if err := os.WriteFile(s.ProjectPath("web"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := s.LoadProject(context.Background(), "web")
	if err != nil {
		t.Fatalf("LoadProject() failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.Sprint != "" || first.Epic != "" || first.Assignee != "" || first.StoryPoints != nil {
		t.Errorf("null optional fields not unset: %+v", first)
	}
	wantCreated := time.Date(2024, 1, 2, 10, 0, 0, 123456000, time.Local)
	if !first.CreatedAt.Equal(wantCreated) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, wantCreated)
	}
	wantUpdated := time.Date(2024, 1, 2, 11, 30, 0, 0, time.Local)
	if !first.UpdatedAt.Equal(wantUpdated) {
		t.Errorf("UpdatedAt = %v, want %v", first.UpdatedAt, wantUpdated)
	}

	second := items[1]
	if second.StoryPoints == nil || *second.StoryPoints != 3 {
		t.Errorf("StoryPoints = %v, want 3", second.StoryPoints)
	}
	if want := time.Date(2024, 1, 3, 7, 0, 0, 0, time.UTC); !second.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", second.CreatedAt, want)
	}
	if want := time.Date(2024, 1, 3, 9, 15, 0, 0, time.UTC); !second.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", second.UpdatedAt, want)
	}
}

func TestDecodeRejectsBadTimestamp(t *testing.T) {
	doc := "- id: A-1\n  title: x\n  description: ''\n  priority: low\n  status: todo\n  created_at: yesterday\n"
	if _, err := Decode([]byte(doc)); err == nil {
		t.Error("Decode() accepted an invalid timestamp")
	}
}
