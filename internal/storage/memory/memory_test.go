package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/backlogd/backlogd/internal/types"
)

func TestSaveLoadCopies(t *testing.T) {
	ctx := context.Background()
	m := New()

	item := &types.Item{ID: "WEB-1", Title: "Login", StoryPoints: types.IntPtr(3)}
	if err := m.SaveProject(ctx, "web", []*types.Item{item}); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	// Mutating the caller's item after save must not leak into storage
	item.Title = "changed"
	*item.StoryPoints = 99

	loaded, err := m.LoadProject(ctx, "web")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 item, got %d", len(loaded))
	}
	if loaded[0].Title != "Login" || *loaded[0].StoryPoints != 3 {
		t.Errorf("stored item was aliased: %+v", loaded[0])
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	m := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := m.SaveProject(ctx, name, nil); err != nil {
			t.Fatalf("SaveProject(%s) failed: %v", name, err)
		}
	}

	names, _ := m.ListProjects(ctx)
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ListProjects() = %v, want %v", names, want)
		}
	}

	if err := m.DeleteProject(ctx, "mid"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := m.LoadProject(ctx, "mid"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("LoadProject after delete: err = %v, want ErrNotFound", err)
	}
}

func TestFailSave(t *testing.T) {
	m := New()
	m.FailSave = errors.New("disk full")
	if err := m.SaveProject(context.Background(), "web", nil); err == nil {
		t.Error("SaveProject() = nil, want injected error")
	}
}
