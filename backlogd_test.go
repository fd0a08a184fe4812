package backlogd

import (
	"context"
	"errors"
	"testing"
)

func TestOpenPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.CreateProject(ctx, "web"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddItem(ctx, "web", NewItem{Title: "Login", Priority: PriorityHigh}); err != nil {
		t.Fatal(err)
	}

	again, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	item, err := again.ShowItem("web", "WEB-1")
	if err != nil {
		t.Fatalf("ShowItem after reopen: %v", err)
	}
	if item.Priority != PriorityHigh || item.Status != StatusTodo {
		t.Errorf("item = %+v", item)
	}
}

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenMemory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.CreateProject(ctx, "api"); err != nil {
		t.Fatal(err)
	}
	deleted, err := s.DeleteProject(ctx, "api", Confirm)
	if err != nil || !deleted {
		t.Fatalf("DeleteProject = (%v, %v)", deleted, err)
	}
	if _, err := s.Items("api"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Items after delete = %v, want ErrNotFound", err)
	}
}
