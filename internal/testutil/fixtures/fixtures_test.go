package fixtures

import (
	"context"
	"testing"

	"github.com/backlogd/backlogd/internal/backlog"
	"github.com/backlogd/backlogd/internal/storage/memory"
	"github.com/backlogd/backlogd/internal/types"
)

func TestBacklog(t *testing.T) {
	ctx := context.Background()
	store, err := backlog.Open(ctx, memory.New())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	cfg := DefaultConfig()
	ids, err := Backlog(ctx, store, "web", cfg)
	if err != nil {
		t.Fatalf("Backlog failed: %v", err)
	}
	if len(ids) != cfg.TotalItems {
		t.Fatalf("Expected %d ids, got %d", cfg.TotalItems, len(ids))
	}

	items, err := store.Items("web")
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}

	statuses := map[types.Status]int{}
	for _, item := range items {
		statuses[item.Status]++
		if item.Sprint == "" {
			t.Errorf("item %s has no sprint", item.ID)
		}
	}
	if statuses[types.StatusTodo] == 0 || statuses[types.StatusDone] == 0 {
		t.Errorf("expected a mix of statuses, got %v", statuses)
	}
}

func TestBacklogIsReproducible(t *testing.T) {
	ctx := context.Background()
	titles := func() []types.Priority {
		store, err := backlog.Open(ctx, memory.New())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if _, err := Backlog(ctx, store, "api", DefaultConfig()); err != nil {
			t.Fatalf("Backlog failed: %v", err)
		}
		items, _ := store.Items("api")
		out := make([]types.Priority, len(items))
		for i, item := range items {
			out[i] = item.Priority
		}
		return out
	}

	a, b := titles(), titles()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("priority %d differs between runs: %s vs %s", i, a[i], b[i])
		}
	}
}
