// Package fixtures provides realistic backlog data for tests.
package fixtures

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/backlogd/backlogd/internal/backlog"
	"github.com/backlogd/backlogd/internal/types"
)

// assignees used across all fixtures
var commonAssignees = []string{
	"alice",
	"bob",
	"charlie",
	"diana",
	"eve",
	"frank",
}

// epic names for realistic data
var epicNames = []string{
	"authentication",
	"payments",
	"mobile-redesign",
	"performance",
	"api-v2",
	"search",
	"analytics",
	"notifications",
}

// item titles (under epics)
var itemTitles = []string{
	"Implement login endpoint",
	"Add validation logic",
	"Write unit tests",
	"Update documentation",
	"Fix memory leak",
	"Optimize query performance",
	"Add error logging",
	"Refactor helper functions",
	"Configure deployment",
	"Password reset flow",
}

// DataConfig controls the distribution of generated items
type DataConfig struct {
	TotalItems   int     // number of items to add
	Sprints      int     // items are spread over sprint-1..sprint-N; 0 leaves sprint unset
	DoneRatio    float64 // fraction of items moved to done
	BlockedRatio float64 // fraction of items moved to blocked
	RandSeed     int64   // random seed for reproducibility
}

// DefaultConfig returns a small, varied backlog.
func DefaultConfig() DataConfig {
	return DataConfig{
		TotalItems:   40,
		Sprints:      3,
		DoneRatio:    0.3,
		BlockedRatio: 0.1,
		RandSeed:     42,
	}
}

// Backlog fills project (creating it if needed) with generated items.
// Returns the identifiers of the added items in order.
func Backlog(ctx context.Context, store *backlog.Store, project string, cfg DataConfig) ([]string, error) {
	if !store.Has(project) {
		if err := store.CreateProject(ctx, project); err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewSource(cfg.RandSeed))

	ids := make([]string, 0, cfg.TotalItems)
	for i := 0; i < cfg.TotalItems; i++ {
		in := types.NewItem{
			Title:       fmt.Sprintf("%s (%d)", itemTitles[i%len(itemTitles)], i),
			Description: fmt.Sprintf("Generated item %d for %s", i, project),
			Priority:    types.Priorities[rng.Intn(len(types.Priorities))],
			Epic:        epicNames[rng.Intn(len(epicNames))],
		}
		if cfg.Sprints > 0 {
			in.Sprint = fmt.Sprintf("sprint-%d", rng.Intn(cfg.Sprints)+1)
		}
		if rng.Intn(3) > 0 {
			in.Assignee = commonAssignees[rng.Intn(len(commonAssignees))]
		}
		if rng.Intn(2) == 0 {
			in.StoryPoints = types.IntPtr([]int{1, 2, 3, 5, 8, 13}[rng.Intn(6)])
		}

		item, err := store.AddItem(ctx, project, in)
		if err != nil {
			return ids, fmt.Errorf("adding fixture item %d: %w", i, err)
		}
		ids = append(ids, item.ID)

		var status *types.Status
		switch r := rng.Float64(); {
		case r < cfg.DoneRatio:
			s := types.StatusDone
			status = &s
		case r < cfg.DoneRatio+cfg.BlockedRatio:
			s := types.StatusBlocked
			status = &s
		case r < cfg.DoneRatio+cfg.BlockedRatio+0.2:
			s := types.StatusInProgress
			status = &s
		}
		if status != nil {
			if _, err := store.UpdateItem(ctx, project, item.ID, types.ItemUpdates{Status: status}); err != nil {
				return ids, fmt.Errorf("updating fixture item %s: %w", item.ID, err)
			}
		}
	}
	return ids, nil
}
