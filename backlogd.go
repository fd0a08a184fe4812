// Package backlogd provides a minimal public API over backlogd data
// directories, for Go programs that want to read or edit backlogs without
// going through the command line.
package backlogd

import (
	"context"

	"github.com/backlogd/backlogd/internal/backlog"
	"github.com/backlogd/backlogd/internal/storage/memory"
	"github.com/backlogd/backlogd/internal/storage/yamlstore"
	"github.com/backlogd/backlogd/internal/types"
)

// Store owns every project of a data directory
type Store = backlog.Store

// Core types
type (
	Item           = types.Item
	Priority       = types.Priority
	Status         = types.Status
	NewItem        = types.NewItem
	ItemUpdates    = types.ItemUpdates
	ItemFilter     = types.ItemFilter
	ProjectItems   = backlog.ProjectItems
	ProjectSummary = backlog.ProjectSummary
	StatusCount    = backlog.StatusCount
	ConfirmFunc    = backlog.ConfirmFunc
)

// Priority constants
const (
	PriorityLow      = types.PriorityLow
	PriorityMedium   = types.PriorityMedium
	PriorityHigh     = types.PriorityHigh
	PriorityCritical = types.PriorityCritical
)

// Status constants
const (
	StatusTodo       = types.StatusTodo
	StatusInProgress = types.StatusInProgress
	StatusDone       = types.StatusDone
	StatusBlocked    = types.StatusBlocked
)

// Errors, for use with errors.Is
var (
	ErrNotFound      = types.ErrNotFound
	ErrAlreadyExists = types.ErrAlreadyExists
	ErrValidation    = types.ErrValidation
	ErrPersistence   = types.ErrPersistence
)

// Open loads every project document in dataDir, creating the directory if
// it does not exist.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	st, err := yamlstore.New(dataDir)
	if err != nil {
		return nil, err
	}
	return backlog.Open(ctx, st)
}

// OpenMemory returns an empty store that is never written to disk.
func OpenMemory(ctx context.Context) (*Store, error) {
	return backlog.Open(ctx, memory.New())
}

// Confirm approves every destructive operation. Pass it to DeleteProject
// or DeleteItem when no user is present.
func Confirm(string) bool { return true }
