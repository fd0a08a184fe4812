// Package storage defines the persistence contract for backlog projects.
// Each project is one document holding its ordered item list.
package storage

import (
	"context"

	"github.com/backlogd/backlogd/internal/types"
)

// Storage is the persistence adapter used by the project store.
// Implementations overwrite whole documents; there is no partial update.
type Storage interface {
	// ListProjects returns the names of all persisted projects in name order.
	ListProjects(ctx context.Context) ([]string, error)

	// LoadProject reads and parses one project document.
	// Returns an error wrapping types.ErrNotFound if it does not exist.
	LoadProject(ctx context.Context, name string) ([]*types.Item, error)

	// SaveProject overwrites the document for name with items, in order.
	SaveProject(ctx context.Context, name string, items []*types.Item) error

	// DeleteProject removes the document. Removing a missing document is not an error.
	DeleteProject(ctx context.Context, name string) error

	// Location describes where documents live (a directory path for files).
	Location() string
}
