// Package memory implements the storage interface using in-memory data structures.
// It backs tests and programmatic use where no data directory is wanted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/backlogd/backlogd/internal/types"
)

// MemoryStorage implements storage.Storage with a map of project name to items.
type MemoryStorage struct {
	mu       sync.RWMutex
	projects map[string][]types.Item

	// FailSave, when set, is returned by SaveProject. Tests use it to
	// simulate write failures.
	FailSave error
}

// New creates a new in-memory storage backend
func New() *MemoryStorage {
	return &MemoryStorage{projects: make(map[string][]types.Item)}
}

// ListProjects returns all project names sorted.
func (m *MemoryStorage) ListProjects(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.projects))
	for name := range m.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadProject returns copies of the stored items.
func (m *MemoryStorage) LoadProject(_ context.Context, name string) ([]*types.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items, ok := m.projects[name]
	if !ok {
		return nil, fmt.Errorf("project '%s' %w", name, types.ErrNotFound)
	}
	out := make([]*types.Item, len(items))
	for i := range items {
		c := items[i].Clone()
		out[i] = &c
	}
	return out, nil
}

// SaveProject stores copies of items.
func (m *MemoryStorage) SaveProject(_ context.Context, name string, items []*types.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSave != nil {
		return m.FailSave
	}
	stored := make([]types.Item, len(items))
	for i, item := range items {
		stored[i] = item.Clone()
	}
	m.projects[name] = stored
	return nil
}

// DeleteProject removes a project.
func (m *MemoryStorage) DeleteProject(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, name)
	return nil
}

// Location identifies the backend.
func (m *MemoryStorage) Location() string {
	return ":memory:"
}
