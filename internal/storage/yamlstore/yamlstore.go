// Package yamlstore implements storage.Storage with one YAML document per
// project: <dir>/<project>.yaml holding the ordered item list.
package yamlstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/backlogd/backlogd/internal/debug"
	"github.com/backlogd/backlogd/internal/types"
)

// Ext is the document file extension.
const Ext = ".yaml"

const (
	dirPerms  = 0o750
	filePerms = 0o644
)

// Store keeps project documents in a single directory.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating the directory if needed.
// Failure to create it is fatal for the caller.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Location returns the data directory.
func (s *Store) Location() string {
	return s.dir
}

// ProjectPath returns the document path for a project.
func (s *Store) ProjectPath(name string) string {
	return filepath.Join(s.dir, name+Ext)
}

// ListProjects returns the stem of every *.yaml file in the directory, sorted.
func (s *Store) ListProjects(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", types.ErrPersistence, s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), Ext)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadProject parses one project document.
func (s *Store) LoadProject(_ context.Context, name string) ([]*types.Item, error) {
	path := s.ProjectPath(name)
	// #nosec G304 - path is built from the data directory and a project name
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("project '%s' %w", name, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", types.ErrPersistence, path, err)
	}

	items, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", types.ErrPersistence, path, err)
	}
	debug.Logf("loaded %d items from %s", len(items), path)
	return items, nil
}

// SaveProject encodes items and atomically replaces the document.
func (s *Store) SaveProject(_ context.Context, name string, items []*types.Item) error {
	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("%w: encoding project '%s': %v", types.ErrPersistence, name, err)
	}

	path := s.ProjectPath(name)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", types.ErrPersistence, path, err)
	}
	// atomic.WriteFile creates new files with temp-file permissions
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("%w: setting permissions on %s: %v", types.ErrPersistence, path, err)
	}
	debug.Logf("saved %d items to %s", len(items), path)
	return nil
}

// DeleteProject removes the document if present.
func (s *Store) DeleteProject(_ context.Context, name string) error {
	err := os.Remove(s.ProjectPath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: removing %s: %v", types.ErrPersistence, s.ProjectPath(name), err)
	}
	return nil
}

// Encode renders items as a YAML sequence in field order.
func Encode(items []*types.Item) ([]byte, error) {
	doc := make([]*types.Item, 0, len(items))
	doc = append(doc, items...)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a project document. An empty document is an empty project.
// Unknown fields, invalid enum values and duplicate identifiers are errors.
func Decode(data []byte) ([]*types.Item, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw []*record
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	items := make([]*types.Item, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, rec := range raw {
		if rec == nil {
			continue
		}
		item := rec.item()
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("item %d: duplicate id %s", i+1, item.ID)
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	return items, nil
}
