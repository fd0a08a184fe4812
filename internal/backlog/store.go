// Package backlog implements the project store: the in-memory owner of every
// project and item, backed by a storage.Storage adapter.
//
// Every mutation re-saves the whole owning project. The store is meant for a
// single goroutine in a single process; concurrent writers against the same
// data directory are last-writer-wins per project.
package backlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/backlogd/backlogd/internal/activity"
	"github.com/backlogd/backlogd/internal/debug"
	"github.com/backlogd/backlogd/internal/storage"
	"github.com/backlogd/backlogd/internal/types"
	"github.com/backlogd/backlogd/internal/utils"
)

// ConfirmFunc asks the user to approve a destructive operation.
type ConfirmFunc func(prompt string) bool

// Recorder receives one event per successful mutation.
type Recorder interface {
	Record(ev activity.Event) error
}

// Project is a named, ordered list of items.
type Project struct {
	Name  string
	Items []*types.Item
}

func (p *Project) find(id string) (int, *types.Item) {
	for i, item := range p.Items {
		if item.ID == id {
			return i, item
		}
	}
	return -1, nil
}

// ProjectItems is one project's slice of a listing.
type ProjectItems struct {
	Project string       `json:"project"`
	Items   []types.Item `json:"items"`
}

// StatusCount is the number of items in one status.
type StatusCount struct {
	Status types.Status `json:"status"`
	Count  int          `json:"count"`
}

// ProjectSummary describes a project for listings.
type ProjectSummary struct {
	Name     string        `json:"name"`
	Items    int           `json:"items"`
	Statuses []StatusCount `json:"statuses"`
}

// Store owns all projects and items.
type Store struct {
	storage    storage.Storage
	projects   map[string]*Project
	order      []string
	now        func() time.Time
	recorder   Recorder
	loadErrors []error

	// projects whose document exists but failed to load
	unloaded map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRecorder reports mutations to r.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// Open creates a store and loads every project the adapter lists. A project
// that fails to load is skipped and reported through LoadErrors; only a
// failure to list projects at all is returned.
func Open(ctx context.Context, st storage.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage:  st,
		projects: make(map[string]*Project),
		unloaded: make(map[string]bool),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.loadAll(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadAll(ctx context.Context) error {
	names, err := s.storage.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		items, err := s.storage.LoadProject(ctx, name)
		if err != nil {
			debug.Logf("skipping project %s: %v", name, err)
			s.loadErrors = append(s.loadErrors, fmt.Errorf("loading project '%s': %w", name, err))
			s.unloaded[name] = true
			continue
		}
		s.projects[name] = &Project{Name: name, Items: items}
		s.order = append(s.order, name)
	}
	debug.Logf("loaded %d projects from %s", len(s.order), s.storage.Location())
	return nil
}

// LoadErrors returns the per-project failures from Open.
func (s *Store) LoadErrors() []error {
	return s.loadErrors
}

// Location returns where the adapter keeps documents.
func (s *Store) Location() string {
	return s.storage.Location()
}

// Projects returns the project names in load/creation order.
func (s *Store) Projects() []string {
	return append([]string(nil), s.order...)
}

// Has reports whether a project is loaded.
func (s *Store) Has(name string) bool {
	_, ok := s.projects[name]
	return ok
}

func (s *Store) project(name string) (*Project, error) {
	p, ok := s.projects[name]
	if !ok {
		return nil, fmt.Errorf("project '%s' %w", name, types.ErrNotFound)
	}
	return p, nil
}

func (s *Store) save(ctx context.Context, p *Project) error {
	if err := s.storage.SaveProject(ctx, p.Name, p.Items); err != nil {
		return fmt.Errorf("saving project '%s': %w", p.Name, err)
	}
	return nil
}

func (s *Store) record(ev activity.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ev); err != nil {
		debug.Logf("activity log: %v", err)
	}
}

// ValidateProjectName rejects names that cannot be used as a document key.
func ValidateProjectName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: project name is required", types.ErrValidation)
	case name == "." || name == "..":
		return fmt.Errorf("%w: project name %q", types.ErrValidation, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: project name %q must not contain path separators", types.ErrValidation, name)
	}
	return nil
}

// CreateProject adds an empty project and persists it immediately.
func (s *Store) CreateProject(ctx context.Context, name string) error {
	if err := ValidateProjectName(name); err != nil {
		return err
	}
	if s.Has(name) {
		return fmt.Errorf("project '%s' %w", name, types.ErrAlreadyExists)
	}
	if s.unloaded[name] {
		return fmt.Errorf("project '%s' %w but could not be loaded", name, types.ErrAlreadyExists)
	}
	p := &Project{Name: name, Items: []*types.Item{}}
	s.projects[name] = p
	s.order = append(s.order, name)
	if err := s.save(ctx, p); err != nil {
		return err
	}
	s.record(activity.Event{Action: activity.ActionCreateProject, Project: name})
	return nil
}

// DeleteProject removes a project and its document once confirm approves.
// Declining returns (false, nil) with nothing changed.
func (s *Store) DeleteProject(ctx context.Context, name string, confirm ConfirmFunc) (bool, error) {
	if _, err := s.project(name); err != nil {
		return false, err
	}
	if confirm == nil || !confirm(fmt.Sprintf("Are you sure you want to delete project '%s'?", name)) {
		return false, nil
	}
	if err := s.storage.DeleteProject(ctx, name); err != nil {
		return false, fmt.Errorf("deleting project '%s': %w", name, err)
	}
	delete(s.projects, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.record(activity.Event{Action: activity.ActionDeleteProject, Project: name})
	return true, nil
}

// GenerateItemID returns the next free identifier for a project. The counter
// starts at len(items)+1 and advances past any identifier already in use.
func (s *Store) GenerateItemID(name string) string {
	p, ok := s.projects[name]
	if !ok {
		return utils.FormatItemID(name, 1)
	}
	existing := make(map[string]bool, len(p.Items))
	for _, item := range p.Items {
		existing[item.ID] = true
	}
	counter := len(p.Items) + 1
	for existing[utils.FormatItemID(name, counter)] {
		counter++
	}
	return utils.FormatItemID(name, counter)
}

// AddItem appends a new item with status todo and persists the project.
func (s *Store) AddItem(ctx context.Context, name string, in types.NewItem) (types.Item, error) {
	p, err := s.project(name)
	if err != nil {
		return types.Item{}, err
	}
	priority := in.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}

	now := s.now()
	item := &types.Item{
		ID:          s.GenerateItemID(name),
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      types.StatusTodo,
		Sprint:      in.Sprint,
		Epic:        in.Epic,
		Assignee:    in.Assignee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.StoryPoints != nil {
		item.StoryPoints = types.IntPtr(*in.StoryPoints)
	}
	if err := item.Validate(); err != nil {
		return types.Item{}, err
	}

	p.Items = append(p.Items, item)
	if err := s.save(ctx, p); err != nil {
		return item.Clone(), err
	}
	s.record(activity.Event{Action: activity.ActionAddItem, Project: name, ItemID: item.ID})
	return item.Clone(), nil
}

// UpdateItem applies the set slots of upd and refreshes updated_at, which
// always moves forward even if the clock has not.
func (s *Store) UpdateItem(ctx context.Context, name, id string, upd types.ItemUpdates) (types.Item, error) {
	p, err := s.project(name)
	if err != nil {
		return types.Item{}, err
	}
	_, item := p.find(id)
	if item == nil {
		return types.Item{}, fmt.Errorf("item '%s' %w in project '%s'", id, types.ErrNotFound, name)
	}
	if err := upd.Validate(); err != nil {
		return types.Item{}, err
	}

	upd.Apply(item)
	now := s.now()
	if !now.After(item.UpdatedAt) {
		now = item.UpdatedAt.Add(time.Microsecond)
	}
	item.UpdatedAt = now

	if err := s.save(ctx, p); err != nil {
		return item.Clone(), err
	}
	s.record(activity.Event{Action: activity.ActionUpdateItem, Project: name, ItemID: id, Detail: describeUpdates(upd)})
	return item.Clone(), nil
}

// DeleteItem removes an item once confirm approves.
func (s *Store) DeleteItem(ctx context.Context, name, id string, confirm ConfirmFunc) (bool, error) {
	p, err := s.project(name)
	if err != nil {
		return false, err
	}
	idx, item := p.find(id)
	if item == nil {
		return false, fmt.Errorf("item '%s' %w in project '%s'", id, types.ErrNotFound, name)
	}
	if confirm == nil || !confirm(fmt.Sprintf("Delete item '%s: %s'?", item.ID, item.Title)) {
		return false, nil
	}

	p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
	if err := s.save(ctx, p); err != nil {
		return true, err
	}
	s.record(activity.Event{Action: activity.ActionDeleteItem, Project: name, ItemID: id})
	return true, nil
}

// ShowItem returns a copy of one item.
func (s *Store) ShowItem(name, id string) (types.Item, error) {
	p, err := s.project(name)
	if err != nil {
		return types.Item{}, err
	}
	_, item := p.find(id)
	if item == nil {
		return types.Item{}, fmt.Errorf("item '%s' %w in project '%s'", id, types.ErrNotFound, name)
	}
	return item.Clone(), nil
}

// Items returns copies of a project's items in order.
func (s *Store) Items(name string) ([]types.Item, error) {
	p, err := s.project(name)
	if err != nil {
		return nil, err
	}
	return cloneAll(p.Items, nil), nil
}

// ListItems returns the items matching every predicate of f, grouped by
// project. Without a project predicate all projects are searched. Projects
// with no matches are left out.
func (s *Store) ListItems(f types.ItemFilter) ([]ProjectItems, error) {
	names := s.order
	if f.Project != nil {
		if _, err := s.project(*f.Project); err != nil {
			return nil, err
		}
		names = []string{*f.Project}
	}

	var out []ProjectItems
	for _, name := range names {
		matched := cloneAll(s.projects[name].Items, &f)
		if len(matched) == 0 {
			continue
		}
		out = append(out, ProjectItems{Project: name, Items: matched})
	}
	return out, nil
}

// Summary counts a project's items by status.
func (s *Store) Summary(name string) (ProjectSummary, error) {
	p, err := s.project(name)
	if err != nil {
		return ProjectSummary{}, err
	}
	counts := make(map[types.Status]int)
	for _, item := range p.Items {
		counts[item.Status]++
	}
	sum := ProjectSummary{Name: name, Items: len(p.Items)}
	for _, st := range types.Statuses {
		if counts[st] > 0 {
			sum.Statuses = append(sum.Statuses, StatusCount{Status: st, Count: counts[st]})
		}
	}
	return sum, nil
}

// Summaries returns a summary per project in order.
func (s *Store) Summaries() []ProjectSummary {
	out := make([]ProjectSummary, 0, len(s.order))
	for _, name := range s.order {
		sum, _ := s.Summary(name)
		out = append(out, sum)
	}
	return out
}

func cloneAll(items []*types.Item, f *types.ItemFilter) []types.Item {
	out := make([]types.Item, 0, len(items))
	for _, item := range items {
		if f != nil && !f.Matches(item) {
			continue
		}
		out = append(out, item.Clone())
	}
	return out
}

func describeUpdates(u types.ItemUpdates) string {
	var fields []string
	if u.Title != nil {
		fields = append(fields, "title")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Priority != nil {
		fields = append(fields, "priority="+string(*u.Priority))
	}
	if u.Status != nil {
		fields = append(fields, "status="+string(*u.Status))
	}
	if u.Sprint != nil {
		fields = append(fields, "sprint")
	}
	if u.Epic != nil {
		fields = append(fields, "epic")
	}
	if u.Assignee != nil {
		fields = append(fields, "assignee")
	}
	if u.StoryPoints != nil {
		fields = append(fields, "story_points")
	}
	return strings.Join(fields, ",")
}
