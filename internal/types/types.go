// Package types defines core data structures for the backlogd backlog tracker.
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item is a single backlog entry. Field order is the persisted field order
// and the export column order.
type Item struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Priority    Priority  `yaml:"priority" json:"priority"`
	Status      Status    `yaml:"status" json:"status"`
	Sprint      string    `yaml:"sprint" json:"sprint,omitempty"`
	Epic        string    `yaml:"epic" json:"epic,omitempty"`
	Assignee    string    `yaml:"assignee" json:"assignee,omitempty"`
	StoryPoints *int      `yaml:"story_points" json:"story_points,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
}

// FieldNames returns the item field names in declared order.
func FieldNames() []string {
	return []string{
		"id",
		"title",
		"description",
		"priority",
		"status",
		"sprint",
		"epic",
		"assignee",
		"story_points",
		"created_at",
		"updated_at",
	}
}

// Record returns the item as strings, one per FieldNames entry.
// Unset optional fields are empty strings.
func (i Item) Record() []string {
	points := ""
	if i.StoryPoints != nil {
		points = strconv.Itoa(*i.StoryPoints)
	}
	return []string{
		i.ID,
		i.Title,
		i.Description,
		string(i.Priority),
		string(i.Status),
		i.Sprint,
		i.Epic,
		i.Assignee,
		points,
		formatTime(i.CreatedAt),
		formatTime(i.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Clone returns a deep copy so callers never alias store-owned data.
func (i Item) Clone() Item {
	c := i
	if i.StoryPoints != nil {
		p := *i.StoryPoints
		c.StoryPoints = &p
	}
	return c
}

// Validate checks enum fields and story points.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: item id is required", ErrValidation)
	}
	if !i.Priority.IsValid() {
		return fmt.Errorf("%w: priority %q", ErrValidation, i.Priority)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("%w: status %q", ErrValidation, i.Status)
	}
	if i.StoryPoints != nil && *i.StoryPoints < 0 {
		return fmt.Errorf("%w: story_points cannot be negative", ErrValidation)
	}
	return nil
}

// Priority of a backlog item
type Priority string

// Priority constants
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// IsValid checks if the priority value is one of the known levels
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ParsePriority converts user input to a Priority (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: priority %q (expected %s)", ErrValidation, s, joinChoices(PriorityChoices()))
	}
	return p, nil
}

// PriorityChoices returns the priorities as strings, for prompts and flag help.
func PriorityChoices() []string {
	out := make([]string, len(Priorities))
	for i, p := range Priorities {
		out[i] = string(p)
	}
	return out
}

// Status of a backlog item
type Status string

// Status constants
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// Statuses lists the valid statuses in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}

// IsValid checks if the status value is one of the known states
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// ParseStatus converts user input to a Status (case-insensitive).
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: status %q (expected %s)", ErrValidation, s, joinChoices(StatusChoices()))
	}
	return st, nil
}

// StatusChoices returns the statuses as strings, for prompts and flag help.
func StatusChoices() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

func joinChoices(choices []string) string {
	return strings.Join(choices, ", ")
}

// NewItem holds the caller-supplied fields of an item being added.
// An empty Priority means medium.
type NewItem struct {
	Title       string
	Description string
	Priority    Priority
	Sprint      string
	Epic        string
	Assignee    string
	StoryPoints *int
}

// ItemUpdates has one optional slot per mutable field. Nil slots are left
// unchanged.
type ItemUpdates struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	Sprint      *string
	Epic        *string
	Assignee    *string
	StoryPoints *int
}

// IsEmpty reports whether no slot is set.
func (u ItemUpdates) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil &&
		u.Status == nil && u.Sprint == nil && u.Epic == nil &&
		u.Assignee == nil && u.StoryPoints == nil
}

// Validate checks the enum and numeric slots that are set.
func (u ItemUpdates) Validate() error {
	if u.Priority != nil && !u.Priority.IsValid() {
		return fmt.Errorf("%w: priority %q", ErrValidation, *u.Priority)
	}
	if u.Status != nil && !u.Status.IsValid() {
		return fmt.Errorf("%w: status %q", ErrValidation, *u.Status)
	}
	if u.StoryPoints != nil && *u.StoryPoints < 0 {
		return fmt.Errorf("%w: story_points cannot be negative", ErrValidation)
	}
	return nil
}

// Apply copies every set slot onto item. It does not touch timestamps.
func (u ItemUpdates) Apply(item *Item) {
	if u.Title != nil {
		item.Title = *u.Title
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Priority != nil {
		item.Priority = *u.Priority
	}
	if u.Status != nil {
		item.Status = *u.Status
	}
	if u.Sprint != nil {
		item.Sprint = *u.Sprint
	}
	if u.Epic != nil {
		item.Epic = *u.Epic
	}
	if u.Assignee != nil {
		item.Assignee = *u.Assignee
	}
	if u.StoryPoints != nil {
		p := *u.StoryPoints
		item.StoryPoints = &p
	}
}

// ItemFilter is a conjunction of equality predicates. Nil fields match
// everything.
type ItemFilter struct {
	Project  *string
	Priority *Priority
	Status   *Status
	Sprint   *string
	Epic     *string
	Assignee *string
}

// Matches reports whether item satisfies every set predicate.
// Project is checked by the store, not here.
func (f ItemFilter) Matches(item *Item) bool {
	if f.Priority != nil && item.Priority != *f.Priority {
		return false
	}
	if f.Status != nil && item.Status != *f.Status {
		return false
	}
	if f.Sprint != nil && item.Sprint != *f.Sprint {
		return false
	}
	if f.Epic != nil && item.Epic != *f.Epic {
		return false
	}
	if f.Assignee != nil && item.Assignee != *f.Assignee {
		return false
	}
	return true
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
