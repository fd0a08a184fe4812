package yamlstore

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/backlogd/backlogd/internal/types"
)

// record is the on-disk shape of an item. Timestamps go through timestamp so
// documents carrying naive ISO strings still load.
type record struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Priority    types.Priority `yaml:"priority"`
	Status      types.Status   `yaml:"status"`
	Sprint      string         `yaml:"sprint"`
	Epic        string         `yaml:"epic"`
	Assignee    string         `yaml:"assignee"`
	StoryPoints *int           `yaml:"story_points"`
	CreatedAt   timestamp      `yaml:"created_at"`
	UpdatedAt   timestamp      `yaml:"updated_at"`
}

func (r *record) item() *types.Item {
	return &types.Item{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		Sprint:      r.Sprint,
		Epic:        r.Epic,
		Assignee:    r.Assignee,
		StoryPoints: r.StoryPoints,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

// Layouts without a zone are read in local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

type timestamp struct {
	time.Time
}

// UnmarshalYAML accepts RFC 3339 (quoted or not), naive ISO date-times and
// null.
func (ts *timestamp) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timestamp must be a scalar", n.Line)
	}
	if n.Tag == "!!null" || n.Value == "" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := parseTimestamp(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	ts.Time = t
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
