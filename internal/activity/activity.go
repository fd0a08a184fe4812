// Package activity writes a rotating, append-only log of backlog mutations
// (<data-dir>/backlogd.log).
package activity

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the default log file name inside the data directory.
const FileName = "backlogd.log"

// Action names recorded in the log.
const (
	ActionCreateProject = "create-project"
	ActionDeleteProject = "delete-project"
	ActionAddItem       = "add"
	ActionUpdateItem    = "update"
	ActionDeleteItem    = "delete"
)

// Event is one recorded mutation.
type Event struct {
	Action  string
	Project string
	ItemID  string
	Detail  string
}

// Options control rotation. Zero values use lumberjack defaults.
type Options struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Log appends events as single lines: [timestamp] actor=... action=... project=... item=...
type Log struct {
	mu    sync.Mutex
	w     io.Writer
	c     io.Closer
	actor string
	now   func() time.Time
}

// Open returns a Log writing to path through a rotating lumberjack.Logger.
func Open(path, actor string, opts Options) *Log {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	return &Log{w: lj, c: lj, actor: actor, now: time.Now}
}

// DefaultPath returns the log path inside a data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// NewWriterLog logs to an arbitrary writer. Used by tests.
func NewWriterLog(w io.Writer, actor string, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{w: w, actor: actor, now: now}
}

// Record writes one event. Write errors are returned but callers treat the
// log as best effort.
func (l *Log) Record(ev Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] actor=%s action=%s project=%s",
		l.now().Format("2006-01-02 15:04:05"), quote(l.actor), ev.Action, quote(ev.Project))
	if ev.ItemID != "" {
		fmt.Fprintf(&b, " item=%s", ev.ItemID)
	}
	if ev.Detail != "" {
		fmt.Fprintf(&b, " detail=%s", quote(ev.Detail))
	}
	b.WriteByte('\n')

	_, err := io.WriteString(l.w, b.String())
	return err
}

// Close closes the underlying file, if any.
func (l *Log) Close() error {
	if l == nil || l.c == nil {
		return nil
	}
	return l.c.Close()
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
