package shell

import (
	"strings"

	"github.com/google/shlex"

	"github.com/backlogd/backlogd/internal/types"
)

// Command identifies one shell command.
type Command int

const (
	CmdUnknown Command = iota
	CmdHelp
	CmdExit
	CmdClear
	CmdStatus
	CmdProjects
	CmdUse
	CmdCreateProject
	CmdDeleteProject
	CmdItems
	CmdAdd
	CmdUpdate
	CmdDelete
	CmdShow
	CmdExportCSV
	CmdExportXLSX
)

// vocabulary maps every accepted word, lowercased, to its command.
var vocabulary = map[string]Command{
	"help":           CmdHelp,
	"h":              CmdHelp,
	"?":              CmdHelp,
	"exit":           CmdExit,
	"quit":           CmdExit,
	"q":              CmdExit,
	"clear":          CmdClear,
	"cls":            CmdClear,
	"status":         CmdStatus,
	"projects":       CmdProjects,
	"use":            CmdUse,
	"create-project": CmdCreateProject,
	"delete-project": CmdDeleteProject,
	"items":          CmdItems,
	"add":            CmdAdd,
	"update":         CmdUpdate,
	"delete":         CmdDelete,
	"show":           CmdShow,
	"export-csv":     CmdExportCSV,
	"export-xlsx":    CmdExportXLSX,
}

var commandNames = map[Command]string{
	CmdUnknown:       "unknown",
	CmdHelp:          "help",
	CmdExit:          "exit",
	CmdClear:         "clear",
	CmdStatus:        "status",
	CmdProjects:      "projects",
	CmdUse:           "use",
	CmdCreateProject: "create-project",
	CmdDeleteProject: "delete-project",
	CmdItems:         "items",
	CmdAdd:           "add",
	CmdUpdate:        "update",
	CmdDelete:        "delete",
	CmdShow:          "show",
	CmdExportCSV:     "export-csv",
	CmdExportXLSX:    "export-xlsx",
}

func (c Command) String() string {
	return commandNames[c]
}

// NeedsProject reports whether the command operates on the current project.
func (c Command) NeedsProject() bool {
	switch c {
	case CmdItems, CmdAdd, CmdUpdate, CmdDelete, CmdShow, CmdExportCSV, CmdExportXLSX:
		return true
	}
	return false
}

// Lookup returns the command for a word, or CmdUnknown.
func Lookup(word string) Command {
	return vocabulary[strings.ToLower(word)]
}

// Line is one parsed input line.
type Line struct {
	Command Command
	Word    string // the command word as typed, lowercased
	Args    []string
}

// ParseLine tokenizes input and looks up its first word. ok is false for a
// blank line.
func ParseLine(input string) (line Line, ok bool) {
	tokens := Tokenize(input)
	if len(tokens) == 0 {
		return Line{}, false
	}
	word := strings.ToLower(tokens[0])
	return Line{Command: Lookup(word), Word: word, Args: tokens[1:]}, true
}

// Tokenize splits input with shell quoting rules. Input that cannot be
// tokenized, such as an unbalanced quote, is split on whitespace instead.
func Tokenize(input string) []string {
	tokens, err := shlex.Split(strings.TrimSpace(input))
	if err != nil {
		return strings.Fields(input)
	}
	return tokens
}

// FilterKeys are the --key names accepted by the items command.
var FilterKeys = []string{"priority", "status", "sprint", "epic", "assignee"}

// ParseFilterArgs pairs each --key with the token after it. A key followed
// by another --key, or by nothing, has no value and is dropped. Unknown keys
// and stray tokens are ignored.
func ParseFilterArgs(args []string) map[string]string {
	known := make(map[string]bool, len(FilterKeys))
	for _, k := range FilterKeys {
		known[k] = true
	}

	out := make(map[string]string)
	for i := 0; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "--") {
			continue
		}
		key := strings.TrimPrefix(args[i], "--")
		if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
			continue
		}
		i++
		if known[key] {
			out[key] = args[i]
		}
	}
	return out
}

// FilterFromArgs converts items arguments to an ItemFilter. Invalid priority
// or status values are validation errors.
func FilterFromArgs(args []string) (types.ItemFilter, error) {
	var f types.ItemFilter
	for key, value := range ParseFilterArgs(args) {
		switch key {
		case "priority":
			p, err := types.ParsePriority(value)
			if err != nil {
				return types.ItemFilter{}, err
			}
			f.Priority = &p
		case "status":
			st, err := types.ParseStatus(value)
			if err != nil {
				return types.ItemFilter{}, err
			}
			f.Status = &st
		case "sprint":
			f.Sprint = types.StringPtr(value)
		case "epic":
			f.Epic = types.StringPtr(value)
		case "assignee":
			f.Assignee = types.StringPtr(value)
		}
	}
	return f, nil
}
