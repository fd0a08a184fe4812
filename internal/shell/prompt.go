package shell

import (
	"strconv"
	"strings"

	"github.com/backlogd/backlogd/internal/utils"
)

// ask shows label (with def in parentheses when set) and returns the trimmed
// answer, or def for an empty answer.
func (s *Shell) ask(label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt += " (" + def + ")"
	}
	answer, err := s.in.ReadLine(prompt + ": ")
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// askChoice repeats the prompt until the answer is empty or one of choices.
// Matching is case-insensitive; the canonical choice is returned.
func (s *Shell) askChoice(label string, choices []string, def string) (string, error) {
	prompt := label + " [" + strings.Join(choices, "/") + "]"
	for {
		answer, err := s.ask(prompt, def)
		if err != nil {
			return "", err
		}
		if answer == "" {
			return "", nil
		}
		for _, c := range choices {
			if strings.EqualFold(answer, c) {
				return c, nil
			}
		}
		s.ui.Error("Please select one of the available options")
	}
}

// askPoints accepts digits only; any other answer leaves points unset.
func (s *Shell) askPoints(label, def string) (*int, error) {
	answer, err := s.ask(label, def)
	if err != nil || !utils.IsNumeric(answer) {
		return nil, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		// too large for int
		return nil, nil
	}
	return &n, nil
}

// confirm implements backlog.ConfirmFunc. An interrupted or closed prompt
// counts as no and is kept for declined to report.
func (s *Shell) confirm(prompt string) bool {
	answer, err := s.in.ReadLine(prompt + " [y/N]: ")
	if err != nil {
		s.promptErr = err
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
