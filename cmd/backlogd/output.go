package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backlogd/backlogd/internal/backlog"
)

// outputJSON writes v as pretty-printed JSON
func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// confirmer approves deletions. With --yes it never asks; otherwise it
// reads one answer from the command's stdin and accepts y or yes.
func confirmer(cmd *cobra.Command) backlog.ConfirmFunc {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return func(string) bool { return true }
	}
	in := bufio.NewReader(cmd.InOrStdin())
	return func(prompt string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
		answer, _ := in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
