// Package utils provides helpers for backlog item identifiers of the form
// PREFIX-N, where PREFIX is the uppercased project name.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemPrefix returns the identifier prefix for a project: "web-app" -> "WEB-APP".
func ItemPrefix(projectName string) string {
	return strings.ToUpper(projectName)
}

// FormatItemID builds an identifier like "WEB-12".
func FormatItemID(projectName string, n int) string {
	return fmt.Sprintf("%s-%d", ItemPrefix(projectName), n)
}

// ExtractItemPrefix extracts the prefix from an item ID like "WEB-APP-3" -> "WEB-APP".
// Project names may contain hyphens, so only the last hyphen separates the number.
func ExtractItemPrefix(itemID string) string {
	idx := strings.LastIndex(itemID, "-")
	if idx <= 0 {
		return ""
	}
	return itemID[:idx]
}

// ExtractItemNumber extracts the number from an item ID like "WEB-123" -> 123.
// Returns 0 when the suffix is not numeric.
func ExtractItemNumber(itemID string) int {
	idx := strings.LastIndex(itemID, "-")
	if idx < 0 || idx == len(itemID)-1 {
		return 0
	}
	n, err := strconv.Atoi(itemID[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// ResolveItemID expands a bare number to a full identifier for the project
// ("7" -> "WEB-7") and uppercases a project prefix typed in another case
// ("web-7" -> "WEB-7"). Anything else, including ids of other projects, is
// returned unchanged.
func ResolveItemID(projectName, input string) string {
	input = strings.TrimSpace(input)
	if IsNumeric(input) {
		return ItemPrefix(projectName) + "-" + input
	}
	prefix := ExtractItemPrefix(input)
	if ExtractItemNumber(input) > 0 && strings.EqualFold(prefix, ItemPrefix(projectName)) {
		return ItemPrefix(projectName) + input[len(prefix):]
	}
	return input
}

// IsNumeric reports whether s is a non-empty run of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
