// Package export writes a project's items to CSV or XLSX files. Both formats
// use types.FieldNames as the header row and types.Item.Record for each row.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/backlogd/backlogd/internal/types"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrEmpty is returned when a project has no items to export.
var ErrEmpty = errors.New("no items to export")

// ParseFormat accepts "csv" or "xlsx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: export format %q (expected csv or xlsx)", types.ErrValidation, s)
}

// DefaultFilename returns <project>_backlog_<YYYYMMDD_HHMMSS>.<ext>.
func DefaultFilename(project string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_backlog_%s.%s", project, now.Format("20060102_150405"), format)
}

// Project writes items to filename, or to DefaultFilename when filename is
// empty, and returns the path written.
func Project(project string, items []types.Item, format Format, filename string, now time.Time) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("%w in project '%s'", ErrEmpty, project)
	}
	if filename == "" {
		filename = DefaultFilename(project, format, now)
	}

	var err error
	switch format {
	case FormatCSV:
		err = WriteCSVFile(filename, items)
	case FormatXLSX:
		err = WriteXLSXFile(filename, items)
	default:
		return "", fmt.Errorf("%w: export format %q", types.ErrValidation, format)
	}
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	return filename, nil
}
