package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/backlogd/backlogd/internal/types"
)

// WriteCSV writes a header row and one record per item.
func WriteCSV(w io.Writer, items []types.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.FieldNames()); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write(item.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates (or truncates) path and writes items to it.
func WriteCSVFile(path string, items []types.Item) (err error) {
	// #nosec G304 - path is chosen by the user
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrPersistence, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", types.ErrPersistence, cerr)
		}
	}()
	return WriteCSV(f, items)
}
