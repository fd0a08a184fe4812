package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/backlogd/backlogd/internal/types"
)

// SheetName is the worksheet holding the exported items.
const SheetName = "Backlog"

// WriteXLSXFile writes items to a single-sheet workbook at path.
// Story points are written as numbers, everything else as text.
func WriteXLSXFile(path string, items []types.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(types.FieldNames()))
	for _, name := range types.FieldNames() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(item)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %v", types.ErrPersistence, err)
	}
	return nil
}

func xlsxRow(item types.Item) []interface{} {
	rec := item.Record()
	row := make([]interface{}, len(rec))
	for i, v := range rec {
		row[i] = v
	}
	// story_points column
	if item.StoryPoints != nil {
		row[8] = *item.StoryPoints
	}
	return row
}
