package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Transactions"

// RenderXLSX writes the statement as a single-sheet workbook. Amount columns
// are numeric cells so spreadsheets can sum them.
func RenderXLSX(w io.Writer, s *Statement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, r := range s.Rows {
		row := i + 2
		cells := r.cells()
		values := []any{
			cells[0],
			cells[1],
			cells[2],
			r.Amount.InexactFloat64(),
			r.Effect.InexactFloat64(),
			cells[5],
			cells[6],
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
