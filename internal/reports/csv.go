package reports

import (
	"encoding/csv"
	"fmt"
	"io"
)

// RenderCSV writes the statement as CSV with a header row.
func RenderCSV(w io.Writer, s *Statement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range s.Rows {
		if err := cw.Write(r.cells()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
