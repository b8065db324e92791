package listing

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNothingToExport is returned when the rows to export are empty.
var ErrNothingToExport = errors.New("nothing to export")

// ExportCSV writes the header and the searched, filtered and sorted rows
// to w. Every cell is quoted and rows are joined by "\n" with no trailing
// newline. Nothing is written when there are no rows.
func (v *View[T]) ExportCSV(w io.Writer) error {
	rows := v.Rows()
	if len(rows) == 0 {
		return ErrNothingToExport
	}

	lines := make([]string, 0, len(rows)+1)

	header := make([]string, 0, len(v.schema.Columns))
	for _, col := range v.schema.Columns {
		header = append(header, col.Header)
	}
	lines = append(lines, csvLine(header))

	for _, row := range rows {
		cells := make([]string, 0, len(v.schema.Columns))
		for _, col := range v.schema.Columns {
			cells = append(cells, col.export(row))
		}
		lines = append(lines, csvLine(cells))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
