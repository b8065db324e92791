package report

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/UnknownOlympus/zynor/internal/models"
	"github.com/xuri/excelize/v2"
)

// XLSXFilename is the default name of the technician workbook.
const XLSXFilename = "technicians.xlsx"

const (
	technicianSheet = "Technicians"
	skillSheet      = "Skills"
	firstDataRow    = 2 // row 1 is the header
)

var ErrNoRows = errors.New("failed to generate report, 0 rows were provided")

// Generator holds the state for the Excel report generation process.
type Generator struct {
	file        *excelize.File
	headerStyle int
}

// ExcelRow holds the structured row for excel file.
type ExcelRow struct {
	Name      string    // Full name of the technician
	Email     string    // Contact email
	Phone     string    // Phone number, may be empty
	Skills    []string  // Skills in their original order
	Active    bool      // Whether the technician is active
	CreatedAt time.Time // Zero when the API did not send it
}

// RowsFromTechnicians converts technicians to rows, keeping their order.
func RowsFromTechnicians(techs []models.Technician) []ExcelRow {
	rows := make([]ExcelRow, 0, len(techs))
	for _, t := range techs {
		rows = append(rows, ExcelRow{
			Name:      t.FullName(),
			Email:     t.Email,
			Phone:     t.Phone,
			Skills:    t.Skills,
			Active:    t.Active(),
			CreatedAt: t.CreatedAt.Time,
		})
	}
	return rows
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		file: excelize.NewFile(),
	}
}

// GenerateTechnicianReport builds a workbook with a "Technicians" sheet
// holding rows in the given order and a "Skills" sheet counting how many
// technicians have each skill.
//
// Parameters:
// - rows: The technicians to export, already filtered and sorted.
//
// Returns:
// - A pointer to a bytes.Buffer containing the workbook.
// - ErrNoRows when rows is empty, or an error if any operation fails.
func GenerateTechnicianReport(rows []ExcelRow) (*bytes.Buffer, error) {
	var err error

	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	gen := NewGenerator()
	defer gen.file.Close()

	if gen.headerStyle, err = gen.newHeaderStyle(); err != nil {
		return nil, err
	}

	// reuse the default sheet so that the technician sheet stays first
	if err = gen.file.SetSheetName("Sheet1", technicianSheet); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}

	if err = gen.addTechnicianSheet(rows); err != nil {
		return nil, fmt.Errorf("failed to add sheet '%s': %w", technicianSheet, err)
	}

	if err = gen.addSkillSheet(rows); err != nil {
		return nil, fmt.Errorf("failed to add sheet '%s': %w", skillSheet, err)
	}

	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write data from saved file: %w", err)
	}

	return buffer, nil
}

func (g *Generator) addTechnicianSheet(rows []ExcelRow) error {
	headers := []string{"Name", "Email", "Phone", "Skill", "Active", "Created"}
	widths := []float64{28, 32, 18, 40, 12, 14} //nolint:mnd // column widths

	if err := g.setupSheet(technicianSheet, headers, widths, len(rows)); err != nil {
		return err
	}

	for i, row := range rows {
		status := "Inactive"
		if row.Active {
			status = "Active"
		}
		created := ""
		if !row.CreatedAt.IsZero() {
			created = row.CreatedAt.Format("02.01.2006")
		}

		data := []any{row.Name, row.Email, row.Phone, strings.Join(row.Skills, ", "), status, created}
		if err := g.addRow(technicianSheet, i+firstDataRow, data); err != nil {
			return fmt.Errorf("failed to add row '%d': %w", i+firstDataRow, err)
		}
	}
	return nil
}

type skillCount struct {
	skill string
	count int
}

func (g *Generator) addSkillSheet(rows []ExcelRow) error {
	counts := make(map[string]int)
	for _, row := range rows {
		for _, skill := range row.Skills {
			if skill != "" {
				counts[skill]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	summary := make([]skillCount, 0, len(counts))
	for skill, count := range counts {
		summary = append(summary, skillCount{skill: skill, count: count})
	}
	slices.SortFunc(summary, func(a, b skillCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.skill, b.skill)
	})

	if _, err := g.file.NewSheet(skillSheet); err != nil {
		return fmt.Errorf("failed to generate new sheet '%s': %w", skillSheet, err)
	}

	headers := []string{"Skill", "Technicians"}
	widths := []float64{30, 14} //nolint:mnd // column widths
	if err := g.setupSheet(skillSheet, headers, widths, len(summary)); err != nil {
		return err
	}

	for i, s := range summary {
		if err := g.addRow(skillSheet, i+firstDataRow, []any{s.skill, s.count}); err != nil {
			return fmt.Errorf("failed to add row '%d': %w", i+firstDataRow, err)
		}
	}
	return nil
}

func (g *Generator) newHeaderStyle() (int, error) {
	style, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create new style: %w", err)
	}
	return style, nil
}

// setupSheet writes the styled header row, sets column widths and adds a
// table spanning the header and rowCount data rows.
//
// Parameters:
// - sheetName: The name of the sheet to set up.
// - headers: Header captions, one per column.
// - widths: Column widths, one per column.
// - rowCount: The number of data rows below the header.
//
// Returns:
// - error: An error if any operation fails, otherwise returns nil.
func (g *Generator) setupSheet(sheetName string, headers []string, widths []float64, rowCount int) error {
	var err error

	rowHeight := 20
	if err = g.file.SetRowHeight(sheetName, 1, float64(rowHeight)); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to resolve last column: %w", err)
	}
	if err = g.file.SetCellStyle(sheetName, "A1", lastCol+"1", g.headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err = g.file.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err = g.file.AddTable(sheetName, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastCol, rowCount+1),
		Name:      "table_" + sheetName,
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}

	return nil
}

// addRow writes data into the given row of the sheet.
func (g *Generator) addRow(sheetName string, rowNum int, data []any) error {
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)

	if err := g.file.SetSheetRow(sheetName, cell, &data); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}

	return nil
}
