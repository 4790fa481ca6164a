package services

import (
	"bytes"
	"fmt"
	"socialcare365/models"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const caseExportSheet = "Cases"

var caseExportHeaders = []string{
	"Case ID",
	"Client Full Name",
	"Date of Birth",
	"Client Reference",
	"Case Type",
	"Status",
	"Priority",
	"Assigned Social Workers",
	"Risk Level",
	"Archived",
	"Created At",
	"Updated At",
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ExportCasesXLSX writes the given cases into a single-sheet workbook
func ExportCasesXLSX(cases []models.Case) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", caseExportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range caseExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(caseExportSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(caseExportHeaders), 1)
		f.SetCellStyle(caseExportSheet, "A1", lastHeader, headerStyle)
	}

	for rowIdx, c := range cases {
		archived := "No"
		if c.Archived {
			archived = "Yes"
		}
		row := []interface{}{
			c.CaseID,
			c.ClientFullName,
			formatDatePtr(c.DateOfBirth),
			c.ClientReferenceNumber,
			c.CaseType,
			c.CaseStatus,
			c.PriorityLevel,
			strings.Join(c.AssignedSocialWorkers, ", "),
			c.RiskLevel,
			archived,
			c.CreatedAt.Format("2006-01-02 15:04"),
			c.UpdatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(caseExportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(caseExportHeaders))
	f.SetColWidth(caseExportSheet, "A", lastCol, 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
