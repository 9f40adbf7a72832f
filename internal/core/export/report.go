package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReportExporter writes a one-sheet processing report using excelize:
// one row per queued file with its status, confidence and extracted
// text length.
type ReportExporter struct {
	sheetName string
}

// NewReportExporter creates a new spreadsheet report exporter
func NewReportExporter() *ReportExporter {
	return &ReportExporter{
		sheetName: "Processing Report",
	}
}

var reportHeaders = []string{"File", "Status", "Confidence", "Characters", "Error"}

// Export writes the report for the given rows
func (e *ReportExporter) Export(title string, rows []ReportRow, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", e.sheetName)

	rowIndex := 1
	if title != "" {
		f.SetCellValue(e.sheetName, fmt.Sprintf("A%d", rowIndex), title)
		titleStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold: true,
				Size: 14,
			},
		})
		f.SetCellStyle(e.sheetName, fmt.Sprintf("A%d", rowIndex), fmt.Sprintf("A%d", rowIndex), titleStyle)
		rowIndex += 2
	}

	headerStyle, err := e.createHeaderStyle(f)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := rowIndex
	for colIndex, header := range reportHeaders {
		cell := columnNumberToName(colIndex+1) + strconv.Itoa(rowIndex)
		f.SetCellValue(e.sheetName, cell, header)
		f.SetCellStyle(e.sheetName, cell, cell, headerStyle)
	}
	rowIndex++

	f.SetColWidth(e.sheetName, "A", "A", 36)
	f.SetColWidth(e.sheetName, "E", "E", 48)

	for _, row := range rows {
		values := []interface{}{row.FileName, row.Status, row.Confidence, row.Characters, row.Error}
		for colIndex, value := range values {
			cell := columnNumberToName(colIndex+1) + strconv.Itoa(rowIndex)
			f.SetCellValue(e.sheetName, cell, value)
		}
		rowIndex++
	}

	f.SetPanes(e.sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})

	if len(rows) > 0 {
		lastCol := columnNumberToName(len(reportHeaders))
		lastRow := headerRow + len(rows)
		f.AutoFilter(e.sheetName, fmt.Sprintf("A%d:%s%d", headerRow, lastCol, lastRow), nil)
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// GetContentType returns the MIME type for spreadsheet files
func (e *ReportExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// GetFileExtension returns the file extension for spreadsheet files
func (e *ReportExporter) GetFileExtension() string {
	return ".xlsx"
}

// createHeaderStyle creates the header style
func (e *ReportExporter) createHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"4472C4"},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// columnNumberToName converts column number to Excel column name (1 -> A, 27 -> AA)
func columnNumberToName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return name
}
