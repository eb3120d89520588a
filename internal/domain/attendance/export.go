package attendance

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportFileName es el nombre sugerido para la planilla de una semana.
func ExportFileName(v WeekView) string {
	return fmt.Sprintf("attendance_%d-W%02d.xlsx", v.Year, v.Week)
}

// WriteWeekXLSX escribe la grilla semanal como planilla: una fila por perro,
// una columna por día hábil.
func WriteWeekXLSX(w io.Writer, v WeekView) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Week %d", v.Week)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Week %d/%d: %s - %s", v.Week, v.Year, v.Start, v.End))
	lastCol, _ := excelize.ColumnNumberToName(2 + len(v.Days))
	_ = f.MergeCell(sheet, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	headers := []string{"Dog", "Owner"}
	for _, d := range v.Days {
		headers = append(headers, d.Weekday().String()[:3]+" "+d.String())
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for r, row := range v.Rows {
		rowNum := r + 3
		nameCell, _ := excelize.CoordinatesToCellName(1, rowNum)
		_ = f.SetCellValue(sheet, nameCell, row.DogName)
		ownerCell, _ := excelize.CoordinatesToCellName(2, rowNum)
		_ = f.SetCellValue(sheet, ownerCell, row.OwnerName)

		for i, slot := range row.Slots {
			cell, _ := excelize.CoordinatesToCellName(i+3, rowNum)
			_ = f.SetCellValue(sheet, cell, slot.String())
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 22)
	_ = f.SetColWidth(sheet, "C", lastCol, 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
