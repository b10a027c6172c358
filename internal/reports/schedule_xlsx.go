package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/digitales-2024/perucontrol-sub003/internal/docgen"
)

const scheduleSheet = "Cronograma"

var scheduleColumns = []string{
	"N°", "Cliente", "Dirección", "Fecha programada", "Fecha realizada",
	"Estado", "Operario", "N° Certificado",
}

func buildScheduleXLSX(rows []scheduleRow, from, to time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", scheduleSheet)

	title := fmt.Sprintf("Cronograma de servicios %s - %s",
		docgen.FormatDateShort(from), docgen.FormatDateShort(to))
	if err := f.SetCellValue(scheduleSheet, "A1", title); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F6E43"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range scheduleColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(scheduleSheet, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(scheduleSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, row := range rows {
		actual := ""
		if row.ActualDate != nil {
			actual = docgen.FormatDateShort(*row.ActualDate)
		}
		values := []any{
			i + 1,
			row.Client,
			row.Address,
			docgen.FormatDateShort(row.DueDate),
			actual,
			string(row.Status),
			row.Operator,
			row.Certificate,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+3)
			if err := f.SetCellValue(scheduleSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SetColWidth(scheduleSheet, "B", "C", 32); err != nil {
		return nil, fmt.Errorf("failed to set column widths: %w", err)
	}
	if err := f.SetColWidth(scheduleSheet, "D", "H", 18); err != nil {
		return nil, fmt.Errorf("failed to set column widths: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
