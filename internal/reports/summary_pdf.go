package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

func buildProjectSummaryPDF(profile business.Profile, list []projects.Project) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, translator(profile.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, translator(fmt.Sprintf("RUC %s", profile.TaxID)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, translator("Resumen de proyectos"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Cliente", "Dirección", "Servicios", "Estado", "Importe"}
	widths := []float64{60, 80, 70, 25, 32}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(31, 110, 67)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, translator(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	var total float64
	for i, project := range list {
		fill := i%2 == 1
		pdf.SetFillColor(242, 242, 242)
		cells := []string{
			project.Client.DisplayName(),
			project.Address,
			strings.Join(project.ServiceNames(), ", "),
			string(project.Status),
			fmt.Sprintf("%s %s", project.Currency.Symbol(), money.Format(project.Price)),
		}
		for j, c := range cells {
			align := "L"
			if j == 4 {
				align = "R"
			}
			pdf.CellFormat(widths[j], 7, translator(c), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		if project.Currency == money.PEN {
			total += project.Price
		}
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 8,
		translator("Total contratado (PEN)"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 8,
		fmt.Sprintf("S/ %s", money.Format(total)), "1", 1, "R", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
