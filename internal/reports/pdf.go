package reports

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

// maxPDFRows caps the PDF table; CSV and XLSX are not truncated.
const maxPDFRows = 500

var pdfWidths = []float64{22, 32, 20, 22, 26, 50, 10}

// RenderPDF writes the statement as an A4 PDF table.
func RenderPDF(w io.Writer, s *Statement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(s.Title))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Generated "+s.GeneratedAt.Format("2006-01-02 15:04 MST"))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("%d transactions, net balance effect %s", len(s.Rows), s.Net().StringFixed(2)))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetTextColor(20, 20, 20)
	pdfHeader(pdf)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range s.Rows {
		if i >= maxPDFRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 7, fmt.Sprintf("%d more rows omitted", len(s.Rows)-maxPDFRows), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			pdfHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}
		cells := r.cells()
		cells[5] = trimTo(cells[5], 32)
		for j, c := range cells {
			align := "L"
			if j == 3 || j == 4 {
				align = "R"
			}
			ln := 0
			if j == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(pdfWidths[j], 7, tr(c), "1", ln, align, false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func pdfHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	for i, h := range header {
		ln := 0
		if i == len(header)-1 {
			ln = 1
		}
		pdf.CellFormat(pdfWidths[i], 8, h, "1", ln, "C", true, 0, "")
	}
}

func trimTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "..."
}
