package infra

// BOM report rendering with go-pdf/fpdf.
// A4 portrait document with:
//   - Report title and main item header
//   - Component table (item no, name, relation, quantity)
//   - Totals row
//   - Generation timestamp footer

import (
	"fmt"
	"io"

	"github.com/brimesh123/search-engine/internal/dto"

	"github.com/go-pdf/fpdf"
)

// WriteBOMReportPDF renders report as a PDF document into w.
func WriteBOMReportPDF(w io.Writer, report *dto.BOMReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(report.Title, true)
	pdf.AddPage()

	// Core fonts are cp1252; item names arrive as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(report.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Main item: %s  %s", report.MainItem.ItemNo, report.MainItem.ItemName)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Components ───────────────────────────────────────────────────────────
	colNo := contentW * 0.25
	colName := contentW * 0.50
	colRel := contentW * 0.10
	colQty := contentW * 0.15

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colNo, 7, "Child Item No", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colName, 7, "Child Item Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colRel, 7, "I/R", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colQty, 7, "Qty", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if len(report.Components) == 0 {
		pdf.CellFormat(contentW, 7, "No components", "1", 1, "C", false, 0, "")
	}
	for _, comp := range report.Components {
		name := comp.ItemName
		if r := []rune(name); len(r) > 60 {
			name = string(r[:57]) + "..."
		}
		pdf.CellFormat(colNo, 6, tr(comp.ItemNo), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colName, 6, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colRel, 6, string(comp.Relation), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", comp.Quantity), "1", 1, "R", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW-colQty, 6, "Total components:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", report.Summary.TotalComponents), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW-colQty, 6, "Total quantity:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", report.Summary.TotalQuantity), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Generated "+report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render report: %w", err)
	}
	return nil
}
