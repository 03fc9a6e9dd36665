package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the sheet name used by WriteTemplate.
const TemplateSheet = "BOM"

// WriteTemplate writes an XLSX workbook with the given header row followed by
// the example rows.
func WriteTemplate(w io.Writer, headers []string, examples ...[]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheet); err != nil {
		return fmt.Errorf("template: rename sheet: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(TemplateSheet, "A1", &header); err != nil {
		return fmt.Errorf("template: header: %w", err)
	}
	for i, ex := range examples {
		if err := f.SetSheetRow(TemplateSheet, fmt.Sprintf("A%d", i+2), &ex); err != nil {
			return fmt.Errorf("template: row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetCellStyle(TemplateSheet, "A1", last+"1", bold)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("template: write: %w", err)
	}
	return nil
}
