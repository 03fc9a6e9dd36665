// Package sheet turns uploaded spreadsheets into ordered rows of named cells.
//
// The first row of the first sheet holds the headers; every following row
// becomes a Row whose Cells are keyed by header. Blank cells are omitted and
// fully blank rows are skipped, so a Row only carries what the user typed.
// Both XLSX workbooks and CSV files are accepted; the format is sniffed from
// the content, not trusted from the file name.
package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadable is returned for files that cannot be parsed into rows.
var ErrUnreadable = errors.New("unreadable spreadsheet")

// zipMagic is the local file header signature every XLSX starts with.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data row. Number is 1-based and excludes the header row.
type Row struct {
	Number int
	Cells  map[string]string
}

// Parse reads name/r and returns its data rows in sheet order.
func Parse(name string, r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zipMagic))

	if bytes.Equal(head, zipMagic) {
		return parseXLSX(br)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx":
		return nil, fmt.Errorf("%w: %s is not a valid workbook", ErrUnreadable, name)
	case ".xls":
		return nil, fmt.Errorf("%w: legacy .xls workbooks are not supported, save as .xlsx", ErrUnreadable)
	}
	return parseCSV(br)
}

func parseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return toRows(records)
}

func parseCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return toRows(records)
}

// toRows maps records onto the header row. Leading blank rows are skipped
// before the header is taken.
func toRows(records [][]string) ([]Row, error) {
	for len(records) > 0 && isBlank(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrUnreadable)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		cells := make(map[string]string, len(headers))
		for i, v := range rec {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				cells[headers[i]] = v
			}
		}
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, Row{Number: len(rows) + 1, Cells: cells})
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
