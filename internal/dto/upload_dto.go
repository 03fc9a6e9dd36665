package dto

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brimesh123/search-engine/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Spreadsheet column headers.
const (
	ColMainItemNo    = "Main Item No"
	ColMainItemName  = "Main Item Name"
	ColChildItemNo   = "Child Item No"
	ColChildItemName = "Child Item Name"
	ColQty           = "Qty"
	ColRelation      = "I/R"
)

// Columns lists the headers in template order.
var Columns = []string{ColMainItemNo, ColMainItemName, ColChildItemNo, ColChildItemName, ColQty, ColRelation}

var validate = validator.New()

// BOMRow is one spreadsheet row after validation and defaulting.
type BOMRow struct {
	MainItemNo    string         `validate:"required,max=64"`
	MainItemName  string         `validate:"max=255"`
	ChildItemNo   string         `validate:"required,max=64"`
	ChildItemName string         `validate:"max=255"`
	Quantity      int            `validate:"gt=0"`
	Relation      model.Relation `validate:"oneof=I R"`
}

// fieldColumns maps struct fields back to the spreadsheet header for messages.
var fieldColumns = map[string]string{
	"MainItemNo":    ColMainItemNo,
	"MainItemName":  ColMainItemName,
	"ChildItemNo":   ColChildItemNo,
	"ChildItemName": ColChildItemName,
	"Quantity":      ColQty,
	"Relation":      ColRelation,
}

// NewBOMRow builds a BOMRow from raw cells keyed by header. Qty defaults to 1
// and I/R to "I" when the cell is absent or blank.
func NewBOMRow(cells map[string]string) (BOMRow, error) {
	qty, err := parseQuantity(cells[ColQty])
	if err != nil {
		return BOMRow{}, err
	}
	rel, err := model.ParseRelation(cells[ColRelation])
	if err != nil {
		return BOMRow{}, err
	}

	row := BOMRow{
		MainItemNo:    strings.TrimSpace(cells[ColMainItemNo]),
		MainItemName:  strings.TrimSpace(cells[ColMainItemName]),
		ChildItemNo:   strings.TrimSpace(cells[ColChildItemNo]),
		ChildItemName: strings.TrimSpace(cells[ColChildItemName]),
		Quantity:      qty,
		Relation:      rel,
	}
	if err := validate.Struct(row); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			return BOMRow{}, describe(ves[0])
		}
		return BOMRow{}, err
	}
	return row, nil
}

func describe(fe validator.FieldError) error {
	col := fieldColumns[fe.Field()]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("missing required column %q", col)
	case "max":
		return fmt.Errorf("column %q exceeds %s characters", col, fe.Param())
	default:
		return fmt.Errorf("column %q is invalid (%s)", col, fe.Tag())
	}
}

// parseQuantity accepts whole numbers, including spreadsheet renderings such
// as "2.0". Blank means 1.
func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("column %q is not a number: %q", ColQty, s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("column %q must be a whole number: %q", ColQty, s)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("column %q must be greater than zero: %q", ColQty, s)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, fmt.Errorf("column %q is too large: %q", ColQty, s)
	}
	return int(d.IntPart()), nil
}

// ─── Upload results ──────────────────────────────────────────────────────────

// RowError reports one rejected row. RowNumber is the 1-based data row
// (the header row is not counted).
type RowError struct {
	RowNumber int               `json:"rowNumber"`
	Row       map[string]string `json:"row"`
	Error     string            `json:"error"`
}

// UploadResponse is the body of POST /api/upload-excel. Errors is null when
// every row was processed.
type UploadResponse struct {
	Success        bool       `json:"success"`
	UploadID       string     `json:"uploadId"`
	ProcessedItems int        `json:"processedItems"`
	TotalRows      int        `json:"totalRows"`
	Errors         []RowError `json:"errors"`
}

// Upload statuses recorded in the history.
const (
	UploadCommitted  = "committed"
	UploadRolledBack = "rolled_back"
)

// UploadSummary is what the upload history keeps per upload.
type UploadSummary struct {
	UploadID       string    `json:"uploadId"`
	FileName       string    `json:"fileName"`
	Status         string    `json:"status"`
	ProcessedItems int       `json:"processedItems"`
	TotalRows      int       `json:"totalRows"`
	FailedRows     int       `json:"failedRows"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"startedAt"`
	DurationMS     int64     `json:"durationMs"`
}

// RecentUploadsQuery binds GET /api/uploads/recent.
type RecentUploadsQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ReportQuery binds GET /api/reports/bom/:itemNo.
type ReportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=json pdf"`
}

// TemplateExamples are the sample rows written below the template headers.
var TemplateExamples = [][]any{
	{"FG-1000", "Bicycle", "CP-2000", "Wheel", 2, "I"},
	{"FG-1000", "Bicycle", "DOC-10", "Assembly manual", 1, "R"},
}
