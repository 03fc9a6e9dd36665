package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBOMReportPDF(t *testing.T) {
	report := &dto.BOMReport{
		Title:    "Bill of Materials Report",
		MainItem: dto.ReportItem{ItemNo: "FG-100", ItemName: "Bicycle — red"},
		Components: []dto.ReportComponent{
			{ItemNo: "CP-1", ItemName: "Wheel", Quantity: 2, Relation: model.RelationItem},
			{ItemNo: "DOC-9", ItemName: "Assembly manual", Quantity: 1, Relation: model.RelationReference},
		},
		Summary:     dto.ReportSummary{TotalComponents: 2, TotalQuantity: 3},
		GeneratedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBOMReportPDF(&buf, report))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteBOMReportPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBOMReportPDF(&buf, &dto.BOMReport{
		Title:    "Bill of Materials Report",
		MainItem: dto.ReportItem{ItemNo: "FG-EMPTY"},
	})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
