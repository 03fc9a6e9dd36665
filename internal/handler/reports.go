package handler

import (
	"bytes"
	"errors"
	"mime"
	"net/http"

	"github.com/brimesh123/search-engine/internal/apierror"
	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/infra"
	"github.com/brimesh123/search-engine/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.BOMService }

func NewReportsHandler(svc service.BOMService) *ReportsHandler { return &ReportsHandler{svc: svc} }

// GetBOMReport serves GET /api/reports/bom/:itemNo. With ?format=pdf the
// report is rendered as a PDF attachment instead of JSON.
func (h *ReportsHandler) GetBOMReport(c *gin.Context) {
	var q dto.ReportQuery
	if !bindQueryAndValidate(c, &q) {
		return
	}
	report, err := h.svc.GetBOMReport(c.Request.Context(), c.Param("itemNo"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Main item not found"))
			return
		}
		_ = c.Error(err)
		return
	}

	if q.Format != "pdf" {
		c.JSON(http.StatusOK, report)
		return
	}

	var buf bytes.Buffer
	if err := infra.WriteBOMReportPDF(&buf, report); err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": "bom-" + report.MainItem.ItemNo + ".pdf",
	}))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
