package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/brimesh123/search-engine/internal/apierror"
	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/middleware"
	"github.com/brimesh123/search-engine/internal/repository"
	"github.com/brimesh123/search-engine/internal/service"
	"github.com/brimesh123/search-engine/internal/sheet"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultRecentUploads = 20

type UploadHandler struct {
	svc      service.IngestionService
	history  repository.UploadHistoryRepository
	maxBytes int64
}

func NewUploadHandler(svc service.IngestionService, history repository.UploadHistoryRepository, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, history: history, maxBytes: maxBytes}
}

// UploadExcel serves POST /api/upload-excel. The multipart field "file"
// carries an .xlsx or .csv workbook.
func (h *UploadHandler) UploadExcel(c *gin.Context) {
	reqID := c.GetString(middleware.RequestIDKey)

	if c.Request.ContentLength > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("File too large"))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("File too large"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("No file uploaded"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Str("request_id", reqID).Msg("open uploaded file")
		c.JSON(http.StatusInternalServerError, apierror.New("Error processing Excel file"))
		return
	}
	defer f.Close()

	rows, err := sheet.Parse(fh.Filename, f)
	if err != nil {
		log.Error().Err(err).Str("request_id", reqID).Str("file", fh.Filename).Msg("parse uploaded file")
		c.JSON(http.StatusInternalServerError, apierror.New("Error processing Excel file"))
		return
	}

	resp, err := h.svc.Ingest(c.Request.Context(), fh.Filename, rows)
	if err != nil {
		log.Error().Err(err).Str("request_id", reqID).Str("file", fh.Filename).Msg("ingest uploaded file")
		c.JSON(http.StatusInternalServerError, apierror.New("Error processing Excel file"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecentUploads serves GET /api/uploads/recent?limit=.
func (h *UploadHandler) RecentUploads(c *gin.Context) {
	var q dto.RecentUploadsQuery
	if !bindQueryAndValidate(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultRecentUploads
	}
	summaries, err := h.history.Recent(c.Request.Context(), q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Template serves GET /api/upload-template.
func (h *UploadHandler) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := sheet.WriteTemplate(&buf, dto.Columns, dto.TemplateExamples...); err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bom-template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
