package handler

import (
	"errors"
	"net/http"

	"github.com/brimesh123/search-engine/internal/apierror"
	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/service"

	"github.com/gin-gonic/gin"
)

type BOMHandler struct{ svc service.BOMService }

func NewBOMHandler(svc service.BOMService) *BOMHandler { return &BOMHandler{svc: svc} }

// ListMainItems serves GET /api/main-items.
func (h *BOMHandler) ListMainItems(c *gin.Context) {
	items, err := h.svc.ListMainItems(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SearchMainItems serves GET /api/search/main-items?query=.
func (h *BOMHandler) SearchMainItems(c *gin.Context) {
	var q dto.SearchQuery
	if !bindQueryAndValidate(c, &q) {
		return
	}
	items, err := h.svc.SearchMainItems(c.Request.Context(), q.Query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetBOM serves GET /api/main-items/:itemNo/bom.
func (h *BOMHandler) GetBOM(c *gin.Context) {
	bom, err := h.svc.GetBOM(c.Request.Context(), c.Param("itemNo"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Main item not found"))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, bom)
}

// WhereUsed serves GET /api/child-items/:itemNo/where-used.
func (h *BOMHandler) WhereUsed(c *gin.Context) {
	resp, err := h.svc.WhereUsed(c.Request.Context(), c.Param("itemNo"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Child item not found"))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
