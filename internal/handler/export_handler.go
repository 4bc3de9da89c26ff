package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scrum-console-gateway/internal/service"
	"github.com/noah-isme/scrum-console-gateway/pkg/response"
)

// ExportHandler streams admin tables as downloadable files.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export a table
// @Description Download the users, projects or sheets table as CSV or PDF.
// The caller's search and sort apply; pagination does not.
// @Tags Export
// @Produce octet-stream
// @Param kind path string true "Table kind" Enums(users, projects, sheets)
// @Param format query string false "File format" Enums(csv, pdf) default(csv)
// @Param search query string false "Search term"
// @Param sort_by query string false "Sort by"
// @Param sort_order query string false "Sort order"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/export/{kind} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	kind := c.Param("kind")
	format := c.DefaultQuery("format", "csv")

	result, err := h.service.Export(c.Request.Context(), token, kind, format, listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
