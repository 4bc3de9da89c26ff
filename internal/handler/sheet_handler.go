package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/service"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
	"github.com/noah-isme/scrum-console-gateway/pkg/response"
)

// SheetHandler handles admin sheet endpoints.
type SheetHandler struct {
	service *service.SheetService
}

// NewSheetHandler creates a new sheet handler.
func NewSheetHandler(svc *service.SheetService) *SheetHandler {
	return &SheetHandler{service: svc}
}

// List godoc
// @Summary List sheets
// @Description List sheets with search, sorting and pagination
// @Tags Sheets
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search term"
// @Param sort_by query string false "Sort by"
// @Param sort_order query string false "Sort order"
// @Success 200 {object} response.Envelope
// @Router /admin/sheets [get]
func (h *SheetHandler) List(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), token, listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list.Sheets, list.Pagination)
}

// Available godoc
// @Summary List available sheets
// @Description List sheets not yet bound to a project
// @Tags Sheets
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/sheets/available [get]
func (h *SheetHandler) Available(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	sheets, err := h.service.Available(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sheets, nil)
}

// Get godoc
// @Summary Get sheet
// @Description Get a single sheet by ID
// @Tags Sheets
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sheets/{id} [get]
func (h *SheetHandler) Get(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	sheet, err := h.service.Get(c.Request.Context(), token, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sheet, nil)
}

// Create godoc
// @Summary Create sheet
// @Description Register an assessment sheet
// @Tags Sheets
// @Accept json
// @Produce json
// @Param payload body models.SheetPayload true "Sheet payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sheets [post]
func (h *SheetHandler) Create(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.SheetPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	sheet, err := h.service.Create(c.Request.Context(), token, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, sheet)
}

// Update godoc
// @Summary Update sheet
// @Description Update sheet details
// @Tags Sheets
// @Accept json
// @Produce json
// @Param id path int true "Sheet ID"
// @Param payload body models.SheetPayload true "Sheet payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sheets/{id} [put]
func (h *SheetHandler) Update(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.SheetPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	sheet, err := h.service.Update(c.Request.Context(), token, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sheet, nil)
}

// Delete godoc
// @Summary Delete sheet
// @Description Remove a sheet
// @Tags Sheets
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sheets/{id} [delete]
func (h *SheetHandler) Delete(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	sheet, err := h.service.Delete(c.Request.Context(), token, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sheet, nil)
}
