package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/service"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
	"github.com/noah-isme/scrum-console-gateway/pkg/response"
)

// ProjectHandler handles admin project endpoints.
type ProjectHandler struct {
	service *service.ProjectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// List godoc
// @Summary List projects
// @Description List projects with search, sorting and pagination
// @Tags Projects
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search term"
// @Param sort_by query string false "Sort by"
// @Param sort_order query string false "Sort order"
// @Success 200 {object} response.Envelope
// @Router /admin/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
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

	response.JSON(c, http.StatusOK, list.Projects, list.Pagination)
}

// Get godoc
// @Summary Get project
// @Description Get a single project by ID
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
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

	project, err := h.service.Get(c.Request.Context(), token, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, project, nil)
}

// Detail godoc
// @Summary Project detail
// @Description Get the expanded project view with assessment data
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/projects/{id}/detail [get]
func (h *ProjectHandler) Detail(c *gin.Context) {
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

	detail, err := h.service.Detail(c.Request.Context(), token, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create project
// @Description Create a project with an assigned moderator and sheet
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body models.ProjectPayload true "Project payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.ProjectPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	project, err := h.service.Create(c.Request.Context(), token, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// Update godoc
// @Summary Update project
// @Description Update project details
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param payload body models.ProjectPayload true "Project payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
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

	var req models.ProjectPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	project, err := h.service.Update(c.Request.Context(), token, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, project, nil)
}

// Delete godoc
// @Summary Delete project
// @Description Remove a project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
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

	project, err := h.service.Delete(c.Request.Context(), token, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, project, nil)
}

// Calculate godoc
// @Summary Calculate project scores
// @Description Request score recalculation; the job runs in the background
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/projects/{id}/calculate-scores [get]
func (h *ProjectHandler) Calculate(c *gin.Context) {
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

	if err := h.service.Calculate(c.Request.Context(), token, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, gin.H{"status": "calculation started"})
}
