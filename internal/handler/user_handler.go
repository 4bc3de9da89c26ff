package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/service"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
	"github.com/noah-isme/scrum-console-gateway/pkg/response"
)

// UserHandler handles admin user endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description List users with search, sorting and pagination
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search term"
// @Param sort_by query string false "Sort by"
// @Param sort_order query string false "Sort order"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
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

	response.JSON(c, http.StatusOK, list.Users, list.Pagination)
}

// Moderators godoc
// @Summary List moderators
// @Description List accounts holding the moderator role
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/moderators [get]
func (h *UserHandler) Moderators(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	moderators, err := h.service.Moderators(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, moderators, nil)
}

// Get godoc
// @Summary Get user
// @Description Get a single user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
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

	user, err := h.service.Get(c.Request.Context(), token, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// Create godoc
// @Summary Create user
// @Description Create a new account with a role
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.CreateUserRequest true "Create user payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	token, err := tokenFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Create(c.Request.Context(), token, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Update godoc
// @Summary Update user
// @Description Update account details
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param payload body models.UpdateUserRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
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

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Update(c.Request.Context(), token, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// Delete godoc
// @Summary Delete user
// @Description Remove an account
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
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

	user, err := h.service.Delete(c.Request.Context(), token, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// ChangeRole godoc
// @Summary Change user role
// @Description Switch a user between ADMIN and MODERATOR. The response
// carries the role the assessment service settled on.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param payload body models.ChangeRoleRequest true "Target role"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /admin/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c *gin.Context) {
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

	var req models.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	role, err := h.service.ChangeRole(c.Request.Context(), token, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, role, nil)
}
