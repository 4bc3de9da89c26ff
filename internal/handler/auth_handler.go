package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scrum-console-gateway/internal/middleware"
	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/service"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
	"github.com/noah-isme/scrum-console-gateway/pkg/response"
)

// AuthHandler handles login, registration and session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Log in
// @Description Exchange credentials for a console session
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.Login(c.Request.Context(), middleware.SessionIDFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Register godoc
// @Summary Register
// @Description Create a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Logout godoc
// @Summary Log out
// @Description Drop the console session and its stored token
// @Tags Auth
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context(), middleware.SessionIDFrom(c))
	response.NoContent(c)
}

// Session godoc
// @Summary Session status
// @Description Report the current session state and user
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Status(gateFromContext(c)), nil)
}

// Profile godoc
// @Summary Current user
// @Description Return the authenticated user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /user/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	gate := gateFromContext(c)
	if !gate.Authenticated() {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gate.User(), nil)
}
