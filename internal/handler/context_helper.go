package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scrum-console-gateway/internal/middleware"
	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/session"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

func gateFromContext(c *gin.Context) *session.Gate {
	return middleware.GateFrom(c)
}

// tokenFromContext returns the upstream token for the authenticated session.
// Admission guarantees authenticated routes carry one; the fallback error
// covers handlers mounted without the middleware.
func tokenFromContext(c *gin.Context) (string, error) {
	gate := gateFromContext(c)
	if !gate.Authenticated() {
		return "", appErrors.ErrUnauthorized
	}
	return gate.Token(), nil
}

func idParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "id must be a positive integer")
	}
	return id, nil
}

func listFilterFromQuery(c *gin.Context) models.ListFilter {
	var filter models.ListFilter

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "10")); err == nil {
		filter.PageSize = size
	}

	filter.Search = c.Query("search")
	filter.SortBy = c.Query("sort_by")
	filter.SortOrder = c.Query("sort_order")

	return filter
}
