package service

import (
	"strings"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/tabview"
)

const defaultPageSize = 10

// listQuery converts the wire-level filter (one-based page) into a tabview
// query (zero-based page) with the resource's default sort key applied.
func listQuery(filter models.ListFilter, defaultSort string) tabview.Query {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = defaultSort
	}
	direction := tabview.Ascending
	if strings.EqualFold(filter.SortOrder, string(tabview.Descending)) {
		direction = tabview.Descending
	}

	return tabview.Query{
		Search:    filter.Search,
		SortKey:   sortBy,
		Direction: direction,
		Page:      page - 1,
		PageSize:  size,
	}
}

func paginationFor(q tabview.Query, total int) *models.Pagination {
	return &models.Pagination{
		Page:       q.Page + 1,
		PageSize:   q.PageSize,
		TotalCount: total,
	}
}
