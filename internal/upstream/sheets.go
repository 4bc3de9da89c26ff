package upstream

import (
	"context"
	"fmt"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
)

// ListSheets fetches all sheets.
func (c *Client) ListSheets(ctx context.Context, token string) ([]*models.Sheet, error) {
	var sheets []*models.Sheet
	if err := c.do(ctx, "GET", "/api/v1/admin/sheets", token, nil, &sheets); err != nil {
		return nil, err
	}
	return sheets, nil
}

// ListSheetsAvailable fetches sheets not yet linked to a project.
func (c *Client) ListSheetsAvailable(ctx context.Context, token string) ([]*models.Sheet, error) {
	var sheets []*models.Sheet
	if err := c.do(ctx, "GET", "/api/v1/admin/sheets/available", token, nil, &sheets); err != nil {
		return nil, err
	}
	return sheets, nil
}

// GetSheet fetches a single sheet by ID.
func (c *Client) GetSheet(ctx context.Context, token string, id int) (*models.Sheet, error) {
	var sheet models.Sheet
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/v1/admin/sheets/%d", id), token, nil, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// CreateSheet creates a sheet.
func (c *Client) CreateSheet(ctx context.Context, token string, req models.SheetPayload) (*models.Sheet, error) {
	var sheet models.Sheet
	if err := c.do(ctx, "POST", "/api/v1/admin/sheets", token, req, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// UpdateSheet updates a sheet.
func (c *Client) UpdateSheet(ctx context.Context, token string, id int, req models.SheetPayload) (*models.Sheet, error) {
	var sheet models.Sheet
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/v1/admin/sheets/%d", id), token, req, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// DeleteSheet removes a sheet and returns the deleted record.
func (c *Client) DeleteSheet(ctx context.Context, token string, id int) (*models.Sheet, error) {
	var sheet models.Sheet
	if err := c.do(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/sheets/%d", id), token, nil, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}
