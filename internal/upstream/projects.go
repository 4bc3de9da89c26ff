package upstream

import (
	"context"
	"fmt"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
)

// ListProjects fetches all projects with their relations.
func (c *Client) ListProjects(ctx context.Context, token string) ([]*models.Project, error) {
	var projects []*models.Project
	if err := c.do(ctx, "GET", "/api/v1/admin/projects", token, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, token string, id int) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/v1/admin/projects/%d", id), token, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProjectDetail fetches the expanded project view including maturity
// scores computed by the assessment service.
func (c *Client) GetProjectDetail(ctx context.Context, token string, id int) (map[string]interface{}, error) {
	var detail map[string]interface{}
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/v1/admin/projects/%d/detail", id), token, nil, &detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, token string, req models.ProjectPayload) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, "POST", "/api/v1/admin/projects", token, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject updates a project.
func (c *Client) UpdateProject(ctx context.Context, token string, id int, req models.ProjectPayload) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/v1/admin/projects/%d", id), token, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project and returns the deleted record.
func (c *Client) DeleteProject(ctx context.Context, token string, id int) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/projects/%d", id), token, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CalculateScores asks the assessment service to recompute maturity scores.
// Fire-and-forget: the result is read by a later detail fetch.
func (c *Client) CalculateScores(ctx context.Context, token string, id int) error {
	return c.do(ctx, "GET", fmt.Sprintf("/api/v1/admin/projects/%d/calculate-scores", id), token, nil, nil)
}
