package upstream

import (
	"context"
	"fmt"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
)

// ListUsers fetches all users.
func (c *Client) ListUsers(ctx context.Context, token string) ([]*models.User, error) {
	var users []*models.User
	if err := c.do(ctx, "GET", "/api/v1/admin/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListModerators fetches all users carrying the MODERATOR role.
func (c *Client) ListModerators(ctx context.Context, token string) ([]*models.User, error) {
	var users []*models.User
	if err := c.do(ctx, "GET", "/api/v1/admin/moderators", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a single user by ID.
func (c *Client) GetUser(ctx context.Context, token string, id int) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/v1/admin/users/%d", id), token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user with an explicit role.
func (c *Client) CreateUser(ctx context.Context, token string, req models.CreateUserRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "POST", "/api/v1/admin/users", token, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user's attributes.
func (c *Client) UpdateUser(ctx context.Context, token string, id int, req models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/v1/admin/users/%d", id), token, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user and returns the deleted record.
func (c *Client) DeleteUser(ctx context.Context, token string, id int) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/users/%d", id), token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserRole switches a user's role and returns the authoritative role
// record as stored by the assessment service.
func (c *Client) SetUserRole(ctx context.Context, token string, id int, role string) (*models.Role, error) {
	payload := models.ChangeRoleRequest{Role: role}
	var result models.Role
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/api/v1/admin/users/%d/role", id), token, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
