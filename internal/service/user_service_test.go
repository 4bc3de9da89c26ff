package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type mockUserAPI struct {
	users      []*models.User
	moderators []*models.User
	listErr    error
	role       *models.Role
	roleErr    error
	lastRole   string
}

func (m *mockUserAPI) ListUsers(_ context.Context, _ string) ([]*models.User, error) {
	return m.users, m.listErr
}

func (m *mockUserAPI) ListModerators(_ context.Context, _ string) ([]*models.User, error) {
	return m.moderators, nil
}

func (m *mockUserAPI) GetUser(_ context.Context, _ string, id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "user not found")
}

func (m *mockUserAPI) CreateUser(_ context.Context, _ string, req models.CreateUserRequest) (*models.User, error) {
	return &models.User{ID: 99, Username: req.Username, Email: req.Email, Role: &models.Role{RoleName: req.Role}}, nil
}

func (m *mockUserAPI) UpdateUser(_ context.Context, _ string, id int, req models.UpdateUserRequest) (*models.User, error) {
	return &models.User{ID: id, Username: req.Username}, nil
}

func (m *mockUserAPI) DeleteUser(_ context.Context, _ string, id int) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (m *mockUserAPI) SetUserRole(_ context.Context, _ string, _ int, role string) (*models.Role, error) {
	m.lastRole = role
	return m.role, m.roleErr
}

func testUsers() []*models.User {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []*models.User{
		{ID: 1, Username: "walter", Email: "walter@corp.io", Fullname: "Walter Moss", CreatedAt: base, Role: &models.Role{RoleName: models.RoleAdmin}},
		{ID: 2, Username: "ada", Email: "ada@corp.io", Fullname: "Ada Byron", CreatedAt: base.Add(time.Hour), Role: &models.Role{RoleName: models.RoleModerator}},
		{ID: 3, Username: "Grace", Email: "grace@corp.io", Fullname: "Grace Hopper", CreatedAt: base.Add(2 * time.Hour), Role: &models.Role{RoleName: models.RoleModerator}},
	}
}

func TestUserServiceListAppliesFilterSortPagination(t *testing.T) {
	api := &mockUserAPI{users: testUsers()}
	svc := NewUserService(api, nil, zap.NewNop())

	list, err := svc.List(context.Background(), "token", models.ListFilter{
		SortBy:    "username",
		SortOrder: "asc",
		Page:      1,
		PageSize:  2,
	})
	require.NoError(t, err)

	require.Len(t, list.Users, 2)
	assert.Equal(t, "ada", list.Users[0].Username)
	assert.Equal(t, "Grace", list.Users[1].Username)
	assert.Equal(t, 3, list.Pagination.TotalCount)
	assert.Equal(t, 1, list.Pagination.Page)
}

func TestUserServiceListSearchReachesRoleName(t *testing.T) {
	api := &mockUserAPI{users: testUsers()}
	svc := NewUserService(api, nil, zap.NewNop())

	list, err := svc.List(context.Background(), "token", models.ListFilter{Search: "admin"})
	require.NoError(t, err)

	require.Len(t, list.Users, 1)
	assert.Equal(t, "walter", list.Users[0].Username)
	assert.Equal(t, 1, list.Pagination.TotalCount)
}

func TestUserServiceListPropagatesUpstreamError(t *testing.T) {
	api := &mockUserAPI{listErr: appErrors.New(appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "connection refused")}
	svc := NewUserService(api, nil, zap.NewNop())

	_, err := svc.List(context.Background(), "token", models.ListFilter{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUpstreamUnavailable))
}

func TestUserServiceChangeRoleReturnsServerRole(t *testing.T) {
	// The service must report the role the server settled on, not the one
	// the caller asked for.
	api := &mockUserAPI{role: &models.Role{ID: 2, RoleName: models.RoleModerator}}
	svc := NewUserService(api, nil, zap.NewNop())

	role, err := svc.ChangeRole(context.Background(), "token", 1, models.ChangeRoleRequest{Role: "moderator"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleModerator, role.RoleName)
	assert.Equal(t, "MODERATOR", api.lastRole, "role should be uppercased before the call")
}

func TestUserServiceChangeRoleRejectsUnknownRole(t *testing.T) {
	api := &mockUserAPI{}
	svc := NewUserService(api, nil, zap.NewNop())

	_, err := svc.ChangeRole(context.Background(), "token", 1, models.ChangeRoleRequest{Role: "superuser"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Empty(t, api.lastRole, "invalid role must not reach the network")
}

func TestUserServiceCreateValidates(t *testing.T) {
	api := &mockUserAPI{}
	svc := NewUserService(api, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), "token", models.CreateUserRequest{Username: "x"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	user, err := svc.Create(context.Background(), "token", models.CreateUserRequest{
		Username: "nina",
		Email:    "nina@corp.io",
		Password: "hunter22",
		Fullname: "Nina Kraus",
		Role:     "moderator",
	})
	require.NoError(t, err)
	assert.Equal(t, "MODERATOR", user.Role.RoleName)
}
