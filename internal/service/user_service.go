package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/tabview"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type userAPI interface {
	ListUsers(ctx context.Context, token string) ([]*models.User, error)
	ListModerators(ctx context.Context, token string) ([]*models.User, error)
	GetUser(ctx context.Context, token string, id int) (*models.User, error)
	CreateUser(ctx context.Context, token string, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, token string, id int, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, token string, id int) (*models.User, error)
	SetUserRole(ctx context.Context, token string, id int, role string) (*models.Role, error)
}

// UserList is one page of the admin user table.
type UserList struct {
	Users      []*models.User
	Pagination *models.Pagination
}

// UserService wraps the account surface of the assessment service and runs
// the search/sort/paginate pipeline over its responses.
type UserService struct {
	api       userAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(api userAPI, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{api: api, validator: validate, logger: logger}
}

// List fetches every user and applies filter, sort and pagination locally.
func (s *UserService) List(ctx context.Context, token string, filter models.ListFilter) (*UserList, error) {
	users, err := s.api.ListUsers(ctx, token)
	if err != nil {
		return nil, err
	}

	q := listQuery(filter, "username")
	result := tabview.View(users, q, models.UserFields())

	return &UserList{
		Users:      result.Rows,
		Pagination: paginationFor(q, result.TotalMatching),
	}, nil
}

// Moderators returns accounts holding the moderator role, for project
// assignment pickers.
func (s *UserService) Moderators(ctx context.Context, token string) ([]*models.User, error) {
	return s.api.ListModerators(ctx, token)
}

// Get returns a single user by ID.
func (s *UserService) Get(ctx context.Context, token string, id int) (*models.User, error) {
	return s.api.GetUser(ctx, token, id)
}

// Create registers a new account with the given role.
func (s *UserService) Create(ctx context.Context, token string, req models.CreateUserRequest) (*models.User, error) {
	req.Role = strings.ToUpper(req.Role)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	return s.api.CreateUser(ctx, token, req)
}

// Update modifies account fields. Empty fields are left untouched upstream.
func (s *UserService) Update(ctx context.Context, token string, id int, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	return s.api.UpdateUser(ctx, token, id, req)
}

// Delete removes an account and returns its final state.
func (s *UserService) Delete(ctx context.Context, token string, id int) (*models.User, error) {
	return s.api.DeleteUser(ctx, token, id)
}

// ChangeRole flips a user between admin and moderator. The returned role is
// whatever the assessment service reports back; callers must not substitute
// their own notion of the target role, and on error they should refetch the
// user to see the authoritative state.
func (s *UserService) ChangeRole(ctx context.Context, token string, id int, req models.ChangeRoleRequest) (*models.Role, error) {
	req.Role = strings.ToUpper(req.Role)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "role must be ADMIN or MODERATOR")
	}

	role, err := s.api.SetUserRole(ctx, token, id, req.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", zap.Int("user_id", id), zap.String("role", role.RoleName))
	return role, nil
}
