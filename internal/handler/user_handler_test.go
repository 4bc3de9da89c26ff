package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/middleware"
	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/service"
	"github.com/noah-isme/scrum-console-gateway/internal/session"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
	"github.com/noah-isme/scrum-console-gateway/pkg/response"
)

type fakeUserAPI struct {
	users []*models.User
	role  *models.Role
	err   error
}

func (f *fakeUserAPI) ListUsers(_ context.Context, _ string) ([]*models.User, error) {
	return f.users, f.err
}

func (f *fakeUserAPI) ListModerators(_ context.Context, _ string) ([]*models.User, error) {
	return f.users, f.err
}

func (f *fakeUserAPI) GetUser(_ context.Context, _ string, id int) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: id, Username: "walter"}, nil
}

func (f *fakeUserAPI) CreateUser(_ context.Context, _ string, req models.CreateUserRequest) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: 10, Username: req.Username}, nil
}

func (f *fakeUserAPI) UpdateUser(_ context.Context, _ string, id int, req models.UpdateUserRequest) (*models.User, error) {
	return &models.User{ID: id, Username: req.Username}, f.err
}

func (f *fakeUserAPI) DeleteUser(_ context.Context, _ string, id int) (*models.User, error) {
	return &models.User{ID: id}, f.err
}

func (f *fakeUserAPI) SetUserRole(_ context.Context, _ string, _ int, _ string) (*models.Role, error) {
	return f.role, f.err
}

func authenticatedGate(t *testing.T) *session.Gate {
	t.Helper()
	gate := session.NewGate()
	require.NoError(t, gate.BeginAttempt())
	require.NoError(t, gate.Accept(&models.User{ID: 1, Username: "walter", Role: &models.Role{RoleName: models.RoleAdmin}}, "upstream-token"))
	return gate
}

func testContext(t *testing.T, method, target string, body interface{}, gate *session.Gate) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if gate != nil {
		c.Set(middleware.ContextGateKey, gate)
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestUserHandlerListReturnsPagination(t *testing.T) {
	api := &fakeUserAPI{users: []*models.User{
		{ID: 1, Username: "ada"},
		{ID: 2, Username: "walter"},
	}}
	h := NewUserHandler(service.NewUserService(api, nil, zap.NewNop()))

	c, rec := testContext(t, http.MethodGet, "/admin/users?page=1&page_size=1", nil, authenticatedGate(t))
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.TotalCount)
	assert.Equal(t, 1, envelope.Pagination.Page)
}

func TestUserHandlerListWithoutSession(t *testing.T) {
	h := NewUserHandler(service.NewUserService(&fakeUserAPI{}, nil, zap.NewNop()))

	c, rec := testContext(t, http.MethodGet, "/admin/users", nil, nil)
	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandlerChangeRoleEchoesServerRole(t *testing.T) {
	api := &fakeUserAPI{role: &models.Role{ID: 1, RoleName: models.RoleAdmin}}
	h := NewUserHandler(service.NewUserService(api, nil, zap.NewNop()))

	c, rec := testContext(t, http.MethodPatch, "/admin/users/3/role", models.ChangeRoleRequest{Role: "ADMIN"}, authenticatedGate(t))
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	h.ChangeRole(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.Role `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.RoleAdmin, envelope.Data.RoleName)
}

func TestUserHandlerChangeRoleUpstreamRejection(t *testing.T) {
	api := &fakeUserAPI{err: appErrors.New(appErrors.ErrRequestRejected.Code, appErrors.ErrRequestRejected.Status, "role change rejected")}
	h := NewUserHandler(service.NewUserService(api, nil, zap.NewNop()))

	c, rec := testContext(t, http.MethodPatch, "/admin/users/3/role", models.ChangeRoleRequest{Role: "ADMIN"}, authenticatedGate(t))
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	h.ChangeRole(c)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrRequestRejected.Code, envelope.Error.Code)
}

func TestUserHandlerGetRejectsBadID(t *testing.T) {
	h := NewUserHandler(service.NewUserService(&fakeUserAPI{}, nil, zap.NewNop()))

	c, rec := testContext(t, http.MethodGet, "/admin/users/abc", nil, authenticatedGate(t))
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandlerCreate(t *testing.T) {
	h := NewUserHandler(service.NewUserService(&fakeUserAPI{}, nil, zap.NewNop()))

	payload := models.CreateUserRequest{
		Username: "nina",
		Email:    "nina@corp.io",
		Password: "hunter22",
		Role:     "MODERATOR",
	}
	c, rec := testContext(t, http.MethodPost, "/admin/users", payload, authenticatedGate(t))
	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
