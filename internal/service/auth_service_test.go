package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/session"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type mockAuthBackend struct {
	token      string
	authErr    error
	user       *models.User
	registered *models.RegisterRequest
}

func (m *mockAuthBackend) Authenticate(_ context.Context, _, _ string) (string, error) {
	return m.token, m.authErr
}

func (m *mockAuthBackend) Profile(_ context.Context, _ string) (*models.User, error) {
	return m.user, nil
}

func (m *mockAuthBackend) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	m.registered = &req
	return &models.User{ID: 7, Username: req.Username, Email: req.Email}, nil
}

func newTestAuthService(backend *mockAuthBackend) (*AuthService, *session.Manager) {
	mgr := session.NewManager(session.NewMemoryStore(), backend, zap.NewNop(), session.Config{})
	return NewAuthService(mgr, backend, nil, zap.NewNop()), mgr
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	backend := &mockAuthBackend{
		token: "server-token",
		user:  &models.User{ID: 1, Username: "walter", Role: &models.Role{RoleName: models.RoleAdmin}},
	}
	svc, mgr := newTestAuthService(backend)

	result, err := svc.Login(context.Background(), "", models.LoginRequest{Username: "walter", Password: "secret"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "walter", result.User.Username)

	gate := mgr.Resolve(context.Background(), result.SessionID)
	assert.True(t, gate.Authenticated())
}

func TestAuthServiceLoginValidationSkipsNetwork(t *testing.T) {
	backend := &mockAuthBackend{authErr: appErrors.ErrInvalidCredentials}
	svc, _ := newTestAuthService(backend)

	_, err := svc.Login(context.Background(), "", models.LoginRequest{Username: "walter"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestAuthServiceLoginRejected(t *testing.T) {
	backend := &mockAuthBackend{
		authErr: appErrors.New(appErrors.ErrInvalidCredentials.Code, appErrors.ErrInvalidCredentials.Status, "incorrect username or password"),
	}
	svc, _ := newTestAuthService(backend)

	_, err := svc.Login(context.Background(), "", models.LoginRequest{Username: "walter", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceFailedLoginReportedBySessionStatus(t *testing.T) {
	backend := &mockAuthBackend{
		authErr: appErrors.New(appErrors.ErrInvalidCredentials.Code, appErrors.ErrInvalidCredentials.Status, "incorrect username or password"),
	}
	svc, mgr := newTestAuthService(backend)

	_, err := svc.Login(context.Background(), "browser-1", models.LoginRequest{Username: "walter", Password: "wrong"})
	require.Error(t, err)

	status := svc.Status(mgr.Resolve(context.Background(), "browser-1"))
	assert.Equal(t, session.StateFailed, status.State)
	assert.False(t, status.Authenticated)
	assert.Equal(t, "incorrect username or password", status.LastError)
}

func TestAuthServiceRegister(t *testing.T) {
	backend := &mockAuthBackend{}
	svc, _ := newTestAuthService(backend)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Username: "ab", Email: "bad", Password: "123"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Nil(t, backend.registered)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "nina",
		Email:    "nina@corp.io",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "nina", user.Username)
	require.NotNil(t, backend.registered)
}

func TestAuthServiceLogout(t *testing.T) {
	backend := &mockAuthBackend{
		token: "server-token",
		user:  &models.User{ID: 1, Username: "walter"},
	}
	svc, mgr := newTestAuthService(backend)

	result, err := svc.Login(context.Background(), "", models.LoginRequest{Username: "walter", Password: "secret"})
	require.NoError(t, err)

	svc.Logout(context.Background(), result.SessionID)

	// After logout the token is gone, but Profile would still answer; the
	// backend must not be consulted for a deleted session.
	backend.user = nil
	gate := mgr.Resolve(context.Background(), result.SessionID)
	assert.Equal(t, session.StateAnonymous, gate.State())
}

func TestAuthServiceStatus(t *testing.T) {
	svc, _ := newTestAuthService(&mockAuthBackend{})

	status := svc.Status(nil)
	assert.Equal(t, session.StateAnonymous, status.State)
	assert.False(t, status.Authenticated)
}
