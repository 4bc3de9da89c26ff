package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type mockAuthAPI struct {
	token      string
	authErr    error
	profile    *models.User
	profileErr error

	authCalls    int
	profileCalls int
}

func (m *mockAuthAPI) Authenticate(ctx context.Context, username, password string) (string, error) {
	m.authCalls++
	if m.authErr != nil {
		return "", m.authErr
	}
	return m.token, nil
}

func (m *mockAuthAPI) Profile(ctx context.Context, token string) (*models.User, error) {
	m.profileCalls++
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func adminUser() *models.User {
	return &models.User{ID: 1, Username: "root", Role: &models.Role{ID: 1, RoleName: models.RoleAdmin}}
}

func TestManagerLoginSuccessPersistsToken(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{token: "upstream-token", profile: adminUser()}
	mgr := NewManager(store, api, zap.NewNop(), Config{TTL: time.Hour})

	id, user, err := mgr.Login(context.Background(), "", "root", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, "root", user.Username)

	stored, ok, err := store.Get(context.Background(), "console:session:"+id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "upstream-token", stored)

	gate := mgr.Resolve(context.Background(), id)
	assert.True(t, gate.Authenticated())
}

func TestManagerLoginRejectedLeavesNothingStored(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{authErr: appErrors.Clone(appErrors.ErrInvalidCredentials, "")}
	mgr := NewManager(store, api, zap.NewNop(), Config{})

	id, user, err := mgr.Login(context.Background(), "", "bad", "bad")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))
	assert.Empty(t, id)
	assert.Nil(t, user)

	// No token was ever written.
	_, ok, getErr := store.Get(context.Background(), "console:session:"+id)
	require.NoError(t, getErr)
	assert.False(t, ok)
}

func TestManagerLoginRejectedVisibleOnPresentedSession(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{authErr: appErrors.Clone(appErrors.ErrInvalidCredentials, "incorrect username or password")}
	mgr := NewManager(store, api, zap.NewNop(), Config{})

	_, _, err := mgr.Login(context.Background(), "browser-1", "bad", "bad")
	require.Error(t, err)

	// The failed attempt is observable through the presented session.
	gate := mgr.Resolve(context.Background(), "browser-1")
	assert.Equal(t, StateFailed, gate.State())
	assert.Equal(t, "incorrect username or password", gate.Reason())

	// A failed gate re-admits the next attempt; success replaces the
	// presented session with a fresh one.
	api.authErr = nil
	api.token = "fresh-token"
	api.profile = adminUser()

	id, user, err := mgr.Login(context.Background(), "browser-1", "root", "secret")
	require.NoError(t, err)
	require.NotEqual(t, "browser-1", id)
	assert.Equal(t, "root", user.Username)

	assert.True(t, mgr.Resolve(context.Background(), id).Authenticated())
	assert.Equal(t, StateAnonymous, mgr.Resolve(context.Background(), "browser-1").State())
}

func TestManagerResumeFromStore(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{profile: adminUser()}
	mgr := NewManager(store, api, zap.NewNop(), Config{})

	require.NoError(t, store.Put(context.Background(), "console:session:abc", "tok", 0))

	gate := mgr.Resolve(context.Background(), "abc")
	require.True(t, gate.Authenticated())
	assert.Equal(t, "tok", gate.Token())
	assert.Equal(t, 1, api.profileCalls)

	// Second resolve hits the in-memory gate, no second profile fetch.
	gate = mgr.Resolve(context.Background(), "abc")
	assert.True(t, gate.Authenticated())
	assert.Equal(t, 1, api.profileCalls)
}

func TestManagerResumeInvalidTokenClearsStoreSilently(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{profileErr: appErrors.Clone(appErrors.ErrAuthExpired, "")}
	mgr := NewManager(store, api, zap.NewNop(), Config{})

	require.NoError(t, store.Put(context.Background(), "console:session:gone", "stale", 0))

	gate := mgr.Resolve(context.Background(), "gone")
	assert.Equal(t, StateAnonymous, gate.State())
	assert.Empty(t, gate.Reason())

	_, ok, err := store.Get(context.Background(), "console:session:gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerResumeExpiredJWTSkipsProfileFetch(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{profile: adminUser()}
	mgr := NewManager(store, api, zap.NewNop(), Config{})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "root",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	raw, err := expired.SignedString([]byte("whatever"))
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "console:session:old", raw, 0))

	gate := mgr.Resolve(context.Background(), "old")
	assert.Equal(t, StateAnonymous, gate.State())
	assert.Zero(t, api.profileCalls)

	_, ok, err := store.Get(context.Background(), "console:session:old")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerResumeUpstreamDownKeepsToken(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{profileErr: appErrors.Clone(appErrors.ErrUpstreamUnavailable, "")}
	mgr := NewManager(store, api, zap.NewNop(), Config{})

	require.NoError(t, store.Put(context.Background(), "console:session:keep", "tok", 0))

	gate := mgr.Resolve(context.Background(), "keep")
	assert.Equal(t, StateAnonymous, gate.State())

	_, ok, err := store.Get(context.Background(), "console:session:keep")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManagerLogoutClearsEverything(t *testing.T) {
	store := NewMemoryStore()
	api := &mockAuthAPI{token: "tok", profile: adminUser()}
	mgr := NewManager(store, api, zap.NewNop(), Config{})

	id, _, err := mgr.Login(context.Background(), "", "root", "secret")
	require.NoError(t, err)

	mgr.Logout(context.Background(), id)

	_, ok, getErr := store.Get(context.Background(), "console:session:"+id)
	require.NoError(t, getErr)
	assert.False(t, ok)

	gate := mgr.Resolve(context.Background(), id)
	assert.Equal(t, StateAnonymous, gate.State())
}

func TestManagerResolveUnknownSessionIsAnonymous(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), &mockAuthAPI{}, zap.NewNop(), Config{})
	gate := mgr.Resolve(context.Background(), "never-seen")
	assert.Equal(t, StateAnonymous, gate.State())
	assert.False(t, gate.Authenticated())
}
