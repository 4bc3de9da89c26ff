package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL, Timeout: time.Second}, zap.NewNop())
}

func TestAuthenticateSendsFormCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "walter", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	})

	token, err := client.Authenticate(context.Background(), "walter", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestAuthenticateRejectedCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	})

	_, err := client.Authenticate(context.Background(), "walter", "wrong")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials),
		"a 401 at login means rejected credentials, not an expired session")
}

func TestProfileExpiredToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	})

	_, err := client.Profile(context.Background(), "stale-token")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrAuthExpired))
	assert.Contains(t, err.Error(), "Could not validate credentials")
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   *appErrors.Error
	}{
		{"forbidden", http.StatusForbidden, appErrors.ErrForbidden},
		{"not found", http.StatusNotFound, appErrors.ErrNotFound},
		{"bad request", http.StatusBadRequest, appErrors.ErrRequestRejected},
		{"unprocessable", http.StatusUnprocessableEntity, appErrors.ErrRequestRejected},
		{"conflict", http.StatusConflict, appErrors.ErrRequestRejected},
		{"server error", http.StatusInternalServerError, appErrors.ErrUpstreamUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			})

			_, err := client.GetUser(context.Background(), "token", 1)
			require.Error(t, err)
			assert.True(t, appErrors.HasCode(err, tc.want))
		})
	}
}

func TestUnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := New(Config{BaseURL: server.URL, Timeout: time.Second}, zap.NewNop())
	server.Close()

	_, err := client.ListUsers(context.Background(), "token")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUpstreamUnavailable))
}

func TestReadDetailShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"flat detail", `{"detail":"no such user"}`, "no such user"},
		{"string error", `{"error":"boom"}`, "boom"},
		{"nested error", `{"error":{"detail":"not found","entity_name":"Project"}}`, "Project: not found"},
		{"nested without entity", `{"error":{"detail":"not found"}}`, "not found"},
		{"garbage", `<html>nope</html>`, ""},
		{"empty", ``, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, readDetail(strings.NewReader(tc.body)))
		})
	}
}

func TestRequestsCarryBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer upstream-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListProjects(context.Background(), "upstream-token")
	require.NoError(t, err)
}

func TestSetUserRoleReturnsServerRole(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/admin/users/5/role", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":2,"role_name":"MODERATOR"}`))
	})

	role, err := client.SetUserRole(context.Background(), "token", 5, "MODERATOR")
	require.NoError(t, err)
	assert.Equal(t, "MODERATOR", role.RoleName)
}

func TestClientObservesCallDurations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":5,"username":"walter"}`))
	}))
	t.Cleanup(server.Close)

	type observation struct {
		operation string
		duration  time.Duration
	}
	var observed []observation
	client := New(Config{
		BaseURL: server.URL,
		Timeout: time.Second,
		Observe: func(operation string, duration time.Duration) {
			observed = append(observed, observation{operation, duration})
		},
	}, zap.NewNop())

	_, err := client.GetUser(context.Background(), "token", 5)
	require.NoError(t, err)

	require.Len(t, observed, 1)
	assert.Equal(t, "GET /api/v1/admin/users/:id", observed[0].operation)
	assert.GreaterOrEqual(t, observed[0].duration, time.Duration(0))
}

func TestClientObservesFailedCalls(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := New(Config{
		BaseURL: server.URL,
		Timeout: time.Second,
		Observe: func(string, time.Duration) { calls++ },
	}, zap.NewNop())
	server.Close()

	_, err := client.ListUsers(context.Background(), "token")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "transport failures still count as upstream calls")
}

func TestOperationLabelCollapsesIDs(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/api/v1/admin/users", "GET /api/v1/admin/users"},
		{"PATCH", "/api/v1/admin/users/42/role", "PATCH /api/v1/admin/users/:id/role"},
		{"GET", "/api/v1/admin/projects/7/calculate-scores", "GET /api/v1/admin/projects/:id/calculate-scores"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, operationLabel(tc.method, tc.path))
	}
}

func TestCalculateScoresDiscardsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/projects/7/calculate-scores", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"started"}`))
	})

	require.NoError(t, client.CalculateScores(context.Background(), "token", 7))
}
