package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

// Authenticator is the slice of the upstream client the session machine
// depends on.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, token string) (*models.User, error)
}

// Config tunes session handling. OnResume, when set, fires each time a
// session is rebuilt from the token store.
type Config struct {
	KeyPrefix string
	TTL       time.Duration
	OnResume  func()
}

// Manager owns every console session gate. Sessions are keyed by opaque IDs
// handed out at login; the matching upstream token lives in the token store
// so a session survives a gateway restart via a resume attempt.
type Manager struct {
	mu     sync.RWMutex
	gates  map[string]*Gate
	store  TokenStore
	api    Authenticator
	logger *zap.Logger
	config Config
}

// NewManager constructs a Manager instance.
func NewManager(store TokenStore, api Authenticator, logger *zap.Logger, config Config) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "console:session"
	}
	return &Manager{
		gates:  make(map[string]*Gate),
		store:  store,
		api:    api,
		logger: logger,
		config: config,
	}
}

// Login performs the full login attempt. The gate passes through
// authenticating and lands either authenticated (fresh session registered,
// token persisted) or failed (error returned, nothing persisted). A caller
// that already holds a session ID passes it as presentedID: a rejected
// attempt then registers the failed gate under that ID so session
// introspection reports the failure and its reason.
func (m *Manager) Login(ctx context.Context, presentedID, username, password string) (string, *models.User, error) {
	gate := m.loginGate(presentedID)
	if err := gate.BeginAttempt(); err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "session machine error")
	}

	token, err := m.api.Authenticate(ctx, username, password)
	if err != nil {
		m.rejectLogin(gate, presentedID, err)
		return "", nil, err
	}

	user, err := m.api.Profile(ctx, token)
	if err != nil {
		m.rejectLogin(gate, presentedID, err)
		return "", nil, err
	}

	if err := gate.Accept(user, token); err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "session machine error")
	}

	id := uuid.NewString()
	if err := m.store.Put(ctx, m.key(id), token, m.config.TTL); err != nil {
		// The session still works for this process lifetime; it just will
		// not survive a restart.
		m.logger.Warn("failed to persist session token", zap.Error(err))
	}

	m.mu.Lock()
	m.gates[id] = gate
	if presentedID != "" && presentedID != id {
		delete(m.gates, presentedID)
	}
	m.mu.Unlock()

	return id, user, nil
}

// loginGate reuses the in-memory gate for a presented session ID when it can
// re-admit an attempt; an authenticated or unknown session gets a fresh one.
func (m *Manager) loginGate(presentedID string) *Gate {
	if presentedID == "" {
		return NewGate()
	}
	m.mu.RLock()
	gate, ok := m.gates[presentedID]
	m.mu.RUnlock()
	if ok {
		switch gate.State() {
		case StateAnonymous, StateFailed:
			return gate
		}
	}
	return NewGate()
}

func (m *Manager) rejectLogin(gate *Gate, presentedID string, err error) {
	_ = gate.Reject(appErrors.FromError(err).Message)
	if presentedID == "" {
		return
	}
	m.mu.Lock()
	m.gates[presentedID] = gate
	m.mu.Unlock()
}

// Resolve returns the gate for a session ID, resuming from the token store
// when the gate is not in memory. Unknown sessions resolve to an anonymous
// gate. Resume failures are silent: an expired or invalid token is deleted
// and the gate settles anonymous.
func (m *Manager) Resolve(ctx context.Context, id string) *Gate {
	if id == "" {
		return NewGate()
	}

	m.mu.RLock()
	gate, ok := m.gates[id]
	m.mu.RUnlock()
	if ok {
		return gate
	}

	return m.resume(ctx, id)
}

func (m *Manager) resume(ctx context.Context, id string) *Gate {
	gate := NewGate()

	token, ok, err := m.store.Get(ctx, m.key(id))
	if err != nil {
		m.logger.Warn("session store lookup failed", zap.Error(err))
		return gate
	}
	if !ok {
		return gate
	}

	if err := gate.BeginAttempt(); err != nil {
		return gate
	}

	if tokenExpired(token, time.Now()) {
		if err := m.store.Delete(ctx, m.key(id)); err != nil {
			m.logger.Warn("failed to delete expired session token", zap.Error(err))
		}
		_ = gate.Settle()
		return gate
	}

	user, err := m.api.Profile(ctx, token)
	if err != nil {
		// Only an authoritative rejection clears the stored token; an
		// unreachable upstream leaves it for the next request to retry.
		if appErrors.HasCode(err, appErrors.ErrAuthExpired) ||
			appErrors.HasCode(err, appErrors.ErrUnauthorized) ||
			appErrors.HasCode(err, appErrors.ErrNotFound) {
			if delErr := m.store.Delete(ctx, m.key(id)); delErr != nil {
				m.logger.Warn("failed to delete stale session token", zap.Error(delErr))
			}
		} else {
			m.logger.Warn("session resume failed", zap.Error(err))
		}
		_ = gate.Settle()
		return gate
	}

	if err := gate.Accept(user, token); err != nil {
		return NewGate()
	}

	m.mu.Lock()
	m.gates[id] = gate
	m.mu.Unlock()

	if m.config.OnResume != nil {
		m.config.OnResume()
	}

	return gate
}

// Logout clears the session. Local state is cleared regardless of store
// errors; the assessment service keeps no server-side session to invalidate.
func (m *Manager) Logout(ctx context.Context, id string) {
	if id == "" {
		return
	}

	if err := m.store.Delete(ctx, m.key(id)); err != nil {
		m.logger.Warn("failed to delete session token", zap.Error(err))
	}

	m.mu.Lock()
	gate, ok := m.gates[id]
	delete(m.gates, id)
	m.mu.Unlock()

	if ok {
		gate.Logout()
	}
}

func (m *Manager) key(id string) string {
	return fmt.Sprintf("%s:%s", m.config.KeyPrefix, id)
}
