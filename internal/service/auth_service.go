package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	"github.com/noah-isme/scrum-console-gateway/internal/session"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type registrarAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
}

// LoginResult carries the console session handle and the resolved user.
type LoginResult struct {
	SessionID string       `json:"session_id"`
	User      *models.User `json:"user"`
}

// SessionStatus is the introspection view of a session gate.
type SessionStatus struct {
	State         session.State `json:"state"`
	Authenticated bool          `json:"authenticated"`
	User          *models.User  `json:"user,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
}

// AuthService drives login, registration and logout against the session
// manager and the assessment service.
type AuthService struct {
	sessions  *session.Manager
	api       registrarAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(sessions *session.Manager, api registrarAPI, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{sessions: sessions, api: api, validator: validate, logger: logger}
}

// Login validates credentials locally and performs a single login attempt.
// No retries: a rejected attempt surfaces its message and the caller may
// submit again. sessionID is the caller's current session, if any, so a
// rejected attempt stays visible through session introspection.
func (s *AuthService) Login(ctx context.Context, sessionID string, req models.LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	id, user, err := s.sessions.Login(ctx, sessionID, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login accepted", zap.String("username", user.Username))
	return &LoginResult{SessionID: id, User: user}, nil
}

// Register creates an account. Local validation never reaches the network.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	return s.api.Register(ctx, req)
}

// Logout clears the session; local state is cleared regardless of store
// outcome.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	s.sessions.Logout(ctx, sessionID)
}

// Status reports the current session state for introspection.
func (s *AuthService) Status(gate *session.Gate) SessionStatus {
	if gate == nil {
		return SessionStatus{State: session.StateAnonymous}
	}
	return SessionStatus{
		State:         gate.State(),
		Authenticated: gate.Authenticated(),
		User:          gate.User(),
		LastError:     gate.Reason(),
	}
}
