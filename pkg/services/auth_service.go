package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/models"
	"github.com/TFMV/querylab/pkg/session"
)

// authService implements AuthService interface.
type authService struct {
	backend Backend
	current *session.Session
	store   session.Store
	logger  Logger
}

// NewAuthService creates a new auth service. A successful login or
// registration replaces current and is written to store.
func NewAuthService(backend Backend, current *session.Session, store session.Store, logger Logger) AuthService {
	return &authService{
		backend: backend,
		current: current,
		store:   store,
		logger:  logger,
	}
}

// Login exchanges credentials for a session.
func (s *authService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New(errors.CodeInvalidRequest, "email and password are required")
	}

	var resp models.AuthResponse
	if err := s.backend.Post(ctx, "/auth/login", nil, models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, err
	}
	return s.establish(&resp)
}

// Register creates an account and logs into it.
func (s *authService) Register(ctx context.Context, username, email, password string) (*session.Session, error) {
	req := models.RegisterRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := s.backend.Post(ctx, "/auth/register", nil, req, &resp); err != nil {
		s.logger.Warn("Registration failed", "username", req.Username, "error", err)
		return nil, err
	}
	return s.establish(&resp)
}

// Logout forgets the session locally. The backend keeps no session state.
func (s *authService) Logout() error {
	s.current.Clear()
	if err := s.store.Clear(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to remove stored session")
	}
	s.logger.Info("Logged out")
	return nil
}

func (s *authService) establish(resp *models.AuthResponse) (*session.Session, error) {
	if resp.Token == "" {
		return nil, errors.New(errors.CodeDecodeFailed, "backend returned no token")
	}

	s.current.Replace(resp.Token, resp.User())
	if err := s.store.Save(s.current); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to store session")
	}

	s.logger.Info("Logged in", "username", resp.Username, "role", resp.Role)
	return s.current, nil
}

func validateRegistration(req models.RegisterRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errors.New(errors.CodeInvalidRequest, "username, email and password are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.Newf(errors.CodeInvalidRequest, "invalid email address %q", req.Email).
			WithDetail("field", "email")
	}
	return nil
}
