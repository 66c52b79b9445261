// Package session holds the authenticated user's token and profile and
// decides which views that user may open.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TFMV/querylab/pkg/models"
)

// Session is the token plus the profile returned at login. The zero value
// is a logged-out session. A Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  models.User
}

// New creates a session for token and user.
func New(token string, user models.User) *Session {
	return &Session{token: token, user: user}
}

// FromAuthResponse builds a session from a login or register response.
func FromAuthResponse(resp *models.AuthResponse) *Session {
	return New(resp.Token, resp.User())
}

// Token implements client.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the profile.
func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the user has the ADMIN role.
func (s *Session) IsAdmin() bool {
	return s.User().Role == models.RoleAdmin
}

// Expired reports whether the token's exp claim lies before now. The
// signature is not verified; tokens without exp, or that cannot be decoded,
// never expire on this side and are left for the backend to reject.
func (s *Session) Expired(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Clear logs the session out in memory.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = models.User{}
}

// Replace swaps in another session's state.
func (s *Session) Replace(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}
