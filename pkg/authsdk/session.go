package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/noteful/pkg/jwtx"
)

// RefreshBuffer is how long before expiry a Session renews its token.
const RefreshBuffer = 30 * time.Second

// Session holds an auth token and renews it through /api/refresh shortly
// before it expires. It is safe for concurrent use.
type Session struct {
	client *Client
	now    func() time.Time

	mu        sync.RWMutex
	token     string
	user      jwtx.UserClaims
	expiresAt time.Time
}

// NewSession wraps an existing auth token. The token's claims are read
// without verifying the signature; the server remains the authority.
func NewSession(client *Client, authToken string) (*Session, error) {
	s := &Session{client: client, now: time.Now}
	if err := s.set(authToken); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) set(authToken string) error {
	var claims jwtx.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(authToken, &claims); err != nil {
		return fmt.Errorf("authsdk: read token claims: %w", err)
	}
	if claims.ExpiresAt == nil {
		return errors.New("authsdk: token has no expiry")
	}

	s.token = authToken
	s.user = claims.User
	s.expiresAt = claims.ExpiresAt.Time
	return nil
}

// Token returns a token that is not about to expire, refreshing first if
// needed.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.fresh() {
		token := s.token
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	if s.fresh() {
		return s.token, nil
	}
	if !s.now().Before(s.expiresAt) {
		return "", errors.New("authsdk: token expired, log in again")
	}

	tok, err := s.client.Refresh(ctx, s.token)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	if err := s.set(tok.AuthToken); err != nil {
		return "", err
	}
	return s.token, nil
}

// fresh must be called with mu held.
func (s *Session) fresh() bool {
	return s.now().Add(RefreshBuffer).Before(s.expiresAt)
}

// User returns the identity carried in the current token.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return User{ID: s.user.ID, Username: s.user.Username, Fullname: s.user.Fullname}
}

// ExpiresAt reports when the current token expires.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}
