package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an auth token when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// UserClaims is the identity payload carried under the "user" claim. It holds
// public account fields only and must never grow a password or digest field.
type UserClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

// Claims are the auth token claims: the registered iss/sub/iat/exp plus the
// user payload.
type Claims struct {
	jwt.RegisteredClaims

	User UserClaims `json:"user"`
}

// NewClaims builds claims issued at now and expiring ttl later. Timestamps are
// truncated to whole seconds, matching their encoded precision.
func NewClaims(user UserClaims, subject, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC().Truncate(time.Second)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		User: user,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateUser ensures the user payload identifies someone.
func (c *Claims) ValidateUser() error {
	if c.User.ID == "" || c.User.Username == "" {
		return ErrInvalidClaim
	}
	return nil
}
