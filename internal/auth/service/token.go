package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/pkg/jwtx"
)

// TokenErrorReason distinguishes why a presented token was rejected.
type TokenErrorReason int

const (
	TokenInvalidSignature TokenErrorReason = iota
	TokenExpired
)

func (r TokenErrorReason) String() string {
	if r == TokenExpired {
		return "expired"
	}
	return "invalid_signature"
}

// TokenError is returned by TokenIssuer.Verify. Anything other than a
// correctly signed token past its expiry is reported as TokenInvalidSignature.
// It matches ErrInvalidToken under errors.Is.
type TokenError struct {
	Reason TokenErrorReason
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %s: %v", e.Reason, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }

// TokenConfig is the fixed configuration of a TokenIssuer.
type TokenConfig struct {
	Secret []byte           // HMAC key, at least jwtx.MinSecretLength bytes
	TTL    time.Duration    // Lifetime of each issued token
	Issuer string           // Optional "iss" value, checked on verify when set
	Now    func() time.Time // Clock override for tests; nil means time.Now
}

// TokenIssuer signs and verifies auth tokens. It keeps no record of what it
// has issued, so verification depends only on the token and the secret.
type TokenIssuer struct {
	signer   jwtx.Signer
	verifier jwtx.Verifier
	ttl      time.Duration
	issuer   string
	now      func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	signer, err := jwtx.NewSignerHS256(cfg.Secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwtx.NewVerifierHS256(cfg.Secret, jwtx.VerifyOptions{Issuer: cfg.Issuer, Now: now})
	if err != nil {
		return nil, err
	}

	return &TokenIssuer{
		signer:   signer,
		verifier: verifier,
		ttl:      cfg.TTL,
		issuer:   cfg.Issuer,
		now:      now,
	}, nil
}

// TTL reports the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token carrying user with iat = now and exp = now + TTL.
func (t *TokenIssuer) Issue(user domain.PublicUser, subject string) (string, error) {
	return t.sign(jwtx.NewClaims(userClaims(user), subject, t.issuer, t.ttl, t.now()))
}

// Verify checks the signature and expiry of token and returns its claims.
func (t *TokenIssuer) Verify(token string) (jwtx.Claims, error) {
	claims, err := t.verifier.Verify(token)
	if err != nil {
		reason := TokenInvalidSignature
		if errors.Is(err, jwtx.ErrExpired) {
			reason = TokenExpired
		}
		return jwtx.Claims{}, &TokenError{Reason: reason, Err: err}
	}
	return claims, nil
}

// Reissue signs a fresh token with the same user payload and subject as
// claims. The new expiry is always strictly later than the old one, even when
// called within the same second the old token was issued.
func (t *TokenIssuer) Reissue(claims jwtx.Claims) (string, error) {
	now := t.now().UTC().Truncate(time.Second)
	if claims.IssuedAt != nil && !now.After(claims.IssuedAt.Time) {
		now = claims.IssuedAt.Time.Add(time.Second)
	}
	return t.sign(jwtx.NewClaims(claims.User, claims.Subject, t.issuer, t.ttl, now))
}

func (t *TokenIssuer) sign(claims jwtx.Claims) (string, error) {
	token, err := t.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func userClaims(u domain.PublicUser) jwtx.UserClaims {
	return jwtx.UserClaims{ID: u.ID, Username: u.Username, Fullname: u.Fullname}
}
