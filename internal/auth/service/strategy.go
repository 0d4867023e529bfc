package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/internal/auth/store"
)

var tracer = otel.Tracer("github.com/aussiebroadwan/noteful/internal/auth/service")

// LoginFailureReason says why credentials were rejected. It is for logs and
// tests only and must never reach a client.
type LoginFailureReason int

const (
	ReasonNone LoginFailureReason = iota
	ReasonUnknownUsername
	ReasonWrongPassword
)

func (r LoginFailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnknownUsername:
		return "unknown_username"
	case ReasonWrongPassword:
		return "wrong_password"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// AuthResult is the outcome of an authentication attempt: either a user
// (Reason == ReasonNone) or a failure reason with a zero User.
type AuthResult struct {
	User   domain.User
	Reason LoginFailureReason
}

func (r AuthResult) Succeeded() bool { return r.Reason == ReasonNone }

// PasswordHasher derives and checks password digests.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, digest string) (bool, error)
	// Dummy returns a digest no password matches, used to equalise timing.
	Dummy() string
}

// CredentialStore looks up a user record by exact username.
type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// AuthenticationStrategy turns presented credentials into an AuthResult. A
// non-nil error means the check could not be carried out at all.
type AuthenticationStrategy interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (AuthResult, error)
}

// LocalStrategy authenticates against the local credential store. It holds
// no per-request state and is safe for concurrent use.
type LocalStrategy struct {
	Users  CredentialStore
	Hasher PasswordHasher
}

var _ AuthenticationStrategy = (*LocalStrategy)(nil)

func (s *LocalStrategy) Authenticate(ctx context.Context, creds domain.Credentials) (AuthResult, error) {
	ctx, span := tracer.Start(ctx, "LocalStrategy.Authenticate",
		trace.WithAttributes(attribute.String("username", creds.Username)),
	)
	defer span.End()

	// 1. Look the user up by exact username
	user, err := s.Users.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "credential lookup failed")
			return AuthResult{}, fmt.Errorf("lookup user: %w", err)
		}

		// 2. Unknown user: still pay for one verification so the response
		// time does not reveal whether the username exists.
		if _, err := s.Hasher.Verify(ctx, creds.Password, s.Hasher.Dummy()); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "hash failed")
			return AuthResult{}, err
		}
		span.SetAttributes(attribute.String("auth.result", ReasonUnknownUsername.String()))
		return AuthResult{Reason: ReasonUnknownUsername}, nil
	}

	// 3. Verify the presented password against the stored digest
	ok, err := s.Hasher.Verify(ctx, creds.Password, user.PasswordHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		return AuthResult{}, err
	}
	if !ok {
		span.SetAttributes(attribute.String("auth.result", ReasonWrongPassword.String()))
		return AuthResult{Reason: ReasonWrongPassword}, nil
	}

	span.SetAttributes(attribute.String("auth.result", "success"))
	return AuthResult{User: user}, nil
}
