package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
)

// LoginFailure is returned by Login when credentials are rejected. It matches
// ErrInvalidCredentials under errors.Is. Reason is internal detail.
type LoginFailure struct {
	Reason LoginFailureReason
}

func (e *LoginFailure) Error() string { return "login failed: " + e.Reason.String() }

func (e *LoginFailure) Is(target error) bool { return target == ErrInvalidCredentials }

// AuthService ties credential checking to token issuance. Failures are
// terminal: nothing here retries.
type AuthService struct {
	Strategy AuthenticationStrategy
	Tokens   *TokenIssuer
}

// Login authenticates creds and issues a token for the matching user.
//
// It returns *LoginFailure when credentials are rejected and passes through
// hashing or store failures unchanged.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	start := time.Now()
	defer func() { LoginDuration.Observe(time.Since(start).Seconds()) }()

	l := slogx.FromContext(ctx)

	// 1. Authenticate
	result, err := s.Strategy.Authenticate(ctx, creds)
	if err != nil {
		LoginAttempts.WithLabelValues(OutcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "authenticate failed")
		l.Error("login could not be completed", slog.String("username", creds.Username), slog.Any("err", err))
		return "", err
	}
	if !result.Succeeded() {
		LoginAttempts.WithLabelValues(OutcomeRejected).Inc()
		l.Info("login rejected",
			slog.String("username", creds.Username),
			slog.String("reason", result.Reason.String()),
		)
		return "", &LoginFailure{Reason: result.Reason}
	}

	// 2. Issue a token for the authenticated user
	user := result.User
	token, err := s.Tokens.Issue(user.Public(), user.Username)
	if err != nil {
		LoginAttempts.WithLabelValues(OutcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue failed")
		return "", err
	}

	LoginAttempts.WithLabelValues(OutcomeSuccess).Inc()
	l.Info("login succeeded", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return token, nil
}

// Refresh exchanges a valid, unexpired token for a new one with the same
// claims and a later expiry.
//
// The credential store is not consulted: a token stays refreshable until it
// expires even if the account behind it has since been removed. There is no
// revocation list, so a leaked token can be renewed indefinitely by whoever
// holds it.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	l := slogx.FromContext(ctx)

	claims, err := s.Tokens.Verify(token)
	if err != nil {
		reason := "unknown"
		var tokenErr *TokenError
		if errors.As(err, &tokenErr) {
			reason = tokenErr.Reason.String()
		}
		TokenRefreshes.WithLabelValues(OutcomeRejected).Inc()
		l.Info("refresh rejected", slog.String("reason", reason))
		return "", err
	}

	fresh, err := s.Tokens.Reissue(claims)
	if err != nil {
		TokenRefreshes.WithLabelValues(OutcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "reissue failed")
		return "", fmt.Errorf("refresh: %w", err)
	}

	TokenRefreshes.WithLabelValues(OutcomeSuccess).Inc()
	l.Debug("token refreshed", slog.String("user_id", claims.User.ID))
	return fresh, nil
}
