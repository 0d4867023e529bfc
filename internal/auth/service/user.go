package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/internal/auth/store"
	"github.com/aussiebroadwan/noteful/pkg/idx"
	"github.com/aussiebroadwan/noteful/pkg/slogx"
)

// ErrUsernameTaken is returned by CreateUser when the username is in use.
var ErrUsernameTaken = errors.New("username_taken")

// ValidationError describes why a registration request was refused. Location
// names the offending field and may be empty.
type ValidationError struct {
	Message  string
	Location string
}

func (e *ValidationError) Error() string {
	if e.Location == "" {
		return e.Message
	}
	return e.Location + ": " + e.Message
}

// Size limits for registration fields, counted in characters.
const (
	UsernameMinLength = 1
	PasswordMinLength = 8
	PasswordMaxLength = 72
)

// NewUser is a registration request.
type NewUser struct {
	Username string
	Password string
	Fullname string
}

// ParseNewUser validates a decoded JSON registration body. It reports the
// first problem found, checking presence, then types, then whitespace, then
// sizes.
func ParseNewUser(body map[string]any) (NewUser, error) {
	username, hasUsername := body["username"]
	password, hasPassword := body["password"]

	if s, ok := username.(string); ok && s == "" {
		return NewUser{}, &ValidationError{Message: "Must be atleast 1 characters long"}
	}
	if !hasUsername || isFalsy(username) {
		return NewUser{}, &ValidationError{Message: "username required", Location: "username"}
	}
	if !hasPassword || isFalsy(password) {
		return NewUser{}, &ValidationError{Message: "password required", Location: "password"}
	}

	u := NewUser{}
	var ok bool
	if u.Username, ok = username.(string); !ok {
		return NewUser{}, &ValidationError{Message: "expecting string for username", Location: "username"}
	}
	if u.Password, ok = password.(string); !ok {
		return NewUser{}, &ValidationError{Message: "expecting string for password", Location: "password"}
	}
	if fullname, present := body["fullname"]; present && fullname != nil {
		if u.Fullname, ok = fullname.(string); !ok {
			return NewUser{}, &ValidationError{Message: "expecting string for fullname", Location: "fullname"}
		}
	}

	return u, u.Validate()
}

// Validate applies the whitespace and size rules.
func (u NewUser) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"username", u.Username},
		{"password", u.Password},
	} {
		if strings.TrimSpace(f.value) != f.value {
			return &ValidationError{Message: "Cannot start or end with whitespace", Location: f.name}
		}
	}

	if textLength(u.Username) < UsernameMinLength {
		return &ValidationError{Message: fmt.Sprintf("Must be at least %d characters long", UsernameMinLength), Location: "username"}
	}
	if textLength(u.Password) < PasswordMinLength {
		return &ValidationError{Message: fmt.Sprintf("Must be at least %d characters long", PasswordMinLength), Location: "password"}
	}
	if textLength(u.Password) > PasswordMaxLength {
		return &ValidationError{Message: fmt.Sprintf("Must be at most %d characters long", PasswordMaxLength), Location: "password"}
	}
	return nil
}

// textLength counts UTF-16 code units, so a character outside the Basic
// Multilingual Plane counts as two. Size limits are defined in these units.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// isFalsy mirrors which JSON values count as "not provided": null, false,
// zero and the empty string.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	default:
		return false
	}
}

type UserService struct {
	Store  store.Store
	Hasher PasswordHasher
	Now    func() time.Time
}

// CreateUser validates u, hashes the password and stores the account.
func (s *UserService) CreateUser(ctx context.Context, u NewUser) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate
	if err := u.Validate(); err != nil {
		return domain.User{}, err
	}

	// 2. Hash the password
	digest, err := s.Hasher.Hash(ctx, u.Password)
	if err != nil {
		return domain.User{}, err
	}

	// 3. Persist
	now := s.now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     u.Username,
		Fullname:     strings.TrimSpace(u.Fullname),
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	UsersCreated.Inc()
	l.Info("user created", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// ListUsers returns every user ordered by username.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
