package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/pkg/jwtx"
)

func TestParseNewUser(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]any
		wantMessage  string
		wantLocation string
	}{
		{
			name:        "empty username",
			body:        map[string]any{"username": "", "password": "password1"},
			wantMessage: "Must be atleast 1 characters long",
		},
		{
			name:         "missing username",
			body:         map[string]any{"password": "password1"},
			wantMessage:  "username required",
			wantLocation: "username",
		},
		{
			name:         "null username",
			body:         map[string]any{"username": nil, "password": "password1"},
			wantMessage:  "username required",
			wantLocation: "username",
		},
		{
			name:         "missing password",
			body:         map[string]any{"username": "bob"},
			wantMessage:  "password required",
			wantLocation: "password",
		},
		{
			name:         "zero password",
			body:         map[string]any{"username": "bob", "password": float64(0)},
			wantMessage:  "password required",
			wantLocation: "password",
		},
		{
			name:         "numeric username",
			body:         map[string]any{"username": float64(42), "password": "password1"},
			wantMessage:  "expecting string for username",
			wantLocation: "username",
		},
		{
			name:         "boolean password",
			body:         map[string]any{"username": "bob", "password": true},
			wantMessage:  "expecting string for password",
			wantLocation: "password",
		},
		{
			name:         "object fullname",
			body:         map[string]any{"username": "bob", "password": "password1", "fullname": map[string]any{}},
			wantMessage:  "expecting string for fullname",
			wantLocation: "fullname",
		},
		{
			name:         "padded username",
			body:         map[string]any{"username": " bob", "password": "password1"},
			wantMessage:  "Cannot start or end with whitespace",
			wantLocation: "username",
		},
		{
			name:         "padded password",
			body:         map[string]any{"username": "bob", "password": "password1 "},
			wantMessage:  "Cannot start or end with whitespace",
			wantLocation: "password",
		},
		{
			name:         "short password",
			body:         map[string]any{"username": "bob", "password": "pass"},
			wantMessage:  "Must be at least 8 characters long",
			wantLocation: "password",
		},
		{
			name:         "long password",
			body:         map[string]any{"username": "bob", "password": strings.Repeat("p", 73)},
			wantMessage:  "Must be at most 72 characters long",
			wantLocation: "password",
		},
		{
			name:         "astral characters count twice toward the maximum",
			body:         map[string]any{"username": "bob", "password": strings.Repeat("🔒", 37)},
			wantMessage:  "Must be at most 72 characters long",
			wantLocation: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNewUser(tt.body)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.wantMessage, verr.Message)
			require.Equal(t, tt.wantLocation, verr.Location)
		})
	}
}

func TestParseNewUser_Valid(t *testing.T) {
	u, err := ParseNewUser(map[string]any{
		"username": "bob",
		"password": strings.Repeat("p", 72),
		"fullname": nil,
	})
	require.NoError(t, err)
	require.Equal(t, NewUser{Username: "bob", Password: strings.Repeat("p", 72)}, u)

	u, err = ParseNewUser(map[string]any{"username": "bob", "password": "password1", "fullname": "Bob Smith"})
	require.NoError(t, err)
	require.Equal(t, "Bob Smith", u.Fullname)

	// Four astral characters are eight UTF-16 units.
	_, err = ParseNewUser(map[string]any{"username": "bob", "password": strings.Repeat("🔒", 4)})
	require.NoError(t, err)
}

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return &UserService{
		Store:  newTestStore(t),
		Hasher: newTestHasher(),
		Now:    newClock(testEpoch).Now,
	}
}

func TestUserService_CreateUser(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, NewUser{Username: "bob", Password: "correct-horse", Fullname: "  Bob Smith "})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "bob", user.Username)
	require.Equal(t, "Bob Smith", user.Fullname)
	require.True(t, testEpoch.Equal(user.CreatedAt))
	require.NotContains(t, user.PasswordHash, "correct-horse")

	stored, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.PasswordHash, stored.PasswordHash)

	ok, err := svc.Hasher.Verify(ctx, "correct-horse", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUserService_CreateUserDuplicate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, NewUser{Username: "bob", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, NewUser{Username: "bob", Password: "another-password"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_CreateUserRejectsInvalid(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.CreateUser(context.Background(), NewUser{Username: "bob", Password: "short"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "password", verr.Location)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestUserService_ListUsersSorted(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := svc.CreateUser(ctx, NewUser{Username: name, Password: "password1"})
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	require.Equal(t, []string{"alice", "bob", "carol"}, names)
}

func TestUserService_CreatedUserCanLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, NewUser{Username: "dana", Password: "hunter2hunter2", Fullname: "Dana"})
	require.NoError(t, err)

	auth := &AuthService{
		Strategy: &LocalStrategy{Users: svc.Store.Users(), Hasher: svc.Hasher},
		Tokens:   newTestIssuer(t, newClock(testEpoch), jwtx.DefaultTTL),
	}
	token, err := auth.Login(ctx, domain.Credentials{Username: "dana", Password: "hunter2hunter2"})
	require.NoError(t, err)

	claims, err := auth.Tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "Dana", claims.User.Fullname)
}
