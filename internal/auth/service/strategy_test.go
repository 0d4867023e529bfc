package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/pkg/cryptox"
)

func TestLocalStrategy_Authenticate(t *testing.T) {
	h := newTestHasher()
	st := newTestStore(t)
	bob := seedUser(t, st, h, "01HBOB", "bob", "Bob Smith", "correct-horse")

	strategy := &LocalStrategy{Users: st.Users(), Hasher: h}
	ctx := context.Background()

	tests := []struct {
		name       string
		creds      domain.Credentials
		wantReason LoginFailureReason
	}{
		{"valid credentials", domain.Credentials{Username: "bob", Password: "correct-horse"}, ReasonNone},
		{"wrong password", domain.Credentials{Username: "bob", Password: "battery-staple"}, ReasonWrongPassword},
		{"empty password", domain.Credentials{Username: "bob", Password: ""}, ReasonWrongPassword},
		{"unknown username", domain.Credentials{Username: "alice", Password: "correct-horse"}, ReasonUnknownUsername},
		{"username is case sensitive", domain.Credentials{Username: "Bob", Password: "correct-horse"}, ReasonUnknownUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := strategy.Authenticate(ctx, tt.creds)
			require.NoError(t, err)
			require.Equal(t, tt.wantReason, result.Reason)

			if tt.wantReason == ReasonNone {
				require.True(t, result.Succeeded())
				require.Equal(t, bob.ID, result.User.ID)
				require.Equal(t, "Bob Smith", result.User.Fullname)
			} else {
				require.False(t, result.Succeeded())
				require.Equal(t, domain.User{}, result.User)
			}
		})
	}
}

func TestLocalStrategy_UnknownUserStillVerifies(t *testing.T) {
	h := newTestHasher()
	st := newTestStore(t)
	counting := &countingHasher{PasswordHasher: h}
	strategy := &LocalStrategy{Users: st.Users(), Hasher: counting}

	result, err := strategy.Authenticate(context.Background(), domain.Credentials{Username: "ghost", Password: "whatever1"})
	require.NoError(t, err)
	require.Equal(t, ReasonUnknownUsername, result.Reason)
	require.Equal(t, []string{h.Dummy()}, counting.verified)
}

func TestLocalStrategy_StoreFailure(t *testing.T) {
	strategy := &LocalStrategy{Users: failingStore{err: errBoom}, Hasher: newTestHasher()}

	_, err := strategy.Authenticate(context.Background(), domain.Credentials{Username: "bob", Password: "password"})
	require.ErrorIs(t, err, errBoom)
}

func TestLocalStrategy_HashFailureIsFatal(t *testing.T) {
	h := newTestHasher()
	st := newTestStore(t)
	seedUser(t, st, h, "01HBOB", "bob", "Bob Smith", "correct-horse")

	hashErr := &cryptox.HashError{Op: "verify", Err: cryptox.ErrHashTimeout}
	strategy := &LocalStrategy{
		Users:  st.Users(),
		Hasher: &countingHasher{PasswordHasher: h, verifyErr: hashErr},
	}

	for _, username := range []string{"bob", "ghost"} {
		_, err := strategy.Authenticate(context.Background(), domain.Credentials{Username: username, Password: "correct-horse"})
		var target *cryptox.HashError
		require.ErrorAs(t, err, &target, "username %q", username)
	}
}

func TestLocalStrategy_MalformedStoredDigest(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Users().CreateUser(context.Background(), domain.User{
		ID: "01HBAD", Username: "broken", PasswordHash: "not-a-digest",
		CreatedAt: testEpoch, UpdatedAt: testEpoch,
	}))

	strategy := &LocalStrategy{Users: st.Users(), Hasher: newTestHasher()}
	result, err := strategy.Authenticate(context.Background(), domain.Credentials{Username: "broken", Password: "not-a-digest"})
	require.NoError(t, err)
	require.Equal(t, ReasonWrongPassword, result.Reason)
}

func TestLoginFailureReason_String(t *testing.T) {
	require.Equal(t, "none", ReasonNone.String())
	require.Equal(t, "unknown_username", ReasonUnknownUsername.String())
	require.Equal(t, "wrong_password", ReasonWrongPassword.String())
	require.Equal(t, "reason(9)", LoginFailureReason(9).String())
}
