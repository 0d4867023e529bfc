//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/internal/auth/store"
)

// startPostgresContainer starts a PostgreSQL container for testing.
func startPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("noteful"),
		tcpostgres.WithUsername("noteful"),
		tcpostgres.WithPassword("noteful"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestStore_Integration(t *testing.T) {
	ctx := context.Background()
	dsn := startPostgresContainer(t)

	st, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	// Re-applying is a no-op.
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(ctx))

	now := time.Now().UTC().Truncate(time.Microsecond)
	bob := domain.User{
		ID: "01HZX0000000000000000000B0", Username: "bob", Fullname: "Bob Smith",
		PasswordHash: "$argon2id$digest", CreatedAt: now, UpdatedAt: now,
	}
	alice := domain.User{
		ID: "01HZX0000000000000000000A0", Username: "alice",
		PasswordHash: "$argon2id$digest", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.Users().CreateUser(ctx, bob))
	require.NoError(t, st.Users().CreateUser(ctx, alice))

	err = st.Users().CreateUser(ctx, domain.User{ID: "01HZX0000000000000000000C0", Username: "bob", PasswordHash: "x", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := st.Users().GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)
	assert.Equal(t, bob.Fullname, got.Fullname)
	assert.True(t, bob.CreatedAt.Equal(got.CreatedAt))

	// Lookups are case sensitive.
	_, err = st.Users().GetUserByUsername(ctx, "Bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err = st.Users().GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	list, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
}
