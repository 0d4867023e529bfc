//go:build e2e

package auth_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/noteful/pkg/authsdk"
)

// TestRateLimitSignupEndpoint verifies POST /api/users allows 5 requests per
// minute from one client.
func TestRateLimitSignupEndpoint(t *testing.T) {
	client := setupAuthContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	for i := range 5 {
		_, err := client.CreateUser(ctx, authsdk.CreateUserRequest{
			Username: fmt.Sprintf("user%d", i),
			Password: testPassword,
		})
		require.NoError(t, err, "request %d should not be rate limited", i+1)
	}

	_, err := client.CreateUser(ctx, authsdk.CreateUserRequest{Username: "user5", Password: testPassword})
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, authsdk.ReasonRateLimit, apiErr.Reason)
}

// TestLoginNotRateLimited verifies repeated login attempts always reach the
// credential check.
func TestLoginNotRateLimited(t *testing.T) {
	client := setupAuthContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	for i := range 20 {
		_, err := client.Login(ctx, "nobody", "wrong-password")
		assertUnauthorized(t, err, fmt.Sprintf("attempt %d", i+1))
	}
}
