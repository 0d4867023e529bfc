package cryptox

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit", 16, 22},
		{"256-bit", SecretSize, 43},
		{"512-bit", 64, 86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := GenerateSecret(tt.size)
			require.NoError(t, err)
			require.Len(t, secret, tt.wantLen)

			decoded, err := base64.RawURLEncoding.DecodeString(secret)
			require.NoError(t, err)
			require.Len(t, decoded, tt.size)

			other, err := GenerateSecret(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, secret, other, "secrets should be unique")
		})
	}
}

func TestGenerateSecret_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := GenerateSecret(size)
		require.Error(t, err)
	}
}

func TestLoadOrGenerateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jwt.secret")

	first, err := LoadOrGenerateSecret(path, SecretSize)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := LoadOrGenerateSecret(path, SecretSize)
	require.NoError(t, err)
	require.Equal(t, first, second, "existing secret should be reused")
}

func TestLoadOrGenerateSecret_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("  from-file\n"), 0600))

	secret, err := LoadOrGenerateSecret(path, SecretSize)
	require.NoError(t, err)
	require.Equal(t, "from-file", secret)
}

func TestLoadOrGenerateSecret_Errors(t *testing.T) {
	_, err := LoadOrGenerateSecret("", SecretSize)
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0600))
	_, err = LoadOrGenerateSecret(empty, SecretSize)
	require.Error(t, err)
}
