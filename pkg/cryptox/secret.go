package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SecretSize is the default number of random bytes behind a generated secret.
const SecretSize = 32

// GenerateSecret returns size random bytes encoded as base64url without padding.
func GenerateSecret(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// LoadOrGenerateSecret reads the secret stored at path. When the file does not
// exist a new secret is generated and written with mode 0600 so restarts keep
// the same value. Surrounding whitespace in the file is ignored.
func LoadOrGenerateSecret(path string, size int) (string, error) {
	if path == "" {
		return "", errors.New("secret file path is empty")
	}
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", path)
		}
		return secret, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read secret file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("create secret directory: %w", err)
	}
	secret, err := GenerateSecret(size)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(secret), 0600); err != nil {
		return "", fmt.Errorf("write secret file: %w", err)
	}
	return secret, nil
}
