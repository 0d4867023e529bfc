package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/noteful/pkg/jwtx"
)

// clearEnv blanks every variable LoadConfig reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, d := range envDefaults {
		t.Setenv(d.env, "")
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "auth.db", cfg.Database.URL)
	assert.Equal(t, "jwt_secret", cfg.JWT.SecretFile)
	assert.Equal(t, "7d", cfg.JWT.Expiry)
	assert.Equal(t, "pepper", cfg.Hash.PepperFile)
	assert.Equal(t, 0, cfg.Hash.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Hash.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)

	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, jwtx.DefaultTTL, ttl)
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://noteful@localhost/noteful")
	t.Setenv("JWT_EXPIRY", "3600")
	t.Setenv("HASH_CONCURRENCY", "4")
	t.Setenv("PORT", "9000")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "30s")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://noteful@localhost/noteful", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Hash.Concurrency)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)

	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "auth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  url: postgres://from-file/noteful
jwt:
  expiry: 12h
  issuer: noteful
log:
  level: debug
port: 9090
`), 0o600))

	fs := newFlags(t, "--config", path, "--port", "7000", "--database-url", "postgres://from-flag/noteful")
	cfg, err := LoadConfig(fs)
	require.NoError(t, err)

	// Flags beat the file.
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "postgres://from-flag/noteful", cfg.Database.URL)
	// The file beats the environment.
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep the file value.
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "noteful", cfg.JWT.Issuer)

	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, ttl)
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := LoadConfig(newFlags(t, "--hash-timeout", "2s"))
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 2*time.Second, cfg.Hash.Timeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("PORT", "70000")

	_, err := LoadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "port 70000")
}

func TestConfig_TokenTTL(t *testing.T) {
	tests := []struct {
		expiry  string
		want    time.Duration
		wantErr bool
	}{
		{expiry: "", want: jwtx.DefaultTTL},
		{expiry: "7d", want: 7 * 24 * time.Hour},
		{expiry: "1d", want: 24 * time.Hour},
		{expiry: "90", want: 90 * time.Second},
		{expiry: "15m", want: 15 * time.Minute},
		{expiry: " 2h ", want: 2 * time.Hour},
		{expiry: "0", wantErr: true},
		{expiry: "-1h", wantErr: true},
		{expiry: "0d", wantErr: true},
		{expiry: "xd", wantErr: true},
		{expiry: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			got, err := Config{JWT: JWTConfig{Expiry: tt.expiry}}.TokenTTL()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		JWT:      JWTConfig{SecretFile: "jwt_secret", Expiry: "7d"},
		Database: DatabaseConfig{Driver: "sqlite", URL: "auth.db"},
		Port:     8080,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32 bytes"},
		{"no secret source", func(c *Config) { c.JWT.SecretFile = "" }, "jwt.secret or jwt.secret_file"},
		{"empty url", func(c *Config) { c.Database.URL = "" }, "database.url"},
		{"negative concurrency", func(c *Config) { c.Hash.Concurrency = -1 }, "hash.concurrency"},
		{"bad expiry", func(c *Config) { c.JWT.Expiry = "never" }, "jwt.expiry"},
		{"zero port", func(c *Config) { c.Port = 0 }, "port 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_SigningSecret(t *testing.T) {
	t.Run("inline secret wins", func(t *testing.T) {
		cfg := Config{JWT: JWTConfig{Secret: "0123456789abcdef0123456789abcdef", SecretFile: "/nonexistent/dir/secret"}}
		secret, err := cfg.SigningSecret()
		require.NoError(t, err)
		assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), secret)
	})

	t.Run("generated once then reused", func(t *testing.T) {
		cfg := Config{JWT: JWTConfig{SecretFile: filepath.Join(t.TempDir(), "keys", "jwt_secret")}}

		first, err := cfg.SigningSecret()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(first), jwtx.MinSecretLength)

		second, err := cfg.SigningSecret()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("short file secret rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jwt_secret")
		require.NoError(t, os.WriteFile(path, []byte("tiny\n"), 0o600))

		_, err := Config{JWT: JWTConfig{SecretFile: path}}.SigningSecret()
		assert.ErrorIs(t, err, jwtx.ErrSecretTooShort)
	})
}

func TestConfig_Pepper(t *testing.T) {
	pepper, err := Config{}.Pepper()
	require.NoError(t, err)
	assert.Empty(t, pepper)

	path := filepath.Join(t.TempDir(), "pepper")
	first, err := Config{Hash: HashConfig{PepperFile: path}}.Pepper()
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.FileExists(t, path)
}
