package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/noteful/pkg/cryptox"
	"github.com/aussiebroadwan/noteful/pkg/jwtx"
)

type Config struct {
	JWT      JWTConfig      `koanf:"jwt"`
	Database DatabaseConfig `koanf:"database"`
	Hash     HashConfig     `koanf:"hash"`
	Log      LogConfig      `koanf:"log"`

	Env                 string        `koanf:"env"`  // dev, staging, prod (default: dev)
	Port                int           `koanf:"port"` // HTTP port (default: 8080)
	ShutdownGracePeriod time.Duration `koanf:"shutdown_grace_period"`
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`      // HMAC key; takes precedence over SecretFile
	SecretFile string `koanf:"secret_file"` // Loaded, or generated on first run (default: ./jwt_secret)
	Expiry     string `koanf:"expiry"`      // "7d", "12h", or seconds (default: 7d)
	Issuer     string `koanf:"issuer"`      // Optional iss claim
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"` // sqlite or postgres (default: sqlite)
	URL    string `koanf:"url"`    // File path for sqlite, connection string for postgres
}

type HashConfig struct {
	PepperFile  string        `koanf:"pepper_file"` // Empty disables the pepper (default: ./pepper)
	Concurrency int           `koanf:"concurrency"` // 0 means GOMAXPROCS
	Timeout     time.Duration `koanf:"timeout"`     // 0 disables (default: 10s)
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error (default: info)
	Format string `koanf:"format"` // json, text (default: json)
}

// envDefaults maps config keys to their environment variable and fallback.
var envDefaults = []struct {
	key, env, fallback string
}{
	{"jwt.secret", "JWT_SECRET", ""},
	{"jwt.secret_file", "JWT_SECRET_FILE", "jwt_secret"},
	{"jwt.expiry", "JWT_EXPIRY", "7d"},
	{"jwt.issuer", "JWT_ISSUER", ""},
	{"database.driver", "DATABASE_DRIVER", "sqlite"},
	{"database.url", "DATABASE_URL", "auth.db"},
	{"hash.pepper_file", "AUTH_PEPPER_FILE", "pepper"},
	{"hash.concurrency", "HASH_CONCURRENCY", "0"},
	{"hash.timeout", "HASH_TIMEOUT", "10s"},
	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", "json"},
	{"env", "ENV", "dev"},
	{"port", "PORT", "8080"},
	{"shutdown_grace_period", "SHUTDOWN_GRACE_PERIOD", "10s"},
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"jwt-secret-file":  "jwt.secret_file",
	"jwt-expiry":       "jwt.expiry",
	"jwt-issuer":       "jwt.issuer",
	"database-driver":  "database.driver",
	"database-url":     "database.url",
	"pepper-file":      "hash.pepper_file",
	"hash-concurrency": "hash.concurrency",
	"hash-timeout":     "hash.timeout",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"env":              "env",
	"port":             "port",
}

// RegisterFlags adds the config flags to fs. Defaults are left empty so only
// flags the user actually sets override the environment and config file.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("jwt-secret-file", "", "file holding the token signing secret")
	fs.String("jwt-expiry", "", "token lifetime, e.g. 7d or 12h")
	fs.String("jwt-issuer", "", "iss claim for issued tokens")
	fs.String("database-driver", "", "sqlite or postgres")
	fs.String("database-url", "", "sqlite file or postgres connection string")
	fs.String("pepper-file", "", "file holding the password pepper")
	fs.Int("hash-concurrency", 0, "maximum concurrent password hashes")
	fs.Duration("hash-timeout", 0, "maximum time for one password hash")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("log-format", "", "json or text")
	fs.String("env", "", "deployment environment")
	fs.Int("port", 0, "HTTP listen port")
}

// LoadConfig layers environment variables, an optional YAML file and any
// explicitly set flags, in that order of increasing precedence. fs may be nil.
func LoadConfig(fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	for _, d := range envDefaults {
		if err := k.Set(d.key, getEnvOrDefault(d.env, d.fallback)); err != nil {
			return Config{}, fmt.Errorf("config: set %s: %w", d.key, err)
		}
	}

	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", path, err)
			}
		}

		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.TokenTTL(); err != nil {
		errs = append(errs, err)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("config: database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("config: database.url is required"))
	}
	if c.JWT.Secret != "" && len(c.JWT.Secret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("config: jwt.secret must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.JWT.Secret == "" && c.JWT.SecretFile == "" {
		errs = append(errs, errors.New("config: one of jwt.secret or jwt.secret_file is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: port %d out of range", c.Port))
	}
	if c.Hash.Concurrency < 0 {
		errs = append(errs, errors.New("config: hash.concurrency must not be negative"))
	}

	return errors.Join(errs...)
}

// TokenTTL parses JWT.Expiry. It accepts Go durations, a whole number of
// days with a "d" suffix, or bare seconds.
func (c Config) TokenTTL() (time.Duration, error) {
	raw := strings.TrimSpace(c.JWT.Expiry)
	if raw == "" {
		return jwtx.DefaultTTL, nil
	}

	var ttl time.Duration
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("config: jwt.expiry %q: %w", raw, err)
		}
		ttl = time.Duration(n) * 24 * time.Hour
	} else if secs, err := strconv.Atoi(raw); err == nil {
		ttl = time.Duration(secs) * time.Second
	} else if ttl, err = time.ParseDuration(raw); err != nil {
		return 0, fmt.Errorf("config: jwt.expiry %q: %w", raw, err)
	}

	if ttl <= 0 {
		return 0, fmt.Errorf("config: jwt.expiry %q must be positive", raw)
	}
	return ttl, nil
}

// SigningSecret returns the configured secret, or loads (creating on first
// use) the one stored in JWT.SecretFile.
func (c Config) SigningSecret() ([]byte, error) {
	secret := c.JWT.Secret
	if secret == "" {
		var err error
		secret, err = cryptox.LoadOrGenerateSecret(c.JWT.SecretFile, cryptox.SecretSize)
		if err != nil {
			return nil, fmt.Errorf("load signing secret: %w", err)
		}
	}
	if len(secret) < jwtx.MinSecretLength {
		return nil, jwtx.ErrSecretTooShort
	}
	return []byte(secret), nil
}

// Pepper returns the password pepper, or "" when none is configured.
func (c Config) Pepper() (string, error) {
	if c.Hash.PepperFile == "" {
		return "", nil
	}
	pepper, err := cryptox.LoadOrGenerateSecret(c.Hash.PepperFile, cryptox.SecretSize)
	if err != nil {
		return "", fmt.Errorf("load pepper: %w", err)
	}
	return pepper, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
