package cryptox

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// HasherConfig configures a Hasher.
type HasherConfig struct {
	Params      Params        // Zero value means DefaultParams
	Pepper      string        // Appended to the password before hashing
	Concurrency int           // Simultaneous hash jobs; below one means GOMAXPROCS
	Timeout     time.Duration // Upper bound on a single Hash or Verify; zero disables
}

// Hasher produces and checks salted Argon2id digests in PHC string format.
// It also accepts bcrypt digests ($2a$, $2b$, $2y$) for accounts created
// before the switch to Argon2id. A Hasher is safe for concurrent use.
type Hasher struct {
	params  Params
	pepper  string
	timeout time.Duration
	pool    *Pool
	entropy io.Reader
}

func NewHasher(cfg HasherConfig) *Hasher {
	params := cfg.Params
	if params == (Params{}) {
		params = DefaultParams
	}
	return &Hasher{
		params:  params,
		pepper:  cfg.Pepper,
		timeout: cfg.Timeout,
		pool:    NewPool(cfg.Concurrency),
		entropy: rand.Reader,
	}
}

// Hash derives a new digest for password under a fresh random salt. Two calls
// with the same password never return the same digest.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(h.entropy, salt); err != nil {
		return "", &HashError{
			Op:  "hash",
			Err: oops.Code("HASH_ENTROPY_FAILED").With("salt_length", h.params.SaltLength).Wrap(errors.Join(ErrEntropy, err)),
		}
	}

	key, err := run(ctx, h, "hash", func() []byte {
		return h.derive(password, salt, h.params)
	})
	if err != nil {
		return "", err
	}

	return phc{params: h.params, salt: salt, key: key}.String(), nil
}

// Verify reports whether password matches digest. A malformed or unsupported
// digest yields false. The only error is a *HashError when the hashing
// facility could not complete the check.
func (h *Hasher) Verify(ctx context.Context, password, digest string) (bool, error) {
	if isBcrypt(digest) {
		return run(ctx, h, "verify", func() bool {
			return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
		})
	}

	decoded, valid := parsePHC(digest)
	if !valid {
		return false, nil
	}

	return run(ctx, h, "verify", func() bool {
		computed := h.derive(password, decoded.salt, decoded.params)
		return subtle.ConstantTimeCompare(computed, decoded.key) == 1
	})
}

// Dummy returns a well-formed digest under the hasher's own parameters that no
// password matches. Verifying against it costs the same as a real check.
func (h *Hasher) Dummy() string {
	return phc{
		params: h.params,
		salt:   make([]byte, h.params.SaltLength),
		key:    make([]byte, h.params.KeyLength),
	}.String()
}

func (h *Hasher) derive(password string, salt []byte, p Params) []byte {
	return argon2.IDKey([]byte(password+h.pepper), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
}

// run executes fn on h's pool under the configured timeout. On failure the
// zero value is returned and fn's eventual result is dropped.
func run[T any](ctx context.Context, h *Hasher, op string, fn func() T) (T, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	v, err := Run(ctx, h.pool, fn)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrHashTimeout
		}
		return v, &HashError{
			Op:  op,
			Err: oops.Code("HASH_UNAVAILABLE").With("op", op).With("timeout", h.timeout.String()).Wrap(err),
		}
	}
	return v, nil
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}
