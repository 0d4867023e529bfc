package cryptox

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Params are the Argon2id cost parameters encoded into every digest.
type Params struct {
	Memory      uint32 // Memory usage in KiB
	Iterations  uint32 // Iteration count
	Parallelism uint8  // Number of threads
	KeyLength   uint32 // Length of the derived key
	SaltLength  uint32 // Length of the random salt
}

// DefaultParams follow the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

const argon2Version = 19

// Upper bounds accepted when decoding a stored digest. A digest claiming more
// than this is treated as malformed rather than allowed to exhaust memory.
const (
	maxMemory     = 1024 * 1024
	maxIterations = 64
	maxKeyLength  = 128
)

// phc is a decoded "$argon2id$v=19$m=X,t=Y,p=Z$salt$hash" digest.
type phc struct {
	params Params
	salt   []byte
	key    []byte
}

func (p phc) String() string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		p.params.Memory,
		p.params.Iterations,
		p.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.key),
	)
}

func parsePHC(encoded string) (phc, bool) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return phc{}, false
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return phc{}, false
	}

	var out phc
	var par uint32
	n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &out.params.Memory, &out.params.Iterations, &par)
	if err != nil || n != 3 {
		return phc{}, false
	}
	if out.params.Memory == 0 || out.params.Memory > maxMemory ||
		out.params.Iterations == 0 || out.params.Iterations > maxIterations ||
		par == 0 || par > 255 {
		return phc{}, false
	}
	out.params.Parallelism = uint8(par)

	if out.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(out.salt) == 0 {
		return phc{}, false
	}
	if out.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(out.key) == 0 || len(out.key) > maxKeyLength {
		return phc{}, false
	}
	out.params.SaltLength = uint32(len(out.salt)) // #nosec G115 - bounded by decoded length
	out.params.KeyLength = uint32(len(out.key))   // #nosec G115 - bounded by maxKeyLength
	return out, true
}
