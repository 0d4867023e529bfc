package cryptox

import (
	"errors"
	"fmt"
)

// ErrHashTimeout is the cause of a HashError raised when the hashing deadline
// elapses before a slot frees up or the computation finishes.
var ErrHashTimeout = errors.New("hash timed out")

// ErrEntropy is the cause of a HashError raised when the salt could not be read.
var ErrEntropy = errors.New("entropy source failed")

// HashError reports that the hashing facility itself failed. It never means
// that a password was wrong and callers should treat it as fatal for the
// current request.
type HashError struct {
	Op  string // "hash" or "verify"
	Err error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("cryptox: %s: %v", e.Op, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }
