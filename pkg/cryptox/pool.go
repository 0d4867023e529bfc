package cryptox

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many password hashes run at once. Argon2id is deliberately
// memory hungry, so an unbounded burst of logins would otherwise translate
// directly into an unbounded burst of allocations.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool returns a pool admitting size concurrent jobs. A size below one
// defaults to GOMAXPROCS.
func NewPool(size int) *Pool {
	if size < 1 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Do runs fn on a pool slot and waits for it. If ctx is done first Do returns
// ctx.Err(); fn keeps its slot until it completes but its result is abandoned.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	_, err := Run(ctx, p, func() struct{} {
		fn()
		return struct{}{}
	})
	return err
}

// Run is Do for a job with a result. The value travels back over a channel,
// so an abandoned job never writes memory the caller can still read.
func Run[T any](ctx context.Context, p *Pool, fn func() T) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	done := make(chan T, 1)
	go func() {
		defer p.sem.Release(1)
		done <- fn()
	}()

	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
