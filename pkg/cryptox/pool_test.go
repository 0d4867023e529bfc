package cryptox

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	p := NewPool(2)

	var running, peak, failures atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Do(context.Background(), func() {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
			})
			if err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, failures.Load())

	require.LessOrEqual(t, peak.Load(), int32(2))
	require.Equal(t, int32(0), running.Load())
}

func TestPool_ContextDoneWhileWaiting(t *testing.T) {
	p := NewPool(1)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() {
			close(started)
			<-release
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ran := false
	err := p.Do(ctx, func() { ran = true })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, ran)

	close(release)
	require.NoError(t, p.Do(context.Background(), func() {}))
}

func TestNewPool_DefaultSize(t *testing.T) {
	p := NewPool(0)
	require.NoError(t, p.Do(context.Background(), func() {}))
}

func TestRun_ReturnsResult(t *testing.T) {
	p := NewPool(1)

	v, err := Run(context.Background(), p, func() int { return 42 })
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestRun_AbandonedResultIsZero(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	v, err := Run(ctx, p, func() string {
		<-release
		return "late"
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, v)

	close(release)
	require.NoError(t, p.Do(context.Background(), func() {}))
}
