package httpx

import (
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/aussiebroadwan/noteful/pkg/slogx"
)

// RateLimit is a token bucket sized as Requests per Window with room for
// Burst requests at once.
type RateLimit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// Profiles applied by the router. Login and refresh are deliberately absent.
var (
	// SignupLimit guards account creation.
	SignupLimit = RateLimit{Requests: 5, Window: time.Minute, Burst: 5}

	// ReadLimit covers listing endpoints.
	ReadLimit = RateLimit{Requests: 100, Window: time.Minute, Burst: 100}

	// ProbeLimit covers health probes, which monitoring polls often.
	ProbeLimit = RateLimit{Requests: 1000, Window: time.Minute, Burst: 1000}
)

// FromEnv overrides l with RATELIMIT_{prefix}_REQUESTS, _WINDOW_SEC and
// _BURST when they hold positive integers.
func (l RateLimit) FromEnv(prefix string) RateLimit {
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		l.Requests = n
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		l.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_BURST"); ok {
		l.Burst = n
	}
	return l
}

func positiveEnv(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyFunc picks the bucket a request is charged against. An empty key
// exempts the request.
type KeyFunc func(*http.Request) string

// ClientIP keys on the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// JoinKeys concatenates the non-empty keys produced by fns.
func JoinKeys(sep string, fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

// Limiter tracks one token bucket per key. Buckets idle for two windows are
// swept on the next allocation after a window has passed.
type Limiter struct {
	limit RateLimit
	every rate.Limit
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewLimiter(l RateLimit) *Limiter {
	return &Limiter{
		limit:     l,
		every:     rate.Limit(float64(l.Requests) / l.Window.Seconds()),
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// Allow charges one request to key. When refused it also reports how long
// until a token frees up.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		l.sweep(now)
		b = &bucket{lim: rate.NewLimiter(l.every, l.limit.Burst)}
		l.buckets[key] = b
	}
	b.seen = now
	l.mu.Unlock()

	if b.lim.AllowN(now, 1) {
		return true, 0
	}
	r := b.lim.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// sweep must be called with mu held.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.limit.Window {
		return
	}
	l.lastSweep = now
	for k, b := range l.buckets {
		if now.Sub(b.seen) > 2*l.limit.Window {
			delete(l.buckets, k)
		}
	}
}

// Len reports how many buckets are live.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Middleware refuses requests over the limit with 429 and a Retry-After
// header.
func (l *Limiter) Middleware(keyFn KeyFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: no key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := l.Allow(key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(math.Ceil(wait.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit.Requests))
			w.Header().Set("X-RateLimit-Window", l.limit.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", key,
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)
			WriteJSON(w, http.StatusTooManyRequests, map[string]any{
				"code":    http.StatusTooManyRequests,
				"reason":  "RateLimitError",
				"message": "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitByIP limits each client address to l.
func RateLimitByIP(l RateLimit) Middleware {
	return NewLimiter(l).Middleware(ClientIP)
}
