package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/noteful/pkg/slogx"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with mws so that the first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover turns a handler panic into a 500 and logs the stack.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slogx.FromContext(r.Context()).Error("handler panic",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				WriteJSON(w, http.StatusInternalServerError, map[string]any{
					"code":    http.StatusInternalServerError,
					"reason":  "InternalServerError",
					"message": "Internal Server Error",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
