package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/noteful/internal/auth/service"
	"github.com/aussiebroadwan/noteful/internal/auth/store"
	"github.com/aussiebroadwan/noteful/pkg/httpx"
	"github.com/aussiebroadwan/noteful/pkg/slogx"

	_ "github.com/aussiebroadwan/noteful/api/auth" // Swagger docs
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService
	UserService *service.UserService

	// Metrics serves /metrics when set.
	Metrics http.Handler

	Limits Limits
}

// Limits are the per-IP rate limits applied to each route group.
type Limits struct {
	Signup httpx.RateLimit
	Read   httpx.RateLimit
	Probe  httpx.RateLimit
}

// DefaultLimits returns the httpx profiles with RATELIMIT_* overrides applied.
func DefaultLimits() Limits {
	return Limits{
		Signup: httpx.SignupLimit.FromEnv("SIGNUP"),
		Read:   httpx.ReadLimit.FromEnv("READ"),
		Probe:  httpx.ProbeLimit.FromEnv("PROBE"),
	}
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Noteful Authentication Service API
//	@version		0.1.0
//	@description	Username and password login for Noteful, issuing HS256-signed JWT auth tokens
//	@description	that can be refreshed until they expire.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/noteful
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT auth token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Login and refresh are left unthrottled.
	r.Mux.Handle("POST /api/login", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /api/refresh", &RefreshHandler{AuthService: r.AuthService})
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("POST /api/users",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(r.Limits.Signup),
		),
	)

	reads := httpx.NewLimiter(r.Limits.Read).Middleware(httpx.ClientIP)
	r.Mux.Handle("GET /api/users", httpx.Chain(http.HandlerFunc(h.HandleList), reads))
	r.Mux.Handle("GET /api/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), reads))
}

func (r *Router) registerSystem() {
	probes := httpx.NewLimiter(r.Limits.Probe).Middleware(httpx.ClientIP)

	r.Mux.Handle("GET /livez", httpx.Chain(LivezHandler(r.startTime, r.buildVersion), probes))

	var tokens *service.TokenIssuer
	if r.AuthService != nil {
		tokens = r.AuthService.Tokens
	}
	var db Pinger
	if r.store != nil {
		db = r.store
	}
	r.Mux.Handle("GET /readyz", httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, db, tokens), probes))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics)
	}
}
