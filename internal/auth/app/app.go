package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/aussiebroadwan/noteful/internal/auth/http"
	"github.com/aussiebroadwan/noteful/internal/auth/service"
	"github.com/aussiebroadwan/noteful/internal/auth/store"
	"github.com/aussiebroadwan/noteful/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/noteful/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/noteful/pkg/cryptox"
	"github.com/aussiebroadwan/noteful/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	hasher   *cryptox.Hasher
	tokens   *service.TokenIssuer
	registry *prometheus.Registry

	authService *service.AuthService
	userService *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "noteful-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
		}),
	}

	db, err := OpenStore(ctx, cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := app.initServices(); err != nil {
		_ = db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting",
		slog.Int("port", app.cfg.Port),
		slog.String("database_driver", app.cfg.Database.Driver),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slog.Any("err", err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slog.Any("err", err))
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slog.Any("err", err))
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// OpenStore connects to the configured database and applies migrations.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.NewStore(ctx, cfg.Database.URL)
	default:
		db, err = sqlite.NewStore(sqliteDSN(cfg.Database.URL))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", slog.String("driver", cfg.Database.Driver))
	return db, nil
}

// sqliteDSN turns a plain file path into a DSN with WAL and a busy timeout.
// DSNs that already carry a scheme or are in-memory pass through.
func sqliteDSN(url string) string {
	if url == ":memory:" || len(url) >= 5 && url[:5] == "file:" {
		return url
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", url)
}

// NewHasher builds the password hasher from cfg, loading the pepper.
func NewHasher(cfg Config) (*cryptox.Hasher, error) {
	pepper, err := cfg.Pepper()
	if err != nil {
		return nil, err
	}
	return cryptox.NewHasher(cryptox.HasherConfig{
		Pepper:      pepper,
		Concurrency: cfg.Hash.Concurrency,
		Timeout:     cfg.Hash.Timeout,
	}), nil
}

func (app *Application) initServices() error {
	hasher, err := NewHasher(app.cfg)
	if err != nil {
		return err
	}
	app.hasher = hasher

	secret, err := app.cfg.SigningSecret()
	if err != nil {
		return err
	}
	ttl, err := app.cfg.TokenTTL()
	if err != nil {
		return err
	}
	app.tokens, err = service.NewTokenIssuer(service.TokenConfig{
		Secret: secret,
		TTL:    ttl,
		Issuer: app.cfg.JWT.Issuer,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	app.authService = &service.AuthService{
		Strategy: &service.LocalStrategy{Users: app.db.Users(), Hasher: hasher},
		Tokens:   app.tokens,
	}
	app.userService = &service.UserService{Store: app.db, Hasher: hasher}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	service.RegisterMetrics(app.registry)

	app.logger.Info("services initialized", slog.Duration("token_ttl", ttl))
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.UserService = app.userService
	router.Metrics = promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{Registry: app.registry})
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
