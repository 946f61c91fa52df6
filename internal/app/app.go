package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-studio-booking/internal/config"
	"go-studio-booking/internal/database"
	"go-studio-booking/internal/event"
	"go-studio-booking/internal/handler"
	"go-studio-booking/internal/metrics"
	"go-studio-booking/internal/middleware"
	"go-studio-booking/internal/repository"
	"go-studio-booking/internal/repository/memory"
	"go-studio-booking/internal/router"
	"go-studio-booking/internal/service"
	"go-studio-booking/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// Stores is the persistence the HTTP surface runs on.
type Stores struct {
	Users    service.UserStore
	Teachers service.TeacherStore
	Sessions service.SessionStore
	Health   pinger
}

// Components are the wired pieces an App serves.
type Components struct {
	Handler http.Handler
	Hub     *websocket.Hub
	Auth    *service.AuthService
	Tokens  *service.TokenService
}

// Wire builds services, handlers and the router on top of stores.
func Wire(cfg *config.Config, stores Stores, bus event.Bus, m *metrics.Metrics, authOpts ...service.AuthOption) (*Components, error) {
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration, service.WithTokenMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService := service.NewAuthService(stores.Users, tokens, append([]service.AuthOption{service.WithAuthMetrics(m)}, authOpts...)...)
	userService := service.NewUserService(stores.Users)
	teacherService := service.NewTeacherService(stores.Teachers)
	sessionService := service.NewSessionService(stores.Sessions, stores.Teachers, stores.Users, bus, cfg.RosterMaxAttempts)
	rosterService := service.NewRosterService(stores.Sessions, stores.Users, bus, m, cfg.RosterMaxAttempts)

	hub := websocket.NewHub(bus)
	authMiddleware := middleware.NewAuthMiddleware(tokens, userService)

	appRouter := router.New(cfg, m, authMiddleware, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Sessions: handler.NewSessionHandler(sessionService, rosterService),
		Teachers: handler.NewTeacherHandler(teacherService),
		Users:    handler.NewUserHandler(userService),
		Events:   handler.NewEventsHandler(hub, cfg.CORSOrigins),
		Health:   handler.NewHealthHandler(stores.Health, cfg.StorageDriver),
	})

	return &Components{Handler: appRouter, Hub: hub, Auth: authService, Tokens: tokens}, nil
}

type App struct {
	server       *http.Server
	hub          *websocket.Hub
	cleanupFuncs []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	components, err := Wire(cfg, stores, event.NewBus(), metrics.New())
	if err != nil {
		closeStores()
		return nil, err
	}

	if cfg.AdminEmail != "" {
		if err := components.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			closeStores()
			return nil, fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           components.Handler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		hub:          components.Hub,
		cleanupFuncs: []func(){closeStores},
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	go a.hub.Run(hubCtx)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopHub()
	if err := a.server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return runErr
}

// Migrate applies the embedded schema and exits.
func Migrate(ctx context.Context, cfg *config.Config) error {
	if cfg.StorageDriver != config.StorageDriverPostgres {
		slog.Info("storage driver needs no migration", "driver", cfg.StorageDriver)
		return nil
	}

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return db.EnsureSchema(ctx)
}

func openStores(ctx context.Context, cfg *config.Config) (Stores, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.New()
		store.Seed()
		slog.Warn("using in-memory storage; data is lost on restart")
		return Stores{
			Users:    store.Users(),
			Teachers: store.Teachers(),
			Sessions: store.Sessions(),
			Health:   store,
		}, func() {}, nil

	case config.StorageDriverPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return Stores{}, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return Stores{}, nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		slog.Info("database ready")
		return Stores{
			Users:    repository.NewUserRepository(db.Pool),
			Teachers: repository.NewTeacherRepository(db.Pool),
			Sessions: repository.NewSessionRepository(db.Pool),
			Health:   db,
		}, db.Close, nil

	default:
		return Stores{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
