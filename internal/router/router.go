package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-studio-booking/internal/config"
	"go-studio-booking/internal/handler"
	"go-studio-booking/internal/metrics"
	"go-studio-booking/internal/middleware"
)

const authPrefix = "/api/auth"

type Handlers struct {
	Auth     *handler.AuthHandler
	Sessions *handler.SessionHandler
	Teachers *handler.TeacherHandler
	Users    *handler.UserHandler
	Events   *handler.EventsHandler
	Health   *handler.HealthHandler
}

func New(cfg *config.Config, m *metrics.Metrics, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM, authPrefix)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(m.Instrument)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Check)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(rateLimitMiddleware.Handler)
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.Route("/session", func(sessions chi.Router) {
				sessions.Get("/", h.Sessions.List)
				sessions.Post("/", h.Sessions.Create)
				sessions.Get("/events", h.Events.Stream)
				sessions.Get("/{id}", h.Sessions.Get)
				sessions.Put("/{id}", h.Sessions.Update)
				sessions.Delete("/{id}", h.Sessions.Delete)
				sessions.Post("/{id}/participate/{userId}", h.Sessions.Participate)
				sessions.Delete("/{id}/participate/{userId}", h.Sessions.NoLongerParticipate)
			})

			protected.Get("/teacher", h.Teachers.List)
			protected.Get("/teacher/{id}", h.Teachers.Get)

			protected.Get("/user/{id}", h.Users.Get)
			protected.Delete("/user/{id}", h.Users.Delete)
		})
	})

	return r
}
