package httpserver

import (
	"net/http"
	"time"

	"clubhub/internal/config"
	"clubhub/internal/metrics"
	"clubhub/internal/transport/httpserver/handler"
	"clubhub/internal/transport/httpserver/middleware"
	"clubhub/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, collector *metrics.Collector, limiter *middleware.RateLimiter, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.NewMetrics(collector))

	auth := middleware.NewAuth(cfg.Auth, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Method(http.MethodGet, "/metrics", collector.Handler())

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Use(limiter.Middleware)

			r.Route("/clubs", func(r chi.Router) {
				r.Get("/", handlers.ListClubs)
				r.Post("/", handlers.CreateClub)

				r.Post("/schedules", handlers.CreateClubSchedule)
				r.Put("/schedules/{id}", handlers.UpdateClubSchedule)
				r.Post("/schedules/{id}/register", handlers.RegisterClubSchedule)
				r.Delete("/schedules/{id}/cancel", handlers.CancelClubScheduleRegistration)

				r.Get("/{id}", handlers.GetClub)
				r.Put("/{id}", handlers.UpdateClub)
				r.Get("/{id}/role", handlers.GetClubRole)
				r.Post("/{id}/apply", handlers.ApplyClub)
				r.Post("/{id}/approve", handlers.ApproveClub)
				r.Post("/{id}/likes", handlers.ToggleClubLike)
				r.Post("/{id}/allocate", handlers.AllocateClubRole)
				r.Get("/{id}/schedules", handlers.ListClubSchedules)
			})

			r.Get("/user/{id}", handlers.GetUser)
			r.Put("/user/me", handlers.UpdateMe)
		})
	})

	return r
}
