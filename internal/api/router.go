package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/listoapp/listo-api/internal/api/middleware"
	"github.com/listoapp/listo-api/internal/platform/metrics"
	"github.com/listoapp/listo-api/internal/schedule"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Tasks       *TaskHandler
	Lists       *TaskListHandler
	Reminders   *ReminderHandler
	Preferences *PreferencesHandler
	Status      *StatusHandler
}

// NewRouter assembles the chi router. The maintenance gate sits in front of
// everything; its exempt list keeps auth, status and metrics reachable
// outside work hours.
func NewRouter(h Handlers, authMw *middleware.AuthMiddleware, sched *schedule.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)
	r.Use(middleware.MaintenanceMiddleware(sched))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/app-status", func(r chi.Router) {
			r.Get("/status", h.Status.Status)
			r.Get("/health", h.Status.Health)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/password-reset/request", h.Auth.RequestPasswordReset)
			r.Post("/password-reset/confirm", h.Auth.ConfirmPasswordReset)
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(authMw.Authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Get("/profile", h.Users.GetProfile)
				r.Put("/profile", h.Users.UpdateProfile)
				r.Put("/timezone", h.Users.UpdateTimezone)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.Tasks.List)
				r.Post("/", h.Tasks.Create)
				r.Get("/filter", h.Tasks.List)
				r.Get("/search", h.Tasks.Search)
				r.Get("/duedate", h.Tasks.ListByDueDate)
				r.Get("/priority/{priority}", h.Tasks.ListByPriority)
				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", h.Tasks.Get)
					r.Put("/", h.Tasks.Update)
					r.Delete("/", h.Tasks.Delete)

					r.Route("/reminders", func(r chi.Router) {
						r.Get("/", h.Reminders.List)
						r.Post("/", h.Reminders.Create)
						r.Delete("/{reminderID}", h.Reminders.Delete)
					})
				})
			})

			r.Route("/lists", func(r chi.Router) {
				r.Get("/", h.Lists.List)
				r.Post("/", h.Lists.Create)
				r.Route("/{listID}", func(r chi.Router) {
					r.Get("/", h.Lists.Get)
					r.Put("/", h.Lists.Update)
					r.Delete("/", h.Lists.Delete)
				})
			})

			r.Route("/notifications/preferences", func(r chi.Router) {
				r.Get("/", h.Preferences.Get)
				r.Post("/", h.Preferences.Save)
			})
		})
	})

	return r
}
