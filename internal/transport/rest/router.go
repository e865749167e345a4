package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workforce-management/internal/assignment"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/initiative"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/project"
	"github.com/frahmantamala/workforce-management/internal/transport/middleware"
	"github.com/frahmantamala/workforce-management/internal/transport/swagger"
	"github.com/frahmantamala/workforce-management/internal/user"
	"github.com/frahmantamala/workforce-management/internal/workload"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Workload     *workload.Handler
	Project      *project.Handler
	Assignment   *assignment.Handler
	Initiative   *initiative.Handler
	Notification *notification.Handler
}

// RegisterAllRoutes wires every handler under /api/v1. Ownership checks on
// project mutations resolve the manager through sqlx, outside the aggregate
// load, so the gate runs before any body parsing.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sqlxDB *sqlx.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	abac := &auth.ABACPolicy{}
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI live at root, outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)
			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/{id}", h.User.GetUser)

				ur.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManager())
					mr.Get("/", h.User.GetAllUsers)
				})

				ur.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Post("/", h.User.CreateUser)
					ar.Patch("/{id}", h.User.UpdateProfile)
				})
			})

			pr.Group(func(wr chi.Router) {
				wr.Use(auth.RequireCanViewWorkload(abac))
				wr.Get("/employees/{id}/workload", h.Workload.GetWorkload)
			})

			pr.Route("/projects", func(pjr chi.Router) {
				pjr.Get("/", h.Project.GetAllProjects)
				pjr.Get("/{id}", h.Project.GetProject)

				pjr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManager())
					mr.Post("/", h.Project.CreateProject)
				})

				// Mutations on an existing project are owner-gated.
				pjr.Group(func(or chi.Router) {
					or.Use(auth.RequireCanManageProject(sqlxDB, abac))
					or.Patch("/{id}", h.Project.UpdateProject)
					or.Delete("/{id}", h.Project.DeleteProject)

					or.Post("/{id}/milestones", h.Project.AddMilestone)
					or.Patch("/{id}/milestones/{milestoneID}/complete", h.Project.CompleteMilestone)

					or.Post("/{id}/assignments", h.Assignment.Assign)
					or.Patch("/{id}/assignments/{employeeID}", h.Assignment.UpdateInvolvement)
					or.Delete("/{id}/assignments/{employeeID}", h.Assignment.Remove)
				})
			})

			pr.Route("/initiatives", func(ir chi.Router) {
				ir.Get("/", h.Initiative.GetAllInitiatives)
				ir.Get("/{id}", h.Initiative.GetInitiative)
				ir.Post("/", h.Initiative.CreateInitiative)
				ir.Patch("/{id}", h.Initiative.UpdateInitiative)
				ir.Delete("/{id}", h.Initiative.DeleteInitiative)
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.ListNotifications)
				nr.Patch("/{id}/read", h.Notification.MarkRead)
				nr.Post("/read-all", h.Notification.MarkAllRead)
				nr.Delete("/{id}", h.Notification.DeleteNotification)

				nr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManager())
					mr.Post("/scan", h.Notification.TriggerScan)
				})
			})
		})
	})
}
