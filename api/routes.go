package api

import (
	"github.com/go-chi/chi/v5"
)

// setupProjectRoutes mounts the project API and the health check under /api
func setupProjectRoutes(r chi.Router, handlers *routeHandlers) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.getHealth())

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getAllProjects())
			r.Post("/", handlers.projectHandler.createProject())
			r.Get("/{projectID}", handlers.projectHandler.getProject())
			r.Put("/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
		})
	})
}
