package api

import (
	"time"

	"github.com/rpupo63/portfolio-tracker-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, metrics *Metrics, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(database.ProjectRepo(), metrics),
		healthHandler:  newHealthHandler(database, startupTime),
	}
}
