package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-tracker-backend/database"
	"github.com/rpupo63/portfolio-tracker-backend/errs"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(database database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		database:    database,
		startupTime: startupTime,
	}
}

// getHealth reports whether the server and its store are reachable
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} ErrorResponse "Store unreachable"
// @Router /api/health [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.database.Ping(r.Context()); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseUnavailableError(err))
			return
		}

		count, err := h.database.ProjectRepo().Count(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseUnavailableError(err))
			return
		}

		h.responder.WriteJSON(w, HealthResponse{
			Status:    "ok",
			Message:   "Portfolio tracker is running",
			Timestamp: time.Now().Format(time.RFC3339),
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
			Projects:  count,
		})
	}
}
