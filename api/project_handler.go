package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-tracker-backend/database"
	"github.com/rpupo63/portfolio-tracker-backend/errs"
	"github.com/rpupo63/portfolio-tracker-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxProjectBodySize bounds the JSON body accepted by create and update
const maxProjectBodySize = 1 << 20

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo database.ProjectStore
	metrics     *Metrics
}

func newProjectHandler(projectRepo database.ProjectStore, metrics *Metrics) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		metrics:     metrics,
	}
}

// getAllProjects retrieves all projects
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		h.logger.Debug().Int("count", len(projects)).Msg("Returning projects")
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.ProjectFields true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := h.decodeProjectFields(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("title", fields.Title).Msg("Creating project")

		if !fields.HasTitle() {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		project, err := h.projectRepo.Add(r.Context(), fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		h.metrics.RecordMutation("create")
		h.logger.Info().Uint("projectID", project.ID).Msg("Project created")
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, project)
	}
}

// updateProject overwrites every field of an existing project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Param project body models.ProjectFields true "Updated project data"
// @Success 200 {object} MessageResponse "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /api/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields, err := h.decodeProjectFields(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !fields.HasTitle() {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		if err := h.projectRepo.Update(r.Context(), projectID, fields); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.metrics.RecordMutation("update")
		h.logger.Info().Uint("projectID", projectID).Msg("Project updated")
		h.responder.WriteMessage(w, "Project updated successfully")
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} MessageResponse "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting project"
// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		h.metrics.RecordMutation("delete")
		h.logger.Info().Uint("projectID", projectID).Msg("Project deleted")
		h.responder.WriteMessage(w, "Project deleted successfully")
	}
}

func (h projectHandler) decodeProjectFields(w http.ResponseWriter, r *http.Request) (models.ProjectFields, error) {
	var fields models.ProjectFields

	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProjectBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fields, errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		}
		h.logger.Error().Err(err).Msg("Failed to read request body")
		return fields, errs.NewBadRequestError("failed to read request body")
	}

	if err := json.Unmarshal(bodyBytes, &fields); err != nil {
		h.logger.Warn().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode project request body")
		return fields, errs.NewMalformedPayloadError("project", err)
	}

	return fields, nil
}

func parseProjectID(r *http.Request) (uint, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return 0, errs.NewMissingRequiredFieldError("projectID")
	}

	projectID, err := strconv.ParseUint(projectIDStr, 10, 0)
	if err != nil || projectID == 0 {
		return 0, errs.NewInvalidFieldError("projectID", "must be a positive integer")
	}

	return uint(projectID), nil
}
