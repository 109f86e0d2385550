package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
	"github.com/skillforge/certification-service/internal/service"
)

type Handler struct {
	projectService    service.ProjectService
	submissionService service.SubmissionService
	reviewService     service.ReviewService
	validate          *validator.Validate
	logger            zerolog.Logger
}

func NewHandler(
	projectService service.ProjectService,
	submissionService service.SubmissionService,
	reviewService service.ReviewService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		projectService:    projectService,
		submissionService: submissionService,
		reviewService:     reviewService,
		validate:          validator.New(),
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/projects", func(r chi.Router) {
			r.Post("/", h.CreateProject)
			r.Get("/", h.GetAllProjects)
			r.Get("/{id}", h.GetProject)
			r.Get("/{id}/progress", h.GetProjectProgress)
		})

		api.Route("/students", func(r chi.Router) {
			r.Get("/{id}/projects", h.GetProjectsByStudent)
		})

		api.Route("/phases", func(r chi.Router) {
			r.Post("/{id}/submissions", h.CreateSubmission)
			r.Get("/{id}/submissions", h.GetSubmissionsByPhase)
		})

		api.Route("/submissions", func(r chi.Router) {
			r.Get("/{id}", h.GetSubmissionByID)
			r.Post("/{id}/decision", h.DecideSubmission)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "certification-service",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrProjectNotFound),
		errors.Is(err, models.ErrPhaseNotFound),
		errors.Is(err, models.ErrSubmissionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrReviewInProgress),
		errors.Is(err, models.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrSequenceBlocked),
		errors.Is(err, models.ErrPhaseApproved):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrRemarkRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusCreated, response)
}
