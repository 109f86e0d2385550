package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skillforge/certification-service/internal/models"
)

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	phaseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(phaseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid phase id format")
		return
	}

	var req models.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	submission, err := h.submissionService.RequestSubmission(r.Context(), phaseID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, submission)
}

func (h *Handler) GetSubmissionsByPhase(w http.ResponseWriter, r *http.Request) {
	phaseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(phaseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid phase id format")
		return
	}

	response, err := h.submissionService.GetSubmissionsByPhase(r.Context(), phaseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) GetSubmissionByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid submission id format")
		return
	}

	submission, err := h.submissionService.GetSubmissionByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submission)
}
