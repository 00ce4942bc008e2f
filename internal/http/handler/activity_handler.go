package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/flowcrm/pipeline-api/internal/service"
	"go.uber.org/zap"
)

// ActivityHandler handles HTTP requests for activities
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// List returns activities newest first, filtered by ?type=.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		h.logger.Error("Failed to list activities", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// Counts returns the activities header aggregates.
func (h *ActivityHandler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.activityService.Counts(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute activity counts", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, counts)
}

// Create creates an activity from a submitted form draft.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft forms.ActivityDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	activity, err := h.activityService.Create(r.Context(), draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// Update overwrites an activity from a submitted form draft.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	activity, err := h.activityService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	var draft forms.ActivityDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	activity, err := h.activityService.Update(r.Context(), id, draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// Toggle flips the activity's completion state.
func (h *ActivityHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	completed, err := h.activityService.Toggle(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

// Delete removes an activity.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	if err := h.activityService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
