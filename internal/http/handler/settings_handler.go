package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SettingsHandler handles HTTP requests for preferences and the
// pipeline stage configuration
type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetPreferences returns the saved preferences with defaults applied.
func (h *SettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.settingsService.Preferences(r.Context())
	if err != nil {
		h.logger.Error("Failed to load preferences", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences saves the full preference set.
func (h *SettingsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	prefs, err := h.settingsService.UpdatePreferences(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to update preferences", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// ListStages returns the configured pipeline stages in order.
func (h *SettingsHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.settingsService.StageOrder(r.Context())
	if err != nil {
		h.logger.Error("Failed to load stage configuration", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stages)
}

// AddStage inserts a new stage before the closing stages.
func (h *SettingsHandler) AddStage(w http.ResponseWriter, r *http.Request) {
	var req domain.AddStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stages, err := h.settingsService.AddStage(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, stages)
}

// RenameStage renames a custom stage.
func (h *SettingsHandler) RenameStage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req domain.RenameStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stages, err := h.settingsService.RenameStage(r.Context(), name, req.NewName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stages)
}

// RemoveStage removes a custom stage.
func (h *SettingsHandler) RemoveStage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	stages, err := h.settingsService.RemoveStage(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stages)
}
