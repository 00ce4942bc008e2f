package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/flowcrm/pipeline-api/internal/service"
	"go.uber.org/zap"
)

// ContactHandler handles HTTP requests for contacts
type ContactHandler struct {
	contactService  *service.ContactService
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(
	contactService *service.ContactService,
	activityService *service.ActivityService,
	logger *zap.Logger,
) *ContactHandler {
	return &ContactHandler{
		contactService:  contactService,
		activityService: activityService,
		logger:          logger,
	}
}

// List returns contacts filtered by ?q= free text and ?tag=.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	tag := r.URL.Query().Get("tag")

	contacts, err := h.contactService.List(r.Context(), query, tag)
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// Tags returns the tag filter vocabulary.
func (h *ContactHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.contactService.Tags(r.Context())
	if err != nil {
		h.logger.Error("Failed to list tags", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tags)
}

// Stats returns the contacts header aggregates.
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute contact stats", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Get returns a single contact.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// Activities returns the contact's activity history.
func (h *ContactHandler) Activities(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	activities, err := h.activityService.ListByContact(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list contact activities", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// Create creates a contact from a submitted form draft.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft forms.ContactDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contact, err := h.contactService.Create(r.Context(), draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

// Update overwrites a contact from a submitted form draft.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var draft forms.ContactDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// Delete removes a contact.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
