package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/flowcrm/pipeline-api/internal/service"
	"go.uber.org/zap"
)

// DealHandler handles HTTP requests for deals and the pipeline board
type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// List returns deals filtered by ?q= free text.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.dealService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("Failed to list deals", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deals)
}

// Pipeline returns the stage-grouped pipeline board.
func (h *DealHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	columns, err := h.dealService.Pipeline(r.Context())
	if err != nil {
		h.logger.Error("Failed to build pipeline", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, columns)
}

// Stats returns the pipeline header aggregates.
func (h *DealHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dealService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute deal stats", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Get returns a single deal.
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// Create creates a deal from a submitted form draft.
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft forms.DealDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deal, err := h.dealService.Create(r.Context(), draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, deal)
}

// Update overwrites a deal from a submitted form draft.
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var draft forms.DealDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// MoveStage reassigns a deal to a target stage. Responds 200 with the
// unchanged deal when the deal already sits in the target stage.
func (h *DealHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req domain.MoveDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, moved, err := h.dealService.MoveStage(r.Context(), id, domain.DealStage(req.Stage))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deal":  deal,
		"moved": moved,
	})
}

// Delete removes a deal.
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
