package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flowcrm/pipeline-api/internal/service"
	"go.uber.org/zap"
)

// ExportHandler serves full-data export downloads
type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// Download builds an export document and serves it as an attachment.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := h.exportService.BuildDocument(r.Context())
	if err != nil {
		h.logger.Error("Failed to build export", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("crm-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	respondJSON(w, http.StatusOK, doc)
}
