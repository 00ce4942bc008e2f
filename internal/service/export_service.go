package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/mapper"
	"github.com/flowcrm/pipeline-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportService assembles full-data export documents
type ExportService struct {
	contacts   store.ContactStore
	deals      store.DealStore
	activities store.ActivityStore
	settings   *SettingsService
	logger     *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(
	contacts store.ContactStore,
	deals store.DealStore,
	activities store.ActivityStore,
	settings *SettingsService,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		contacts:   contacts,
		deals:      deals,
		activities: activities,
		settings:   settings,
		logger:     logger,
	}
}

// BuildDocument snapshots all collections plus settings into a single
// export artifact.
func (s *ExportService) BuildDocument(ctx context.Context) (*domain.ExportDocument, error) {
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	activities, err := s.activities.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	stages, err := s.settings.StageOrder(ctx)
	if err != nil {
		return nil, err
	}
	prefs, err := s.settings.Preferences(ctx)
	if err != nil {
		return nil, err
	}

	contactDTOs := make([]domain.ContactDTO, len(contacts))
	for i := range contacts {
		contactDTOs[i] = mapper.ToContactDTO(&contacts[i])
	}
	dealDTOs := make([]domain.DealDTO, len(deals))
	for i := range deals {
		dealDTOs[i] = mapper.ToDealDTO(&deals[i], contacts)
	}
	activityDTOs := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		activityDTOs[i] = mapper.ToActivityDTO(&activities[i], contacts, deals)
	}

	return &domain.ExportDocument{
		ID:         uuid.New().String(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Contacts:   contactDTOs,
		Deals:      dealDTOs,
		Activities: activityDTOs,
		Settings: domain.ExportSettings{
			PipelineStages: stages,
			Preferences:    *prefs,
		},
	}, nil
}

// WriteFile builds an export document and writes it as JSON into dir.
// Used by the autosave job; the filename carries a timestamp so runs do
// not overwrite each other.
func (s *ExportService) WriteFile(ctx context.Context, dir string) (string, error) {
	doc, err := s.BuildDocument(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("crm-export-%s.json", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	s.logger.Info("Export written",
		zap.String("path", path),
		zap.Int("contacts", len(doc.Contacts)),
		zap.Int("deals", len(doc.Deals)),
		zap.Int("activities", len(doc.Activities)))
	return path, nil
}
