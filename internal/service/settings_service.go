package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/store"
	"go.uber.org/zap"
)

// Preference defaults used when a key has never been saved.
const (
	DefaultProbabilityValue = 50
	DefaultAutosaveInterval = 30
)

// SettingsService handles persisted preferences and the pipeline stage
// configuration
type SettingsService struct {
	preferences store.PreferenceStore
	logger      *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(preferences store.PreferenceStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		preferences: preferences,
		logger:      logger,
	}
}

// Preferences returns the saved preferences, with defaults for keys
// that were never set.
func (s *SettingsService) Preferences(ctx context.Context) (*domain.PreferencesDTO, error) {
	return &domain.PreferencesDTO{
		DefaultProbability: s.intPref(ctx, domain.PrefDefaultProbability, DefaultProbabilityValue),
		AutosaveInterval:   s.intPref(ctx, domain.PrefAutosaveInterval, DefaultAutosaveInterval),
		EmailNotifications: s.boolPref(ctx, domain.PrefEmailNotifications, true),
		TaskReminders:      s.boolPref(ctx, domain.PrefTaskReminders, true),
		DealAlerts:         s.boolPref(ctx, domain.PrefDealAlerts, true),
	}, nil
}

// UpdatePreferences saves all preference keys from the request.
func (s *SettingsService) UpdatePreferences(ctx context.Context, req *domain.UpdatePreferencesRequest) (*domain.PreferencesDTO, error) {
	entries := map[string]string{
		domain.PrefDefaultProbability: strconv.Itoa(req.DefaultProbability),
		domain.PrefAutosaveInterval:   strconv.Itoa(req.AutosaveInterval),
		domain.PrefEmailNotifications: strconv.FormatBool(req.EmailNotifications),
		domain.PrefTaskReminders:      strconv.FormatBool(req.TaskReminders),
		domain.PrefDealAlerts:         strconv.FormatBool(req.DealAlerts),
	}
	for key, value := range entries {
		if err := s.preferences.Set(ctx, key, value); err != nil {
			return nil, fmt.Errorf("failed to save preference %s: %w", key, err)
		}
	}

	s.logger.Info("Preferences updated",
		zap.Int("default_probability", req.DefaultProbability),
		zap.Int("autosave_interval", req.AutosaveInterval))

	return s.Preferences(ctx)
}

// DefaultProbability returns the probability prefilled into new deal
// drafts.
func (s *SettingsService) DefaultProbability(ctx context.Context) int {
	return s.intPref(ctx, domain.PrefDefaultProbability, DefaultProbabilityValue)
}

// AutosaveInterval returns the autosave export interval in seconds.
func (s *SettingsService) AutosaveInterval(ctx context.Context) int {
	return s.intPref(ctx, domain.PrefAutosaveInterval, DefaultAutosaveInterval)
}

// DealAlertsEnabled reports whether stage-change notifications are on.
func (s *SettingsService) DealAlertsEnabled(ctx context.Context) bool {
	return s.boolPref(ctx, domain.PrefDealAlerts, true)
}

// StageOrder returns the configured pipeline stages in order, falling
// back to the default pipeline when no custom configuration was saved.
func (s *SettingsService) StageOrder(ctx context.Context) ([]domain.DealStage, error) {
	raw, err := s.preferences.Get(ctx, domain.PrefPipelineStages)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return append([]domain.DealStage(nil), domain.DefaultStageOrder...), nil
		}
		return nil, fmt.Errorf("failed to load stage configuration: %w", err)
	}

	var stages []domain.DealStage
	if err := json.Unmarshal([]byte(raw), &stages); err != nil || len(stages) == 0 {
		s.logger.Warn("Invalid stage configuration, using defaults", zap.Error(err))
		return append([]domain.DealStage(nil), domain.DefaultStageOrder...), nil
	}
	return stages, nil
}

// AddStage inserts a new stage before the two closing stages. Duplicate
// names are rejected.
func (s *SettingsService) AddStage(ctx context.Context, name string) ([]domain.DealStage, error) {
	stages, err := s.StageOrder(ctx)
	if err != nil {
		return nil, err
	}

	stage := domain.DealStage(name)
	if containsStage(stages, stage) {
		return nil, ErrStageExists
	}

	insertAt := len(stages)
	if insertAt >= 2 {
		insertAt -= 2
	}
	updated := make([]domain.DealStage, 0, len(stages)+1)
	updated = append(updated, stages[:insertAt]...)
	updated = append(updated, stage)
	updated = append(updated, stages[insertAt:]...)

	if err := s.saveStages(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("Pipeline stage added", zap.String("stage", name))
	return updated, nil
}

// RenameStage renames a custom stage. Protected stages and duplicate
// target names are rejected.
func (s *SettingsService) RenameStage(ctx context.Context, name, newName string) ([]domain.DealStage, error) {
	stage := domain.DealStage(name)
	if stage.IsProtected() {
		return nil, ErrStageProtected
	}

	stages, err := s.StageOrder(ctx)
	if err != nil {
		return nil, err
	}
	if !containsStage(stages, stage) {
		return nil, ErrStageNotFound
	}
	if containsStage(stages, domain.DealStage(newName)) {
		return nil, ErrStageExists
	}

	updated := make([]domain.DealStage, len(stages))
	for i, st := range stages {
		if st == stage {
			updated[i] = domain.DealStage(newName)
		} else {
			updated[i] = st
		}
	}

	if err := s.saveStages(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("Pipeline stage renamed",
		zap.String("from", name),
		zap.String("to", newName))
	return updated, nil
}

// RemoveStage removes a custom stage from the configuration. Deals left
// in the removed stage disappear from the pipeline board until moved.
func (s *SettingsService) RemoveStage(ctx context.Context, name string) ([]domain.DealStage, error) {
	stage := domain.DealStage(name)
	if stage.IsProtected() {
		return nil, ErrStageProtected
	}

	stages, err := s.StageOrder(ctx)
	if err != nil {
		return nil, err
	}
	if !containsStage(stages, stage) {
		return nil, ErrStageNotFound
	}

	updated := make([]domain.DealStage, 0, len(stages)-1)
	for _, st := range stages {
		if st != stage {
			updated = append(updated, st)
		}
	}

	if err := s.saveStages(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("Pipeline stage removed", zap.String("stage", name))
	return updated, nil
}

func (s *SettingsService) saveStages(ctx context.Context, stages []domain.DealStage) error {
	raw, err := json.Marshal(stages)
	if err != nil {
		return fmt.Errorf("failed to encode stage configuration: %w", err)
	}
	if err := s.preferences.Set(ctx, domain.PrefPipelineStages, string(raw)); err != nil {
		return fmt.Errorf("failed to save stage configuration: %w", err)
	}
	return nil
}

func (s *SettingsService) intPref(ctx context.Context, key string, fallback int) int {
	raw, err := s.preferences.Get(ctx, key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (s *SettingsService) boolPref(ctx context.Context, key string, fallback bool) bool {
	raw, err := s.preferences.Get(ctx, key)
	if err != nil {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
