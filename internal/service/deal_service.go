package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/flowcrm/pipeline-api/internal/derive"
	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/flowcrm/pipeline-api/internal/mapper"
	"github.com/flowcrm/pipeline-api/internal/store"
	"go.uber.org/zap"
)

// DealService handles business logic for deals and the pipeline board
type DealService struct {
	deals         store.DealStore
	contacts      store.ContactStore
	settings      *SettingsService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewDealService creates a new DealService
func NewDealService(
	deals store.DealStore,
	contacts store.ContactStore,
	settings *SettingsService,
	notifications *NotificationService,
	logger *zap.Logger,
) *DealService {
	return &DealService{
		deals:         deals,
		contacts:      contacts,
		settings:      settings,
		notifications: notifications,
		logger:        logger,
	}
}

// List returns deals filtered by free text across title and the joined
// contact name. An empty query returns everything in store order.
func (s *DealService) List(ctx context.Context, query string) ([]domain.DealDTO, error) {
	deals, contacts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	byID := contactIndex(contacts)
	deals = derive.TextFilter(deals, query,
		func(d domain.Deal) string { return d.Title },
		func(d domain.Deal) string { return byID[d.ContactID] },
	)

	dtos := make([]domain.DealDTO, len(deals))
	for i := range deals {
		dtos[i] = mapper.ToDealDTO(&deals[i], contacts)
	}
	return dtos, nil
}

// Pipeline groups all deals into one column per configured stage, in
// stage order. Every stage produces a column even when empty. Deals in
// stages that are no longer configured are excluded.
func (s *DealService) Pipeline(ctx context.Context) ([]domain.PipelineColumnDTO, error) {
	deals, contacts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	stages, err := s.settings.StageOrder(ctx)
	if err != nil {
		return nil, err
	}

	grouped := derive.StageGrouping(deals, stages)
	columns := make([]domain.PipelineColumnDTO, len(stages))
	for i, stage := range stages {
		column := grouped[stage]
		dtos := make([]domain.DealDTO, len(column))
		for j := range column {
			dtos[j] = mapper.ToDealDTO(&column[j], contacts)
		}
		columns[i] = domain.PipelineColumnDTO{
			Stage:      stage,
			Deals:      dtos,
			Count:      len(column),
			TotalValue: derive.StageTotal(column),
		}
	}
	return columns, nil
}

// Stats aggregates the deal list for the pipeline header.
func (s *DealService) Stats(ctx context.Context) (*domain.DealStatsDTO, error) {
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	stats := derive.DealStats(deals)
	return &stats, nil
}

// GetByID returns a single deal joined with its contact name.
func (s *DealService) GetByID(ctx context.Context, id int) (*domain.DealDTO, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	dto := mapper.ToDealDTO(deal, contacts)
	return &dto, nil
}

// Create validates the submitted draft and persists a new deal. A blank
// probability is prefilled from the default-probability preference
// before validation. A blank stage defaults to the first configured
// stage.
func (s *DealService) Create(ctx context.Context, draft forms.DealDraft) (*domain.DealDTO, error) {
	if draft.Probability == "" {
		draft.Probability = strconv.Itoa(s.settings.DefaultProbability(ctx))
	}

	if errs := forms.ValidateDeal(draft); !errs.Valid() {
		return nil, NewValidationError(errs)
	}

	deal, err := s.dealFromDraft(ctx, draft)
	if err != nil {
		return nil, err
	}
	deal.CreatedAt = time.Now()

	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.logger.Info("Deal created",
		zap.Int("deal_id", deal.ID),
		zap.String("title", deal.Title),
		zap.String("stage", string(deal.Stage)))

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	dto := mapper.ToDealDTO(deal, contacts)
	return &dto, nil
}

// Update validates the draft and overwrites the deal's form-backed
// fields. The stage is changed through MoveStage, not here.
func (s *DealService) Update(ctx context.Context, id int, draft forms.DealDraft) (*domain.DealDTO, error) {
	if errs := forms.ValidateDeal(draft); !errs.Valid() {
		return nil, NewValidationError(errs)
	}

	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	updated, err := s.dealFromDraft(ctx, draft)
	if err != nil {
		return nil, err
	}

	deal.Title = updated.Title
	deal.Value = updated.Value
	deal.ContactID = updated.ContactID
	deal.Probability = updated.Probability
	deal.ExpectedClose = updated.ExpectedClose
	if updated.Stage != "" {
		deal.Stage = updated.Stage
	}

	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	dto := mapper.ToDealDTO(deal, contacts)
	return &dto, nil
}

// MoveStage reassigns a deal to the target stage. Moving a deal onto
// the stage it already occupies is a no-op: no store call is issued and
// moved is false. The target must be one of the configured stages. The
// held record is replaced only once the store confirms the change; on
// store failure the old snapshot stands and a failure notification is
// recorded.
func (s *DealService) MoveStage(ctx context.Context, id int, target domain.DealStage) (*domain.DealDTO, bool, error) {
	stages, err := s.settings.StageOrder(ctx)
	if err != nil {
		return nil, false, err
	}
	if !containsStage(stages, target) {
		return nil, false, ErrStageNotFound
	}

	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("failed to get deal: %w", err)
	}

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list contacts: %w", err)
	}

	if deal.Stage == target {
		dto := mapper.ToDealDTO(deal, contacts)
		return &dto, false, nil
	}

	confirmed, err := s.deals.UpdateStage(ctx, id, target)
	if err != nil {
		s.logger.Error("Deal stage update failed",
			zap.Int("deal_id", id),
			zap.String("target_stage", string(target)),
			zap.Error(err))
		s.notifications.Notify(ctx, domain.NotificationTypeStoreFailure,
			fmt.Sprintf("Failed to move '%s' to %s", deal.Title, target), "deal", &deal.ID)
		return nil, false, fmt.Errorf("failed to move deal: %w", err)
	}

	s.logger.Info("Deal moved",
		zap.Int("deal_id", confirmed.ID),
		zap.String("from", string(deal.Stage)),
		zap.String("to", string(confirmed.Stage)))

	if s.settings.DealAlertsEnabled(ctx) {
		s.notifications.Notify(ctx, domain.NotificationTypeDealStageChanged,
			fmt.Sprintf("Deal '%s' moved to %s", confirmed.Title, confirmed.Stage), "deal", &confirmed.ID)
	}

	dto := mapper.ToDealDTO(confirmed, contacts)
	return &dto, true, nil
}

// Delete removes a deal.
func (s *DealService) Delete(ctx context.Context, id int) error {
	if err := s.deals.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	s.logger.Info("Deal deleted", zap.Int("deal_id", id))
	return nil
}

func (s *DealService) load(ctx context.Context) ([]domain.Deal, []domain.Contact, error) {
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list deals: %w", err)
	}
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return deals, contacts, nil
}

// dealFromDraft parses a validated draft into a record. The referenced
// contact must exist.
func (s *DealService) dealFromDraft(ctx context.Context, draft forms.DealDraft) (*domain.Deal, error) {
	contactID, _ := strconv.Atoi(draft.ContactID)
	if _, err := s.contacts.GetByID(ctx, contactID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	value, _ := strconv.ParseFloat(draft.Value, 64)
	probability, _ := strconv.Atoi(draft.Probability)

	deal := &domain.Deal{
		Title:       draft.Title,
		Value:       value,
		ContactID:   contactID,
		Probability: probability,
	}

	if draft.Stage != "" {
		deal.Stage = domain.DealStage(draft.Stage)
	} else if stages, err := s.settings.StageOrder(ctx); err == nil && len(stages) > 0 {
		deal.Stage = stages[0]
	} else {
		deal.Stage = domain.DealStageLead
	}

	if draft.ExpectedClose != "" {
		t, err := time.Parse("2006-01-02", draft.ExpectedClose)
		if err != nil {
			return nil, NewValidationError(forms.Errors{"expectedClose": "Expected close must be a valid date"})
		}
		deal.ExpectedClose = &t
	}

	return deal, nil
}

func contactIndex(contacts []domain.Contact) map[int]string {
	byID := make(map[int]string, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c.Name
	}
	return byID
}

func containsStage(stages []domain.DealStage, stage domain.DealStage) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}
