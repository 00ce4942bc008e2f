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

// ActivityService handles business logic for activities
type ActivityService struct {
	activities store.ActivityStore
	contacts   store.ContactStore
	deals      store.DealStore
	logger     *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	activities store.ActivityStore,
	contacts store.ContactStore,
	deals store.DealStore,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activities: activities,
		contacts:   contacts,
		deals:      deals,
		logger:     logger,
	}
}

// List returns activities newest first, optionally restricted to one
// type. typeFilter "all" or empty disables the type filter.
func (s *ActivityService) List(ctx context.Context, typeFilter string) ([]domain.ActivityDTO, error) {
	activities, contacts, deals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if typeFilter != "" && typeFilter != "all" {
		filtered := make([]domain.Activity, 0, len(activities))
		for _, a := range activities {
			if string(a.Type) == typeFilter {
				filtered = append(filtered, a)
			}
		}
		activities = filtered
	}

	activities = derive.SortByRecency(activities)

	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = mapper.ToActivityDTO(&activities[i], contacts, deals)
	}
	return dtos, nil
}

// ListByContact returns one contact's activities newest first.
func (s *ActivityService) GetByID(ctx context.Context, id int) (*domain.ActivityDTO, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	dto := mapper.ToActivityDTO(activity, contacts, deals)
	return &dto, nil
}

func (s *ActivityService) ListByContact(ctx context.Context, contactID int) ([]domain.ActivityDTO, error) {
	activities, err := s.activities.ListByContact(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	activities = derive.SortByRecency(activities)

	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = mapper.ToActivityDTO(&activities[i], contacts, deals)
	}
	return dtos, nil
}

// Counts aggregates the activity list for the activities header. Today
// is a calendar-day comparison in server local time.
func (s *ActivityService) Counts(ctx context.Context) (*domain.ActivityCountsDTO, error) {
	activities, err := s.activities.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	counts := derive.Counts(activities, time.Now())
	return &domain.ActivityCountsDTO{
		Total:     counts.Total,
		Completed: counts.Completed,
		Pending:   counts.Pending,
		Today:     counts.Today,
	}, nil
}

// Create validates the submitted draft and persists a new activity.
// Notes are completed at creation; every other type starts pending.
// The contact's last-activity time is stamped afterwards as its own
// store call; a failure there is logged and otherwise ignored.
func (s *ActivityService) Create(ctx context.Context, draft forms.ActivityDraft) (*domain.ActivityDTO, error) {
	if errs := forms.ValidateActivity(draft); !errs.Valid() {
		return nil, NewValidationError(errs)
	}

	activity, err := s.activityFromDraft(ctx, draft)
	if err != nil {
		return nil, err
	}
	activity.CreatedAt = time.Now()
	activity.Completed = activity.Type == domain.ActivityTypeNote

	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.logger.Info("Activity created",
		zap.Int("activity_id", activity.ID),
		zap.String("type", string(activity.Type)),
		zap.Int("contact_id", activity.ContactID))

	if err := s.contacts.TouchLastActivity(ctx, activity.ContactID, activity.CreatedAt); err != nil {
		s.logger.Warn("Failed to stamp contact last activity",
			zap.Int("contact_id", activity.ContactID),
			zap.Error(err))
	}

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	dto := mapper.ToActivityDTO(activity, contacts, deals)
	return &dto, nil
}

// Update validates the draft and overwrites the activity's form-backed
// fields. Completion state is changed through Toggle, not here.
func (s *ActivityService) Update(ctx context.Context, id int, draft forms.ActivityDraft) (*domain.ActivityDTO, error) {
	if errs := forms.ValidateActivity(draft); !errs.Valid() {
		return nil, NewValidationError(errs)
	}

	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	updated, err := s.activityFromDraft(ctx, draft)
	if err != nil {
		return nil, err
	}

	activity.Type = updated.Type
	activity.Description = updated.Description
	activity.ContactID = updated.ContactID
	activity.DealID = updated.DealID
	activity.DueDate = updated.DueDate

	if err := s.activities.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	dto := mapper.ToActivityDTO(activity, contacts, deals)
	return &dto, nil
}

// Toggle flips the activity's completion state and returns the new
// state.
func (s *ActivityService) Toggle(ctx context.Context, id int) (bool, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to get activity: %w", err)
	}

	activity.Completed = !activity.Completed
	if err := s.activities.Update(ctx, activity); err != nil {
		return false, fmt.Errorf("failed to update activity: %w", err)
	}
	return activity.Completed, nil
}

// Delete removes an activity.
func (s *ActivityService) Delete(ctx context.Context, id int) error {
	if err := s.activities.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	s.logger.Info("Activity deleted", zap.Int("activity_id", id))
	return nil
}

func (s *ActivityService) load(ctx context.Context) ([]domain.Activity, []domain.Contact, []domain.Deal, error) {
	activities, err := s.activities.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list activities: %w", err)
	}
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return activities, contacts, deals, nil
}

// activityFromDraft parses a validated draft into a record. The
// referenced contact must exist; the deal link, when present, must too.
func (s *ActivityService) activityFromDraft(ctx context.Context, draft forms.ActivityDraft) (*domain.Activity, error) {
	contactID, _ := strconv.Atoi(draft.ContactID)
	if _, err := s.contacts.GetByID(ctx, contactID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	activityType := domain.ActivityType(draft.Type)
	if draft.Type == "" {
		activityType = domain.ActivityTypeNote
	}
	if !activityType.IsValid() {
		return nil, NewValidationError(forms.Errors{"type": "Please select a valid activity type"})
	}

	activity := &domain.Activity{
		Type:        activityType,
		Description: draft.Description,
		ContactID:   contactID,
	}

	if draft.DealID != "" {
		dealID, err := strconv.Atoi(draft.DealID)
		if err != nil {
			return nil, NewValidationError(forms.Errors{"dealId": "Please select a valid deal"})
		}
		if _, err := s.deals.GetByID(ctx, dealID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, NewValidationError(forms.Errors{"dealId": "Please select a valid deal"})
			}
			return nil, fmt.Errorf("failed to get deal: %w", err)
		}
		activity.DealID = &dealID
	}

	if draft.DueDate != "" {
		t, err := time.Parse("2006-01-02", draft.DueDate)
		if err != nil {
			return nil, NewValidationError(forms.Errors{"dueDate": "Due date must be a valid date"})
		}
		activity.DueDate = &t
	}

	return activity, nil
}
