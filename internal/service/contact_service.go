package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowcrm/pipeline-api/internal/derive"
	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/flowcrm/pipeline-api/internal/mapper"
	"github.com/flowcrm/pipeline-api/internal/store"
	"go.uber.org/zap"
)

// ContactService handles business logic for contacts
type ContactService struct {
	contacts store.ContactStore
	deals    store.DealStore
	logger   *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contacts store.ContactStore, deals store.DealStore, logger *zap.Logger) *ContactService {
	return &ContactService{
		contacts: contacts,
		deals:    deals,
		logger:   logger,
	}
}

// List returns contacts filtered by free text and tag. An empty query
// returns the full working set in store order. Tag "all" disables the
// tag filter.
func (s *ContactService) List(ctx context.Context, query, tag string) ([]domain.ContactDTO, error) {
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts = derive.TextFilter(contacts, query,
		func(c domain.Contact) string { return c.Name },
		func(c domain.Contact) string { return c.Email },
		func(c domain.Contact) string { return c.Company },
	)

	if tag != "" && tag != derive.TagAll {
		filtered := make([]domain.Contact, 0, len(contacts))
		for _, c := range contacts {
			for _, t := range c.Tags {
				if t == tag {
					filtered = append(filtered, c)
					break
				}
			}
		}
		contacts = filtered
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i := range contacts {
		dtos[i] = mapper.ToContactDTO(&contacts[i])
	}
	return dtos, nil
}

// Tags returns the tag filter vocabulary: "all" followed by every
// distinct tag in first-seen order.
func (s *ContactService) Tags(ctx context.Context) ([]string, error) {
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return derive.TagVocabulary(contacts), nil
}

// Stats aggregates the contact list for the contacts header.
func (s *ContactService) Stats(ctx context.Context) (*domain.ContactStatsDTO, error) {
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := s.deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	total, companies := derive.ContactStats(contacts)
	active := 0
	for _, d := range deals {
		if !d.Stage.IsClosed() {
			active++
		}
	}
	return &domain.ContactStatsDTO{
		TotalContacts: total,
		Companies:     companies,
		ActiveDeals:   active,
	}, nil
}

// GetByID returns a single contact.
func (s *ContactService) GetByID(ctx context.Context, id int) (*domain.ContactDTO, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

// Create validates the submitted draft and persists a new contact. The
// record is created only when the draft is clean.
func (s *ContactService) Create(ctx context.Context, draft forms.ContactDraft) (*domain.ContactDTO, error) {
	if errs := forms.ValidateContact(draft); !errs.Valid() {
		return nil, NewValidationError(errs)
	}

	contact := &domain.Contact{
		Name:      draft.Name,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Company:   draft.Company,
		Tags:      derive.SplitTags(draft.Tags),
		CreatedAt: time.Now(),
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Info("Contact created",
		zap.Int("contact_id", contact.ID),
		zap.String("name", contact.Name))

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

// Update validates the draft and overwrites the contact's form-backed
// fields. Creation time and last-activity are preserved.
func (s *ContactService) Update(ctx context.Context, id int, draft forms.ContactDraft) (*domain.ContactDTO, error) {
	if errs := forms.ValidateContact(draft); !errs.Valid() {
		return nil, NewValidationError(errs)
	}

	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	contact.Name = draft.Name
	contact.Email = draft.Email
	contact.Phone = draft.Phone
	contact.Company = draft.Company
	contact.Tags = derive.SplitTags(draft.Tags)

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

// Delete removes a contact. Deals and activities referencing it are left
// in place and render with a placeholder contact name.
func (s *ContactService) Delete(ctx context.Context, id int) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	s.logger.Info("Contact deleted", zap.Int("contact_id", id))
	return nil
}
