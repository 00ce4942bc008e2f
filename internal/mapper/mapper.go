// Package mapper converts domain records to their API representations.
// Joins against snapshots happen here: a dangling contact or deal
// reference renders a fallback label instead of failing.
package mapper

import (
	"time"

	"github.com/flowcrm/pipeline-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// UnknownContactLabel is rendered when a referenced contact no longer exists.
const UnknownContactLabel = "Unknown contact"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// ToContactDTO converts a Contact to its API representation.
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	dto := domain.ContactDTO{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Company:   contact.Company,
		Tags:      contact.Tags,
		CreatedAt: formatTime(contact.CreatedAt),
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if contact.LastActivity != nil {
		dto.LastActivity = formatTime(*contact.LastActivity)
	}
	return dto
}

// ToDealDTO converts a Deal to its API representation, resolving the
// contact name against the given contact snapshot.
func ToDealDTO(deal *domain.Deal, contacts []domain.Contact) domain.DealDTO {
	dto := domain.DealDTO{
		ID:          deal.ID,
		Title:       deal.Title,
		Value:       deal.Value,
		Stage:       deal.Stage,
		ContactID:   deal.ContactID,
		ContactName: UnknownContactLabel,
		Probability: deal.Probability,
		CreatedAt:   formatTime(deal.CreatedAt),
	}
	for _, c := range contacts {
		if c.ID == deal.ContactID {
			dto.ContactName = c.Name
			break
		}
	}
	if deal.ExpectedClose != nil {
		dto.ExpectedClose = deal.ExpectedClose.Format("2006-01-02")
	}
	return dto
}

// ToActivityDTO converts an Activity to its API representation,
// resolving contact and deal labels against the given snapshots.
func ToActivityDTO(activity *domain.Activity, contacts []domain.Contact, deals []domain.Deal) domain.ActivityDTO {
	dto := domain.ActivityDTO{
		ID:          activity.ID,
		Type:        string(activity.Type),
		Description: activity.Description,
		ContactID:   activity.ContactID,
		ContactName: UnknownContactLabel,
		DealID:      activity.DealID,
		Completed:   activity.Completed,
		CreatedAt:   formatTime(activity.CreatedAt),
	}
	for _, c := range contacts {
		if c.ID == activity.ContactID {
			dto.ContactName = c.Name
			break
		}
	}
	if activity.DealID != nil {
		for _, d := range deals {
			if d.ID == *activity.DealID {
				dto.DealTitle = d.Title
				break
			}
		}
	}
	if activity.DueDate != nil {
		dto.DueDate = activity.DueDate.Format("2006-01-02")
	}
	return dto
}

// ToNotificationDTO converts a Notification to its API representation.
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	dto := domain.NotificationDTO{
		ID:         notification.ID,
		Type:       notification.Type,
		Message:    notification.Message,
		Read:       notification.Read,
		EntityType: notification.EntityType,
		EntityID:   notification.EntityID,
		CreatedAt:  formatTime(notification.CreatedAt),
	}
	if notification.ReadAt != nil {
		dto.ReadAt = formatTime(*notification.ReadAt)
	}
	return dto
}
