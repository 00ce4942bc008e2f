package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/mapper"
	"github.com/flowcrm/pipeline-api/internal/store"
	"go.uber.org/zap"
)

// NotificationService records and serves user-visible notifications
type NotificationService struct {
	notifications store.NotificationStore
	logger        *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications store.NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		logger:        logger,
	}
}

// Notify records a notification as a best-effort side channel of another
// operation. It never fails the caller: a store error here is logged
// and dropped.
func (s *NotificationService) Notify(ctx context.Context, typ domain.NotificationType, message, entityType string, entityID *int) {
	notification := &domain.Notification{
		Type:       string(typ),
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("Failed to record notification",
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}

// List returns notifications, optionally only unread ones.
func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]domain.NotificationDTO, error) {
	notifications, err := s.notifications.List(ctx, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notifications[i])
	}
	return dtos, nil
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
