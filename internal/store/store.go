// Package store defines the entity store client contracts for the three
// record collections plus notifications and preferences. Two variants
// implement them: the gorm-backed repositories in internal/repository
// (the remote record store) and the in-memory stand-in in this package
// (local/offline variant, used heavily by tests).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/flowcrm/pipeline-api/internal/domain"
)

// ErrNotFound signals that the referenced record does not exist. The
// in-memory stand-in returns it explicitly; the gorm variant translates
// gorm.ErrRecordNotFound into it at the repository boundary.
var ErrNotFound = errors.New("record not found")

// ContactStore provides CRUD access to the contacts collection.
type ContactStore interface {
	GetAll(ctx context.Context) ([]domain.Contact, error)
	GetByID(ctx context.Context, id int) (*domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, contact *domain.Contact) error
	// TouchLastActivity stamps the contact's last-activity time. Issued as
	// its own round-trip after activity creation; a failure here is not
	// rolled back.
	TouchLastActivity(ctx context.Context, id int, at time.Time) error
	Delete(ctx context.Context, id int) error
}

// DealStore provides CRUD access to the deals collection.
type DealStore interface {
	GetAll(ctx context.Context) ([]domain.Deal, error)
	GetByID(ctx context.Context, id int) (*domain.Deal, error)
	Create(ctx context.Context, deal *domain.Deal) error
	Update(ctx context.Context, deal *domain.Deal) error
	// UpdateStage changes only the stage field and returns the confirmed
	// record. Callers must not touch their snapshot until it returns.
	UpdateStage(ctx context.Context, id int, stage domain.DealStage) (*domain.Deal, error)
	Delete(ctx context.Context, id int) error
}

// ActivityStore provides CRUD access to the activities collection.
type ActivityStore interface {
	GetAll(ctx context.Context) ([]domain.Activity, error)
	GetByID(ctx context.Context, id int) (*domain.Activity, error)
	ListByContact(ctx context.Context, contactID int) ([]domain.Activity, error)
	Create(ctx context.Context, activity *domain.Activity) error
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id int) error
}

// NotificationStore persists user-visible notifications.
type NotificationStore interface {
	Create(ctx context.Context, notification *domain.Notification) error
	List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int) error
}

// PreferenceStore is the key-value entry point for persisted settings.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
