package domain

import (
	"time"

	"github.com/lib/pq"
)

// DealStage is a named step in the sales pipeline. The stage list is
// configurable at runtime; these constants cover the default pipeline.
// Lead and the two closing stages are protected and can be neither
// renamed nor removed.
type DealStage string

const (
	DealStageLead        DealStage = "Lead"
	DealStageQualified   DealStage = "Qualified"
	DealStageProposal    DealStage = "Proposal"
	DealStageNegotiation DealStage = "Negotiation"
	DealStageClosedWon   DealStage = "Closed Won"
	DealStageClosedLost  DealStage = "Closed Lost"
)

// DefaultStageOrder is the pipeline enumeration used when no custom
// configuration has been saved.
var DefaultStageOrder = []DealStage{
	DealStageLead,
	DealStageQualified,
	DealStageProposal,
	DealStageNegotiation,
	DealStageClosedWon,
	DealStageClosedLost,
}

// ProtectedStages cannot be renamed or removed through settings.
var ProtectedStages = []DealStage{DealStageLead, DealStageClosedWon, DealStageClosedLost}

// IsProtected reports whether the stage is one of the fixed pipeline stages.
func (s DealStage) IsProtected() bool {
	for _, p := range ProtectedStages {
		if s == p {
			return true
		}
	}
	return false
}

// IsClosed reports whether the stage is a terminal (closed) stage.
func (s DealStage) IsClosed() bool {
	return s == DealStageClosedWon || s == DealStageClosedLost
}

// Contact represents a person tracked in the CRM.
type Contact struct {
	ID           int            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"type:varchar(200);not null;index" json:"name"`
	Email        string         `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone        string         `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Company      string         `gorm:"type:varchar(200);index" json:"company,omitempty"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	LastActivity *time.Time     `gorm:"column:last_activity" json:"lastActivity,omitempty"`
}

// Deal represents a sales opportunity moving through the pipeline.
type Deal struct {
	ID            int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string     `gorm:"type:varchar(200);not null" json:"title"`
	Value         float64    `gorm:"type:decimal(15,2);not null;default:0" json:"value"`
	Stage         DealStage  `gorm:"type:varchar(50);not null;default:'Lead';index" json:"stage"`
	ContactID     int        `gorm:"not null;index;column:contact_id" json:"contactId"`
	Probability   int        `gorm:"not null;default:50" json:"probability"`
	ExpectedClose *time.Time `gorm:"type:date;column:expected_close" json:"expectedClose,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// ActivityType classifies an activity log entry.
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeNote    ActivityType = "note"
	ActivityTypeTask    ActivityType = "task"
)

// IsValid checks if the ActivityType is a valid enum value.
func (at ActivityType) IsValid() bool {
	switch at {
	case ActivityTypeCall, ActivityTypeEmail, ActivityTypeMeeting, ActivityTypeNote, ActivityTypeTask:
		return true
	}
	return false
}

// Activity represents a logged interaction with a contact, optionally
// linked to a deal. Notes are completed at creation; other types start
// pending and are toggled by the user.
type Activity struct {
	ID          int          `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        ActivityType `gorm:"type:varchar(20);not null;default:'note';index" json:"type"`
	Description string       `gorm:"type:text;not null" json:"description"`
	ContactID   int          `gorm:"not null;index;column:contact_id" json:"contactId"`
	DealID      *int         `gorm:"index;column:deal_id" json:"dealId,omitempty"`
	DueDate     *time.Time   `gorm:"type:date;column:due_date" json:"dueDate,omitempty"`
	Completed   bool         `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTypeDealStageChanged NotificationType = "deal_stage_changed"
	NotificationTypeStoreFailure     NotificationType = "store_failure"
	NotificationTypeTaskReminder     NotificationType = "task_reminder"
	NotificationTypeDealAlert        NotificationType = "deal_alert"
)

// Notification is a user-visible message produced as a side channel of
// operations (the SPA surfaces these as toasts).
type Notification struct {
	ID         int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Type       string     `gorm:"type:varchar(50);not null" json:"type"`
	Message    string     `gorm:"type:varchar(500);not null" json:"message"`
	Read       bool       `gorm:"column:read;not null;default:false;index" json:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	EntityType string     `gorm:"type:varchar(50)" json:"entityType,omitempty"`
	EntityID   *int       `gorm:"column:entity_id" json:"entityId,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// Preference is a persisted key-value entry for user settings.
type Preference struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Preference keys understood by the settings service.
const (
	PrefDefaultProbability = "default_probability"
	PrefAutosaveInterval   = "autosave_interval"
	PrefEmailNotifications = "email_notifications"
	PrefTaskReminders      = "task_reminders"
	PrefDealAlerts         = "deal_alerts"
	PrefPipelineStages     = "pipeline_stages"
)
