package domain

// ContactDTO is the API representation of a contact.
type ContactDTO struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Company      string   `json:"company,omitempty"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"createdAt"`
	LastActivity string   `json:"lastActivity,omitempty"`
}

// DealDTO is the API representation of a deal, joined with its contact's
// display name. ContactName falls back to a placeholder when the referenced
// contact no longer exists.
type DealDTO struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Value         float64   `json:"value"`
	Stage         DealStage `json:"stage"`
	ContactID     int       `json:"contactId"`
	ContactName   string    `json:"contactName"`
	Probability   int       `json:"probability"`
	ExpectedClose string    `json:"expectedClose,omitempty"`
	CreatedAt     string    `json:"createdAt"`
}

// ActivityDTO is the API representation of an activity.
type ActivityDTO struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ContactID   int    `json:"contactId"`
	ContactName string `json:"contactName"`
	DealID      *int   `json:"dealId,omitempty"`
	DealTitle   string `json:"dealTitle,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
}

// NotificationDTO is the API representation of a notification.
type NotificationDTO struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Read       bool   `json:"read"`
	ReadAt     string `json:"readAt,omitempty"`
	EntityType string `json:"entityType,omitempty"`
	EntityID   *int   `json:"entityId,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// PipelineColumnDTO is one stage column of the pipeline board.
type PipelineColumnDTO struct {
	Stage      DealStage `json:"stage"`
	Deals      []DealDTO `json:"deals"`
	Count      int       `json:"count"`
	TotalValue float64   `json:"totalValue"`
}

// DealStatsDTO aggregates the deal list for the pipeline header.
type DealStatsDTO struct {
	TotalValue  float64 `json:"totalValue"`
	WonValue    float64 `json:"wonValue"`
	ActiveCount int     `json:"activeCount"`
}

// ActivityCountsDTO aggregates the activity list.
type ActivityCountsDTO struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Today     int `json:"today"`
}

// ContactStatsDTO aggregates the contact list.
type ContactStatsDTO struct {
	TotalContacts int `json:"totalContacts"`
	Companies     int `json:"companies"`
	ActiveDeals   int `json:"activeDeals"`
}

// PreferencesDTO carries the persisted user preferences.
type PreferencesDTO struct {
	DefaultProbability int  `json:"defaultProbability"`
	AutosaveInterval   int  `json:"autosaveInterval"`
	EmailNotifications bool `json:"emailNotifications"`
	TaskReminders      bool `json:"taskReminders"`
	DealAlerts         bool `json:"dealAlerts"`
}

// UpdatePreferencesRequest updates the persisted user preferences.
type UpdatePreferencesRequest struct {
	DefaultProbability int  `json:"defaultProbability" validate:"gte=0,lte=100"`
	AutosaveInterval   int  `json:"autosaveInterval" validate:"gte=5,lte=3600"`
	EmailNotifications bool `json:"emailNotifications"`
	TaskReminders      bool `json:"taskReminders"`
	DealAlerts         bool `json:"dealAlerts"`
}

// AddStageRequest adds a custom pipeline stage. The stage is inserted
// before the two closing stages.
type AddStageRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// RenameStageRequest renames a custom pipeline stage.
type RenameStageRequest struct {
	NewName string `json:"newName" validate:"required,max=50"`
}

// MoveDealRequest reassigns a deal to a target stage.
type MoveDealRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// ExportSettings is the settings section of an export document.
type ExportSettings struct {
	PipelineStages []DealStage    `json:"pipelineStages"`
	Preferences    PreferencesDTO `json:"preferences"`
}

// ExportDocument is the structured artifact produced for download and by
// the autosave job.
type ExportDocument struct {
	ID         string         `json:"id"`
	ExportedAt string         `json:"exportedAt"`
	Contacts   []ContactDTO   `json:"contacts"`
	Deals      []DealDTO      `json:"deals"`
	Activities []ActivityDTO  `json:"activities"`
	Settings   ExportSettings `json:"settings"`
}
