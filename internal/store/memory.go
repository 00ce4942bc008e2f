package store

import (
	"context"
	"sync"
	"time"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/lib/pq"
)

// The in-memory stores mirror the remote collections for local and
// offline use. Identities are client-generated as max(existing)+1, and
// missing records signal ErrNotFound explicitly rather than soft-failing
// to empty results. Reads return copies so callers never share backing
// arrays with the store.

// MemoryContactStore is the in-memory contacts collection.
type MemoryContactStore struct {
	mu       sync.RWMutex
	contacts []domain.Contact
}

// NewMemoryContactStore creates a contact store seeded with the given records.
func NewMemoryContactStore(seed ...domain.Contact) *MemoryContactStore {
	s := &MemoryContactStore{contacts: make([]domain.Contact, len(seed))}
	for i, c := range seed {
		s.contacts[i] = cloneContact(c)
	}
	return s
}

// cloneContact copies the record including its tag slice, which would
// otherwise alias the store's backing array.
func cloneContact(c domain.Contact) domain.Contact {
	out := c
	if c.Tags != nil {
		out.Tags = append(pq.StringArray(nil), c.Tags...)
	}
	return out
}

func (s *MemoryContactStore) GetAll(ctx context.Context) ([]domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Contact, len(s.contacts))
	for i, c := range s.contacts {
		out[i] = cloneContact(c)
	}
	return out, nil
}

func (s *MemoryContactStore) GetByID(ctx context.Context, id int) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.ID == id {
			out := cloneContact(c)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for _, c := range s.contacts {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	contact.ID = maxID + 1
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	s.contacts = append(s.contacts, cloneContact(*contact))
	return nil
}

func (s *MemoryContactStore) Update(ctx context.Context, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == contact.ID {
			s.contacts[i] = cloneContact(*contact)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryContactStore) TouchLastActivity(ctx context.Context, id int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			stamp := at
			s.contacts[i].LastActivity = &stamp
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryContactStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryDealStore is the in-memory deals collection.
type MemoryDealStore struct {
	mu    sync.RWMutex
	deals []domain.Deal
}

// NewMemoryDealStore creates a deal store seeded with the given records.
func NewMemoryDealStore(seed ...domain.Deal) *MemoryDealStore {
	s := &MemoryDealStore{deals: make([]domain.Deal, len(seed))}
	copy(s.deals, seed)
	return s
}

func (s *MemoryDealStore) GetAll(ctx context.Context) ([]domain.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Deal, len(s.deals))
	copy(out, s.deals)
	return out, nil
}

func (s *MemoryDealStore) GetByID(ctx context.Context, id int) (*domain.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.deals {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryDealStore) Create(ctx context.Context, deal *domain.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for _, d := range s.deals {
		if d.ID > maxID {
			maxID = d.ID
		}
	}
	deal.ID = maxID + 1
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = time.Now()
	}
	s.deals = append(s.deals, *deal)
	return nil
}

func (s *MemoryDealStore) Update(ctx context.Context, deal *domain.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.deals {
		if d.ID == deal.ID {
			s.deals[i] = *deal
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryDealStore) UpdateStage(ctx context.Context, id int, stage domain.DealStage) (*domain.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID == id {
			s.deals[i].Stage = stage
			out := s.deals[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryDealStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.deals {
		if d.ID == id {
			s.deals = append(s.deals[:i], s.deals[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryActivityStore is the in-memory activities collection.
type MemoryActivityStore struct {
	mu         sync.RWMutex
	activities []domain.Activity
}

// NewMemoryActivityStore creates an activity store seeded with the given records.
func NewMemoryActivityStore(seed ...domain.Activity) *MemoryActivityStore {
	s := &MemoryActivityStore{activities: make([]domain.Activity, len(seed))}
	copy(s.activities, seed)
	return s
}

func (s *MemoryActivityStore) GetAll(ctx context.Context) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Activity, len(s.activities))
	copy(out, s.activities)
	return out, nil
}

func (s *MemoryActivityStore) GetByID(ctx context.Context, id int) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.activities {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryActivityStore) ListByContact(ctx context.Context, contactID int) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Activity
	for _, a := range s.activities {
		if a.ContactID == contactID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryActivityStore) Create(ctx context.Context, activity *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for _, a := range s.activities {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	activity.ID = maxID + 1
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	s.activities = append(s.activities, *activity)
	return nil
}

func (s *MemoryActivityStore) Update(ctx context.Context, activity *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.activities {
		if a.ID == activity.ID {
			s.activities[i] = *activity
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryActivityStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.activities {
		if a.ID == id {
			s.activities = append(s.activities[:i], s.activities[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryNotificationStore is the in-memory notifications collection.
type MemoryNotificationStore struct {
	mu            sync.RWMutex
	notifications []domain.Notification
}

// NewMemoryNotificationStore creates an empty notification store.
func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{}
}

func (s *MemoryNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for _, n := range s.notifications {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	notification.ID = maxID + 1
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *MemoryNotificationStore) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Notification
	for _, n := range s.notifications {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *MemoryNotificationStore) MarkRead(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			now := time.Now()
			s.notifications[i].Read = true
			s.notifications[i].ReadAt = &now
			return nil
		}
	}
	return ErrNotFound
}

// MemoryPreferenceStore is the in-memory key-value settings store.
type MemoryPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryPreferenceStore creates an empty preference store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{values: make(map[string]string)}
}

func (s *MemoryPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryPreferenceStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
