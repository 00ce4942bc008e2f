package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/flowcrm/pipeline-api/internal/service"
	"github.com/flowcrm/pipeline-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type activityFixture struct {
	activities *store.MemoryActivityStore
	contacts   *store.MemoryContactStore
	deals      *store.MemoryDealStore
	svc        *service.ActivityService
}

func newActivityFixture(seed ...domain.Activity) *activityFixture {
	activities := store.NewMemoryActivityStore(seed...)
	contacts := store.NewMemoryContactStore(
		domain.Contact{ID: 1, Name: "Alice Johnson"},
	)
	deals := store.NewMemoryDealStore(
		domain.Deal{ID: 1, Title: "Big contract", ContactID: 1, Stage: domain.DealStageLead},
	)
	return &activityFixture{
		activities: activities,
		contacts:   contacts,
		deals:      deals,
		svc:        service.NewActivityService(activities, contacts, deals, zap.NewNop()),
	}
}

func TestActivityService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("notes are completed at creation", func(t *testing.T) {
		f := newActivityFixture()

		dto, err := f.svc.Create(ctx, forms.ActivityDraft{
			Type:        "note",
			Description: "Met at the conference",
			ContactID:   "1",
		})
		require.NoError(t, err)
		assert.True(t, dto.Completed)
	})

	t.Run("other types start pending", func(t *testing.T) {
		f := newActivityFixture()

		for _, typ := range []string{"call", "email", "meeting", "task"} {
			dto, err := f.svc.Create(ctx, forms.ActivityDraft{
				Type:        typ,
				Description: "Follow up",
				ContactID:   "1",
			})
			require.NoError(t, err)
			assert.False(t, dto.Completed, "type %s", typ)
		}
	})

	t.Run("creation stamps the contact's last activity", func(t *testing.T) {
		f := newActivityFixture()

		_, err := f.svc.Create(ctx, forms.ActivityDraft{
			Type:        "call",
			Description: "Intro call",
			ContactID:   "1",
		})
		require.NoError(t, err)

		contact, err := f.contacts.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, contact.LastActivity)
		assert.WithinDuration(t, time.Now(), *contact.LastActivity, time.Minute)
	})

	t.Run("deal link resolves the deal title", func(t *testing.T) {
		f := newActivityFixture()

		dto, err := f.svc.Create(ctx, forms.ActivityDraft{
			Type:        "meeting",
			Description: "Contract review",
			ContactID:   "1",
			DealID:      "1",
		})
		require.NoError(t, err)
		require.NotNil(t, dto.DealID)
		assert.Equal(t, "Big contract", dto.DealTitle)
	})

	t.Run("invalid draft reports field errors", func(t *testing.T) {
		f := newActivityFixture()

		_, err := f.svc.Create(ctx, forms.ActivityDraft{Type: "call"})

		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Description is required", verr.Fields["description"])
		assert.Equal(t, "Please select a contact", verr.Fields["contactId"])
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		f := newActivityFixture()

		_, err := f.svc.Create(ctx, forms.ActivityDraft{
			Type:        "fax",
			Description: "x",
			ContactID:   "1",
		})

		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "type")
	})
}

func TestActivityService_List(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	f := newActivityFixture(
		domain.Activity{ID: 1, Type: domain.ActivityTypeCall, Description: "old", ContactID: 1, CreatedAt: base},
		domain.Activity{ID: 2, Type: domain.ActivityTypeNote, Description: "newest", ContactID: 1, CreatedAt: base.Add(2 * time.Hour)},
		domain.Activity{ID: 3, Type: domain.ActivityTypeCall, Description: "mid", ContactID: 1, CreatedAt: base.Add(time.Hour)},
	)

	t.Run("newest first", func(t *testing.T) {
		out, err := f.svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, 2, out[0].ID)
		assert.Equal(t, 3, out[1].ID)
		assert.Equal(t, 1, out[2].ID)
	})

	t.Run("type filter", func(t *testing.T) {
		out, err := f.svc.List(ctx, "call")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, 3, out[0].ID)
		assert.Equal(t, 1, out[1].ID)
	})

	t.Run("filter all is a pass-through", func(t *testing.T) {
		out, err := f.svc.List(ctx, "all")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})
}

func TestActivityService_GetByID(t *testing.T) {
	ctx := context.Background()
	dealID := 1
	f := newActivityFixture(
		domain.Activity{ID: 1, Type: domain.ActivityTypeCall, Description: "Intro call", ContactID: 1, DealID: &dealID},
	)

	t.Run("resolves joined names", func(t *testing.T) {
		dto, err := f.svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Intro call", dto.Description)
		assert.Equal(t, "Alice Johnson", dto.ContactName)
		assert.Equal(t, "Big contract", dto.DealTitle)
	})

	t.Run("missing activity", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, 99)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestActivityService_Counts(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	f := newActivityFixture(
		domain.Activity{ID: 1, Completed: true, ContactID: 1, CreatedAt: now},
		domain.Activity{ID: 2, Completed: true, ContactID: 1, CreatedAt: now.Add(-48 * time.Hour)},
		domain.Activity{ID: 3, Completed: false, ContactID: 1, CreatedAt: now.Add(-72 * time.Hour)},
	)

	counts, err := f.svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 2, counts.Completed)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 1, counts.Today)
}

func TestActivityService_Toggle(t *testing.T) {
	ctx := context.Background()
	f := newActivityFixture(
		domain.Activity{ID: 1, Type: domain.ActivityTypeTask, Description: "x", ContactID: 1},
	)

	completed, err := f.svc.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = f.svc.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.False(t, completed)

	_, err = f.svc.Toggle(ctx, 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
