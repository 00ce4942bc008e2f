package service_test

import (
	"context"
	"testing"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/flowcrm/pipeline-api/internal/service"
	"github.com/flowcrm/pipeline-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContactService(contacts *store.MemoryContactStore, deals *store.MemoryDealStore) *service.ContactService {
	return service.NewContactService(contacts, deals, zap.NewNop())
}

func TestContactService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid draft persists and appears in the working set", func(t *testing.T) {
		contacts := store.NewMemoryContactStore()
		svc := newContactService(contacts, store.NewMemoryDealStore())

		dto, err := svc.Create(ctx, forms.ContactDraft{
			Name:  "Dana Lee",
			Email: "dana@initech.com",
			Tags:  "vip, partner",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, dto.ID)
		assert.Equal(t, []string{"vip", "partner"}, dto.Tags)
		assert.NotEmpty(t, dto.CreatedAt)

		list, err := svc.List(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Dana Lee", list[0].Name)

		// tag vocabulary gains the new tags after all
		tags, err := svc.Tags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"all", "vip", "partner"}, tags)
	})

	t.Run("invalid draft reports both errors at once", func(t *testing.T) {
		contacts := store.NewMemoryContactStore()
		svc := newContactService(contacts, store.NewMemoryDealStore())

		_, err := svc.Create(ctx, forms.ContactDraft{Name: "", Email: "bad"})

		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)

		all, getErr := contacts.GetAll(ctx)
		require.NoError(t, getErr)
		assert.Empty(t, all)
	})
}

func TestContactService_List(t *testing.T) {
	ctx := context.Background()
	contacts := store.NewMemoryContactStore(
		domain.Contact{ID: 1, Name: "Alice Johnson", Email: "alice@acme.com", Company: "Acme", Tags: []string{"vip"}},
		domain.Contact{ID: 2, Name: "Bob Smith", Email: "bob@globex.com", Company: "Globex", Tags: []string{"lead"}},
		domain.Contact{ID: 3, Name: "Carol Jones", Email: "carol@acme.com", Company: "Acme", Tags: []string{"vip", "lead"}},
	)
	svc := newContactService(contacts, store.NewMemoryDealStore())

	t.Run("free text searches name, email and company", func(t *testing.T) {
		out, err := svc.List(ctx, "acme", "")
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("tag filter narrows the set", func(t *testing.T) {
		out, err := svc.List(ctx, "", "lead")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, 2, out[0].ID)
		assert.Equal(t, 3, out[1].ID)
	})

	t.Run("tag all disables the tag filter", func(t *testing.T) {
		out, err := svc.List(ctx, "", "all")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("text and tag filters compose", func(t *testing.T) {
		out, err := svc.List(ctx, "jones", "vip")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 3, out[0].ID)
	})
}

func TestContactService_Stats(t *testing.T) {
	ctx := context.Background()
	contacts := store.NewMemoryContactStore(
		domain.Contact{ID: 1, Name: "Alice", Company: "Acme"},
		domain.Contact{ID: 2, Name: "Bob", Company: "Acme"},
	)
	deals := store.NewMemoryDealStore(
		domain.Deal{ID: 1, Stage: domain.DealStageLead, ContactID: 1},
		domain.Deal{ID: 2, Stage: domain.DealStageClosedWon, ContactID: 1},
		domain.Deal{ID: 3, Stage: domain.DealStageNegotiation, ContactID: 2},
	)
	svc := newContactService(contacts, deals)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalContacts)
	assert.Equal(t, 1, stats.Companies)
	assert.Equal(t, 2, stats.ActiveDeals)
}

func TestContactService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	contacts := store.NewMemoryContactStore(
		domain.Contact{ID: 1, Name: "Alice", Email: "alice@acme.com", Tags: []string{"vip"}},
	)
	svc := newContactService(contacts, store.NewMemoryDealStore())

	t.Run("update overwrites form-backed fields", func(t *testing.T) {
		dto, err := svc.Update(ctx, 1, forms.ContactDraft{
			Name:    "Alice J.",
			Company: "Initech",
			Tags:    "partner",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice J.", dto.Name)
		assert.Equal(t, "Initech", dto.Company)
		assert.Equal(t, []string{"partner"}, dto.Tags)
	})

	t.Run("update of missing contact yields ErrNotFound", func(t *testing.T) {
		_, err := svc.Update(ctx, 42, forms.ContactDraft{Name: "X"})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, 1))
		_, err := svc.GetByID(ctx, 1)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
