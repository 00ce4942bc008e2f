package service_test

import (
	"context"
	"testing"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/service"
	"github.com/flowcrm/pipeline-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSettingsService() (*service.SettingsService, *store.MemoryPreferenceStore) {
	prefs := store.NewMemoryPreferenceStore()
	return service.NewSettingsService(prefs, zap.NewNop()), prefs
}

func TestSettingsService_Preferences(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults apply when nothing was saved", func(t *testing.T) {
		svc, _ := newSettingsService()

		prefs, err := svc.Preferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, 50, prefs.DefaultProbability)
		assert.Equal(t, 30, prefs.AutosaveInterval)
		assert.True(t, prefs.EmailNotifications)
		assert.True(t, prefs.TaskReminders)
		assert.True(t, prefs.DealAlerts)
	})

	t.Run("update persists the full set", func(t *testing.T) {
		svc, _ := newSettingsService()

		prefs, err := svc.UpdatePreferences(ctx, &domain.UpdatePreferencesRequest{
			DefaultProbability: 25,
			AutosaveInterval:   60,
			EmailNotifications: false,
			TaskReminders:      true,
			DealAlerts:         false,
		})
		require.NoError(t, err)
		assert.Equal(t, 25, prefs.DefaultProbability)
		assert.Equal(t, 60, prefs.AutosaveInterval)
		assert.False(t, prefs.EmailNotifications)
		assert.False(t, prefs.DealAlerts)

		assert.Equal(t, 25, svc.DefaultProbability(ctx))
		assert.Equal(t, 60, svc.AutosaveInterval(ctx))
		assert.False(t, svc.DealAlertsEnabled(ctx))
	})

	t.Run("garbage stored values fall back to defaults", func(t *testing.T) {
		svc, prefs := newSettingsService()
		require.NoError(t, prefs.Set(ctx, domain.PrefDefaultProbability, "not a number"))
		assert.Equal(t, 50, svc.DefaultProbability(ctx))
	})
}

func TestSettingsService_Stages(t *testing.T) {
	ctx := context.Background()

	t.Run("default order when unconfigured", func(t *testing.T) {
		svc, _ := newSettingsService()

		stages, err := svc.StageOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultStageOrder, stages)
	})

	t.Run("add inserts before the closing stages", func(t *testing.T) {
		svc, _ := newSettingsService()

		stages, err := svc.AddStage(ctx, "Demo")
		require.NoError(t, err)
		assert.Equal(t, []domain.DealStage{
			domain.DealStageLead,
			domain.DealStageQualified,
			domain.DealStageProposal,
			domain.DealStageNegotiation,
			domain.DealStage("Demo"),
			domain.DealStageClosedWon,
			domain.DealStageClosedLost,
		}, stages)

		// persisted: a fresh read sees the same order
		again, err := svc.StageOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, stages, again)
	})

	t.Run("duplicate add is rejected", func(t *testing.T) {
		svc, _ := newSettingsService()

		_, err := svc.AddStage(ctx, "Lead")
		assert.ErrorIs(t, err, service.ErrStageExists)
	})

	t.Run("rename works for custom stages only", func(t *testing.T) {
		svc, _ := newSettingsService()
		_, err := svc.AddStage(ctx, "Demo")
		require.NoError(t, err)

		stages, err := svc.RenameStage(ctx, "Demo", "Trial")
		require.NoError(t, err)
		assert.Contains(t, stages, domain.DealStage("Trial"))
		assert.NotContains(t, stages, domain.DealStage("Demo"))

		_, err = svc.RenameStage(ctx, "Closed Won", "Won")
		assert.ErrorIs(t, err, service.ErrStageProtected)

		_, err = svc.RenameStage(ctx, "Nope", "Whatever")
		assert.ErrorIs(t, err, service.ErrStageNotFound)

		_, err = svc.RenameStage(ctx, "Trial", "Lead")
		assert.ErrorIs(t, err, service.ErrStageExists)
	})

	t.Run("remove rejects protected stages", func(t *testing.T) {
		svc, _ := newSettingsService()

		for _, name := range []string{"Lead", "Closed Won", "Closed Lost"} {
			_, err := svc.RemoveStage(ctx, name)
			assert.ErrorIs(t, err, service.ErrStageProtected, "stage %s", name)
		}

		stages, err := svc.RemoveStage(ctx, "Qualified")
		require.NoError(t, err)
		assert.NotContains(t, stages, domain.DealStageQualified)
		assert.Len(t, stages, len(domain.DefaultStageOrder)-1)
	})
}
