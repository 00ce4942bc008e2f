package service_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/service"
	"github.com/flowcrm/pipeline-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newExportService() *service.ExportService {
	logger := zap.NewNop()
	contacts := store.NewMemoryContactStore(
		domain.Contact{ID: 1, Name: "Alice", Tags: []string{"vip"}},
	)
	deals := store.NewMemoryDealStore(
		domain.Deal{ID: 1, Title: "Big contract", Value: 100, Stage: domain.DealStageLead, ContactID: 1},
	)
	activities := store.NewMemoryActivityStore(
		domain.Activity{ID: 1, Type: domain.ActivityTypeNote, Description: "hi", ContactID: 1, Completed: true},
	)
	settings := service.NewSettingsService(store.NewMemoryPreferenceStore(), logger)
	return service.NewExportService(contacts, deals, activities, settings, logger)
}

func TestExportService_BuildDocument(t *testing.T) {
	ctx := context.Background()
	svc := newExportService()

	doc, err := svc.BuildDocument(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.NotEmpty(t, doc.ExportedAt)
	require.Len(t, doc.Contacts, 1)
	require.Len(t, doc.Deals, 1)
	require.Len(t, doc.Activities, 1)
	assert.Equal(t, "Alice", doc.Deals[0].ContactName)
	assert.Equal(t, domain.DefaultStageOrder, doc.Settings.PipelineStages)
	assert.Equal(t, 50, doc.Settings.Preferences.DefaultProbability)
}

func TestExportService_WriteFile(t *testing.T) {
	ctx := context.Background()
	svc := newExportService()
	dir := t.TempDir()

	path, err := svc.WriteFile(ctx, dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc domain.ExportDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Contacts, 1)
	assert.Len(t, doc.Deals, 1)
}
