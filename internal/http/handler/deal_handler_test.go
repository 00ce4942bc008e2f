package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flowcrm/pipeline-api/internal/domain"
	"github.com/flowcrm/pipeline-api/internal/http/handler"
	"github.com/flowcrm/pipeline-api/internal/service"
	"github.com/flowcrm/pipeline-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDealRouter(deals *store.MemoryDealStore) http.Handler {
	logger := zap.NewNop()
	contacts := store.NewMemoryContactStore(
		domain.Contact{ID: 1, Name: "Alice Johnson"},
	)
	settings := service.NewSettingsService(store.NewMemoryPreferenceStore(), logger)
	notifications := service.NewNotificationService(store.NewMemoryNotificationStore(), logger)
	dealService := service.NewDealService(deals, contacts, settings, notifications, logger)
	h := handler.NewDealHandler(dealService, logger)

	r := chi.NewRouter()
	r.Route("/deals", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/pipeline", h.Pipeline)
		r.Patch("/{id}/stage", h.MoveStage)
	})
	return r
}

func TestDealHandler_MoveStage(t *testing.T) {
	seed := domain.Deal{ID: 1, Title: "Big contract", Value: 100, Stage: domain.DealStageLead, ContactID: 1}

	t.Run("move to a new stage", func(t *testing.T) {
		router := newDealRouter(store.NewMemoryDealStore(seed))

		req := httptest.NewRequest(http.MethodPatch, "/deals/1/stage", strings.NewReader(`{"stage":"Proposal"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Deal  domain.DealDTO `json:"deal"`
			Moved bool           `json:"moved"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Moved)
		assert.Equal(t, domain.DealStage("Proposal"), resp.Deal.Stage)
	})

	t.Run("same-stage move reports moved false", func(t *testing.T) {
		router := newDealRouter(store.NewMemoryDealStore(seed))

		req := httptest.NewRequest(http.MethodPatch, "/deals/1/stage", strings.NewReader(`{"stage":"Lead"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Moved bool `json:"moved"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Moved)
	})

	t.Run("missing stage fails struct validation", func(t *testing.T) {
		router := newDealRouter(store.NewMemoryDealStore(seed))

		req := httptest.NewRequest(http.MethodPatch, "/deals/1/stage", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown stage returns 400", func(t *testing.T) {
		router := newDealRouter(store.NewMemoryDealStore(seed))

		req := httptest.NewRequest(http.MethodPatch, "/deals/1/stage", strings.NewReader(`{"stage":"Nope"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDealHandler_Pipeline(t *testing.T) {
	router := newDealRouter(store.NewMemoryDealStore(
		domain.Deal{ID: 1, Title: "A", Value: 100, Stage: domain.DealStageLead, ContactID: 1},
		domain.Deal{ID: 2, Title: "B", Value: 50, Stage: domain.DealStageLead, ContactID: 1},
	))

	req := httptest.NewRequest(http.MethodGet, "/deals/pipeline", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var columns []domain.PipelineColumnDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &columns))
	require.Len(t, columns, len(domain.DefaultStageOrder))
	assert.Equal(t, 2, columns[0].Count)
	assert.Equal(t, 150.0, columns[0].TotalValue)
}

func TestDealHandler_Create(t *testing.T) {
	router := newDealRouter(store.NewMemoryDealStore())

	t.Run("zero value is rejected with only the value error", func(t *testing.T) {
		body := `{"title":"Deal","value":"0","contactId":"1","probability":"50"}`
		req := httptest.NewRequest(http.MethodPost, "/deals", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, "Deal value must be greater than 0", apiErr.Errors["value"])
		assert.Len(t, apiErr.Errors, 1)
	})
}
