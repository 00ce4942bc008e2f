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

func newContactRouter(contacts *store.MemoryContactStore) http.Handler {
	logger := zap.NewNop()
	deals := store.NewMemoryDealStore()
	activities := store.NewMemoryActivityStore()

	contactService := service.NewContactService(contacts, deals, logger)
	activityService := service.NewActivityService(activities, contacts, deals, logger)
	h := handler.NewContactHandler(contactService, activityService, logger)

	r := chi.NewRouter()
	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/tags", h.Tags)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestContactHandler_Create(t *testing.T) {
	t.Run("valid draft returns 201 with the new record", func(t *testing.T) {
		router := newContactRouter(store.NewMemoryContactStore())

		body := `{"name":"Dana Lee","email":"dana@initech.com","tags":"vip, partner"}`
		req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var dto domain.ContactDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, 1, dto.ID)
		assert.Equal(t, "Dana Lee", dto.Name)
		assert.Equal(t, []string{"vip", "partner"}, dto.Tags)
	})

	t.Run("invalid draft returns 400 with a field error map", func(t *testing.T) {
		router := newContactRouter(store.NewMemoryContactStore())

		body := `{"name":"","email":"bad"}`
		req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Equal(t, "Name is required", apiErr.Errors["name"])
		assert.Equal(t, "Please enter a valid email address", apiErr.Errors["email"])
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		router := newContactRouter(store.NewMemoryContactStore())

		req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContactHandler_Get(t *testing.T) {
	contacts := store.NewMemoryContactStore(domain.Contact{ID: 1, Name: "Alice"})
	router := newContactRouter(contacts)

	t.Run("existing contact", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing contact returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/42", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContactHandler_Tags(t *testing.T) {
	contacts := store.NewMemoryContactStore(
		domain.Contact{ID: 1, Name: "Alice", Tags: []string{"vip"}},
		domain.Contact{ID: 2, Name: "Bob", Tags: []string{"lead", "vip"}},
	)
	router := newContactRouter(contacts)

	req := httptest.NewRequest(http.MethodGet, "/contacts/tags", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var tags []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tags))
	assert.Equal(t, []string{"all", "vip", "lead"}, tags)
}
