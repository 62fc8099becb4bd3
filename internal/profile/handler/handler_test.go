package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascent/internal/platform/middleware"
	"ascent/internal/profile/models"
	"ascent/internal/profile/store/memory"
	"ascent/pkg/domain"
)

type stubValidator struct{ userID domain.UserID }

func (s stubValidator) Validate(string) (domain.UserID, error) { return s.userID, nil }

func newTestRouter(profiles Store, userID domain.UserID) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(stubValidator{userID: userID}, logger))
		New(profiles, logger).Register(r)
	})
	return r
}

func putProfile(t *testing.T, router http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleUpsert(t *testing.T) {
	userID := domain.UserID(uuid.New())

	t.Run("creates the profile", func(t *testing.T) {
		store := memory.New()
		router := newTestRouter(store, userID)

		rec := putProfile(t, router, map[string]any{
			"display_name": "Orbit Labs",
			"country":      "DE",
			"sector":       "fintech",
			"level":        3,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp profileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Orbit Labs", resp.DisplayName)
		assert.Equal(t, 3, resp.Level)
		assert.Equal(t, "Traction", resp.LevelName)

		saved, err := store.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseID(3), saved.Level)
		assert.Equal(t, "DE", saved.Country)
	})

	t.Run("update keeps the creation time", func(t *testing.T) {
		store := memory.New()
		router := newTestRouter(store, userID)

		require.Equal(t, http.StatusOK, putProfile(t, router, map[string]any{
			"display_name": "Orbit Labs",
			"level":        1,
		}).Code)
		first, err := store.Get(context.Background(), userID)
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, putProfile(t, router, map[string]any{
			"display_name": "Orbit Labs GmbH",
			"level":        2,
		}).Code)
		second, err := store.Get(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, first.CreatedAt, second.CreatedAt)
		assert.Equal(t, "Orbit Labs GmbH", second.DisplayName)
		assert.Equal(t, domain.PhaseID(2), second.Level)
	})

	t.Run("rejects a missing bearer token", func(t *testing.T) {
		router := newTestRouter(memory.New(), userID)
		req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an empty display name", func(t *testing.T) {
		router := newTestRouter(memory.New(), userID)
		rec := putProfile(t, router, map[string]any{"display_name": "  ", "level": 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an oversized field", func(t *testing.T) {
		router := newTestRouter(memory.New(), userID)
		rec := putProfile(t, router, map[string]any{
			"display_name": strings.Repeat("x", maxFieldLen+1),
			"level":        1,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an out of range level", func(t *testing.T) {
		router := newTestRouter(memory.New(), userID)
		rec := putProfile(t, router, map[string]any{
			"display_name": "Orbit Labs",
			"level":        int(domain.ApexPhase) + 1,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := newTestRouter(memory.New(), userID)
		req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("surfaces store failures as internal", func(t *testing.T) {
		router := newTestRouter(failingStore{}, userID)
		rec := putProfile(t, router, map[string]any{"display_name": "Orbit Labs", "level": 1})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleGet(t *testing.T) {
	userID := domain.UserID(uuid.New())

	t.Run("returns the saved profile", func(t *testing.T) {
		store := memory.New()
		router := newTestRouter(store, userID)
		require.Equal(t, http.StatusOK, putProfile(t, router, map[string]any{
			"display_name": "Orbit Labs",
			"country":      "DE",
			"level":        2,
		}).Code)

		req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp profileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Forge", resp.LevelName)
		assert.Equal(t, "DE", resp.Country)
	})

	t.Run("missing profile is not found", func(t *testing.T) {
		router := newTestRouter(memory.New(), userID)
		req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type failingStore struct{}

func (failingStore) Save(context.Context, models.Profile) error {
	return assert.AnError
}

func (failingStore) Get(context.Context, domain.UserID) (*models.Profile, error) {
	return nil, assert.AnError
}
