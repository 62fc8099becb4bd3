package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascent/internal/ledger/models"
	ledgerservice "ascent/internal/ledger/service"
	ledgermem "ascent/internal/ledger/store/memory"
	"ascent/internal/platform/middleware"
	profilemodels "ascent/internal/profile/models"
	profilemem "ascent/internal/profile/store/memory"
	"ascent/pkg/domain"
)

type stubValidator struct{ userID domain.UserID }

func (s stubValidator) Validate(string) (domain.UserID, error) { return s.userID, nil }

func newTestRouter(t *testing.T, profiles Profiles, userID domain.UserID) (http.Handler, *ledgerservice.Service) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	svc, err := ledgerservice.New(ledgermem.New())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(stubValidator{userID: userID}, logger))
		New(svc, profiles, logger).Register(r)
	})
	return r, svc
}

func getCurrency(router http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/currency", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCurrency(t *testing.T) {
	ctx := context.Background()
	userID := domain.UserID(uuid.New())

	t.Run("missing profile shows gleams at the entry level", func(t *testing.T) {
		router, svc := newTestRouter(t, profilemem.New(), userID)
		require.NoError(t, svc.RecordSession(ctx, domain.SessionID(uuid.New()), userID, 1, 250))

		rec := getCurrency(router)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp currencyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(250), resp.TotalGleams)
		assert.Equal(t, 0, resp.Level)
		assert.Equal(t, models.SymbolGleam, resp.Display.Symbol)
		assert.Equal(t, float64(250), resp.Display.Amount)
	})

	t.Run("profile past the entry level shows alicorns", func(t *testing.T) {
		profiles := profilemem.New()
		require.NoError(t, profiles.Save(ctx, profilemodels.Profile{
			UserID:      userID,
			DisplayName: "Orbit Labs",
			Level:       3,
		}))
		router, svc := newTestRouter(t, profiles, userID)
		require.NoError(t, svc.RecordSession(ctx, domain.SessionID(uuid.New()), userID, 3, 250))

		rec := getCurrency(router)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp currencyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Level)
		assert.Equal(t, "Traction", resp.LevelName)
		assert.Equal(t, models.SymbolAlicorn, resp.Display.Symbol)
		assert.Equal(t, 2.5, resp.Display.Amount)
	})

	t.Run("profile store failure is an internal error, not an entry-level display", func(t *testing.T) {
		router, _ := newTestRouter(t, failingProfiles{}, userID)
		rec := getCurrency(router)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("rejects a missing bearer token", func(t *testing.T) {
		router, _ := newTestRouter(t, profilemem.New(), userID)
		req := httptest.NewRequest(http.MethodGet, "/v1/currency", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

type failingProfiles struct{}

func (failingProfiles) Get(context.Context, domain.UserID) (*profilemodels.Profile, error) {
	return nil, assert.AnError
}
