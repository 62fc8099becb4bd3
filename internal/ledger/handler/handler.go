// Package handler exposes the balance and display-currency reads.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ascent/internal/ledger/models"
	"ascent/internal/platform/middleware"
	profilemodels "ascent/internal/profile/models"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/httputil"
	"ascent/pkg/platform/sentinel"
)

// Service defines the ledger reads the handler needs.
type Service interface {
	TotalGleams(ctx context.Context, userID domain.UserID) (int64, error)
	DisplayCurrency(ctx context.Context, userID domain.UserID, currentLevel domain.PhaseID) (models.DisplayAmount, error)
}

// Profiles resolves the user's current level; missing profiles fall back
// to the entry level.
type Profiles interface {
	Get(ctx context.Context, userID domain.UserID) (*profilemodels.Profile, error)
}

type Handler struct {
	logger   *slog.Logger
	ledger   Service
	profiles Profiles
}

func New(ledger Service, profiles Profiles, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, ledger: ledger, profiles: profiles}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/currency", h.handleCurrency)
}

type currencyResponse struct {
	TotalGleams int64                `json:"total_gleams"`
	Alicorns    float64              `json:"alicorns"`
	Level       int                  `json:"level"`
	LevelName   string               `json:"level_name"`
	Display     models.DisplayAmount `json:"display"`
}

func (h *Handler) handleCurrency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	// No profile yet means the user never left the entry level; any other
	// store failure is an infrastructure error, not a Gleams display.
	level := domain.EntryPhase
	profile, err := h.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		level = profile.Level
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		h.logger.ErrorContext(ctx, "failed to load profile",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load balance"))
		return
	}

	total, err := h.ledger.TotalGleams(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load balance",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load balance"))
		return
	}
	display, err := h.ledger.DisplayCurrency(ctx, userID, level)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load balance"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, currencyResponse{
		TotalGleams: total,
		Alicorns:    models.AlicornsFromGleams(total),
		Level:       int(level),
		LevelName:   level.Name(),
		Display:     display,
	})
}
