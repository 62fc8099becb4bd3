// Package handler exposes the participant profile: the display identity
// and level that drive currency display and leaderboard facets.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ascent/internal/platform/middleware"
	"ascent/internal/profile/models"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/httputil"
	"ascent/pkg/platform/sentinel"
)

// maxFieldLen bounds the free-text profile fields.
const maxFieldLen = 64

// Store is the profile persistence the handler needs.
type Store interface {
	Save(ctx context.Context, profile models.Profile) error
	Get(ctx context.Context, userID domain.UserID) (*models.Profile, error)
}

type Handler struct {
	logger   *slog.Logger
	profiles Store
	now      func() time.Time
}

func New(profiles Store, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, profiles: profiles, now: time.Now}
}

func (h *Handler) Register(r chi.Router) {
	r.Put("/profile", h.handleUpsert)
	r.Get("/profile", h.handleGet)
}

type upsertRequest struct {
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	Sector      string `json:"sector"`
	Level       int    `json:"level"`
}

type profileResponse struct {
	DisplayName string `json:"display_name"`
	Country     string `json:"country,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Level       int    `json:"level"`
	LevelName   string `json:"level_name"`
	CreatedAt   string `json:"created_at"`
}

func toProfileResponse(profile *models.Profile) profileResponse {
	return profileResponse{
		DisplayName: profile.DisplayName,
		Country:     profile.Country,
		Sector:      profile.Sector,
		Level:       int(profile.Level),
		LevelName:   profile.Level.Name(),
		CreatedAt:   profile.CreatedAt.Format(time.RFC3339),
	}
}

// handleUpsert creates or replaces the authenticated user's profile. The
// level set here is what flips their currency display past the entry
// phase and what the leaderboard's level facet matches against.
func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "display_name is required"))
		return
	}
	if len(req.DisplayName) > maxFieldLen || len(req.Country) > maxFieldLen || len(req.Sector) > maxFieldLen {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "profile field too long"))
		return
	}
	level, err := domain.ParsePhaseID(req.Level)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile := models.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Country:     strings.TrimSpace(req.Country),
		Sector:      strings.TrimSpace(req.Sector),
		Level:       level,
		CreatedAt:   h.now().UTC(),
	}
	// An update keeps the original creation time.
	existing, err := h.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		h.logger.ErrorContext(ctx, "failed to load profile",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to save profile"))
		return
	}

	if err := h.profiles.Save(ctx, profile); err != nil {
		h.logger.ErrorContext(ctx, "failed to save profile",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to save profile"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(&profile))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "profile not set"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to load profile",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load profile"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}
