// Package handler exposes referral claims over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ascent/internal/platform/middleware"
	"ascent/internal/referral/models"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/httputil"
)

// Service defines the referral operations the handler needs.
type Service interface {
	Grant(ctx context.Context, refereeID, referrerID domain.UserID) (*models.Grant, error)
	ByReferee(ctx context.Context, refereeID domain.UserID) (*models.Grant, error)
}

type Handler struct {
	logger    *slog.Logger
	referrals Service
}

func New(referrals Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, referrals: referrals}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/referrals", h.handleClaim)
	r.Get("/referrals/me", h.handleMine)
}

type claimRequest struct {
	ReferrerID string `json:"referrer_id"`
}

type grantResponse struct {
	RefereeID      string `json:"referee_id"`
	ReferrerID     string `json:"referrer_id"`
	RefereeGleams  int64  `json:"referee_gleams"`
	ReferrerGleams int64  `json:"referrer_gleams"`
	CreatedAt      string `json:"created_at"`
}

func toGrantResponse(grant *models.Grant) grantResponse {
	return grantResponse{
		RefereeID:      grant.RefereeID.String(),
		ReferrerID:     grant.ReferrerID.String(),
		RefereeGleams:  grant.RefereeGleams,
		ReferrerGleams: grant.ReferrerGleams,
		CreatedAt:      grant.CreatedAt.Format(time.RFC3339),
	}
}

// handleClaim applies a referral code: the authenticated user is the
// referee.
func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	refereeID := middleware.GetUserID(ctx)
	if refereeID.IsNil() {
		h.logger.ErrorContext(ctx, "user id missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	referrerID, err := domain.ParseUserID(req.ReferrerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.referrals.Grant(ctx, refereeID, referrerID)
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeBadRequest),
			dErrors.HasCode(err, dErrors.CodeValidation),
			dErrors.HasCode(err, dErrors.CodeConflict):
			h.logger.WarnContext(ctx, "referral claim rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to apply referral",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to apply referral"))
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toGrantResponse(grant))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	grant, err := h.referrals.ByReferee(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load referral",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load referral"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrantResponse(grant))
}
