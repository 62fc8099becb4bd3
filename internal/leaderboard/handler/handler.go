// Package handler serves the ranked leaderboard.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ascent/internal/leaderboard/models"
	"ascent/internal/platform/middleware"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/httputil"
)

// DefaultLimit caps an unbounded page request.
const DefaultLimit = 50

// Service defines the leaderboard reads the handler needs.
type Service interface {
	Rank(ctx context.Context, filter models.Filter) ([]models.Row, error)
	Position(ctx context.Context, userID domain.UserID) (*models.Row, error)
}

type Handler struct {
	logger *slog.Logger
	board  Service
}

func New(board Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, board: board}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/leaderboard", h.handleList)
	r.Get("/leaderboard/me", h.handleMe)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := models.Filter{
		Country: r.URL.Query().Get("country"),
		Sector:  r.URL.Query().Get("sector"),
		Limit:   DefaultLimit,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		if limit < filter.Limit {
			filter.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("level"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "level must be an integer"))
			return
		}
		level, err := domain.ParsePhaseID(v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Level = &level
	}

	rows, err := h.board.Rank(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read leaderboard",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to read leaderboard"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	row, err := h.board.Position(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to read leaderboard position",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to read leaderboard"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, row)
}
