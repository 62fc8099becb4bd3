// Package handler exposes account deletion over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ascent/internal/platform/middleware"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/httputil"
)

type Service interface {
	Delete(ctx context.Context, userID domain.UserID) error
}

type Handler struct {
	logger  *slog.Logger
	account Service
}

func New(account Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, account: account}
}

func (h *Handler) Register(r chi.Router) {
	r.Delete("/me", h.handleDelete)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	if err := h.account.Delete(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete account",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to delete account"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
