// Package handler exposes assessment submission over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	catalogmodels "ascent/internal/catalog/models"
	"ascent/internal/platform/middleware"
	"ascent/internal/scoring/models"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/httputil"
)

// Service defines the scoring operations the handler needs.
type Service interface {
	Submit(ctx context.Context, sessionID domain.SessionID, userID domain.UserID, phase domain.PhaseID, answers domain.AnswerSet) (*models.AssessmentResult, error)
	Questions(ctx context.Context, phase domain.PhaseID) ([]catalogmodels.Question, error)
}

type Handler struct {
	logger  *slog.Logger
	scoring Service
}

func New(scoring Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, scoring: scoring}
}

// Register mounts the assessment routes. Auth and the common middleware
// chain are applied by the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/assessments", h.handleSubmit)
	r.Get("/phases/{phase}/questions", h.handleQuestions)
}

type submitRequest struct {
	SessionID string         `json:"session_id"`
	PhaseID   int            `json:"phase_id"`
	Answers   map[string]int `json:"answers"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "user id missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid assessment request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sessionID, err := domain.ParseSessionID(req.SessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	phase, err := domain.ParsePhaseID(req.PhaseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	answers := make(domain.AnswerSet, len(req.Answers))
	for rawID, rawRating := range req.Answers {
		questionID, err := domain.ParseQuestionID(rawID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		rating, err := domain.ParseRating(rawRating)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		answers[questionID] = rating
	}

	result, err := h.scoring.Submit(ctx, sessionID, userID, phase, answers)
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeValidation),
			dErrors.HasCode(err, dErrors.CodeInvalidInput),
			dErrors.HasCode(err, dErrors.CodeBadRequest):
			h.logger.WarnContext(ctx, "assessment rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to score assessment",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to score assessment"))
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

type questionResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Scope    string `json:"scope"`
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, err := strconv.Atoi(chi.URLParam(r, "phase"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "phase must be an integer"))
		return
	}
	phase, err := domain.ParsePhaseID(raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	questions, err := h.scoring.Questions(ctx, phase)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionResponse{
			ID:       q.ID.String(),
			Code:     q.Code,
			Text:     q.Text,
			Category: q.Category.String(),
			Scope:    string(q.Scope),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"questions": out})
}
