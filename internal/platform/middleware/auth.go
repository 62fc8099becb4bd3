package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/httputil"
)

// JWTValidator verifies a bearer token and returns the subject user ID.
// Identity itself belongs to the excluded identity collaborator; the
// engine only consumes its signed session context.
type JWTValidator interface {
	Validate(tokenString string) (domain.UserID, error)
}

// HS256Validator validates tokens signed with a shared secret.
type HS256Validator struct {
	key []byte
}

func NewHS256Validator(signingKey string) *HS256Validator {
	return &HS256Validator{key: []byte(signingKey)}
}

func (v *HS256Validator) Validate(tokenString string) (domain.UserID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return domain.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "token missing subject")
	}
	userID, err := domain.ParseUserID(subject)
	if err != nil {
		return domain.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "token subject is not a user id")
	}
	return userID, nil
}

// RequireAuth rejects requests without a valid bearer token and stores
// the authenticated user ID in context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			userID, err := validator.Validate(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "auth rejected",
					"request_id", GetRequestID(r.Context()),
					"error", err.Error(),
				)
				httputil.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user from context; nil UUID when
// the route skipped RequireAuth.
func GetUserID(ctx context.Context) domain.UserID {
	id, _ := ctx.Value(userIDKey).(domain.UserID)
	return id
}
