// Package httputil centralizes JSON response writing so every handler
// produces the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "ascent/pkg/domain-errors"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the standard error envelope.
// Internal errors omit the description so store/query details never leak
// to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeInvariantViolation {
		var de *dErrors.Error
		if ok := asDomainError(err, &de); ok {
			body["error_description"] = de.Message
		}
	}
	WriteJSON(w, status, body)
}

func asDomainError(err error, target **dErrors.Error) bool {
	for err != nil {
		if de, ok := err.(*dErrors.Error); ok {
			*target = de
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
