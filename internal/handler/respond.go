// Package handler is the HTTP/WS surface of a game server: auth and
// game endpoints, operator endpoints behind the shared key, the
// websocket subscriber pump, and the middleware chain.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clawhouse/platform/internal/domain"
)

// ErrorEnvelope is the wire form of every error response.
type ErrorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError renders the error envelope. Anything that is not an
// AppError becomes a generic 500 so internal error text never leaks.
func RespondError(w http.ResponseWriter, err error) {
	appErr := domain.AsAppError(err)
	if appErr.Status >= 500 && appErr.Code == "internal_error" {
		RespondJSON(w, appErr.Status, ErrorEnvelope{Error: "internal server error", Code: appErr.Code})
		return
	}
	RespondJSON(w, appErr.Status, ErrorEnvelope{Error: appErr.Message, Code: appErr.Code})
}

// DecodeJSON reads and decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body")
	}
	return nil
}
