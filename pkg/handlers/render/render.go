package render

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/rs/zerolog"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}

// Error writes {"error": message} with optional details.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, details ...string) {
	JSON(w, r, status, api.ErrorResponse{Error: message, Details: details})
}

// InternalError logs err and answers 500 without leaking it.
func InternalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	Error(w, r, http.StatusInternalServerError, "internal server error")
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
