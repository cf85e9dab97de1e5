// Package httpx holds the JSON request and response helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ierr "go-firestore-portfolio/internal/errors"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type IdResponse struct {
	Id string `json:"id"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	// headers are already sent, all that is left is to log
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// WriteError maps err to a status code. Messages of unknown errors never reach the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind, message := classify(err)

	resp := ErrorResponse{Error: kind, Message: message}
	var appErr *ierr.Error
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Field = appErr.Field
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	WriteJSON(w, status, resp)
}

func classify(err error) (status int, kind, message string) {
	switch {
	case errors.Is(err, ierr.Validation):
		return http.StatusBadRequest, "validation_error", "invalid request"
	case errors.Is(err, ierr.Unauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "valid authentication required"
	case errors.Is(err, ierr.PermissionDenied):
		return http.StatusForbidden, "forbidden", "permission denied"
	case errors.Is(err, ierr.NotFound):
		return http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, ierr.Conflict):
		return http.StatusConflict, "conflict", "the resource was changed concurrently"
	case errors.Is(err, ierr.Unavailable):
		return http.StatusServiceUnavailable, "unavailable", "the datastore is unavailable, try again later"
	}
	return http.StatusInternalServerError, "internal_error", "an internal error occurred"
}

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ierr.Invalid("body", fmt.Sprintf("invalid JSON body: %s", err))
	}
	return nil
}
