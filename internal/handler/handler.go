package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// envelope builds the standard success payload.
func envelope(fields map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	return body
}

// statusFromError maps a business error to its HTTP status.
func statusFromError(err error) int {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound,
		model.ErrCodeReviewNotFound, model.ErrCodeDesignNotFound,
		model.ErrCodeUserNotFound, model.ErrCodeWishlistNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeServiceError renders a business error, hiding internal causes behind
// a generic message.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("internal error")
		message = "Internal server error: " + err.Error()
	}
	writeJSON(w, status, model.ErrorResponse{Success: false, Message: message})
}

// writeBadRequest renders a 400 with the given message.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Success: false, Message: message})
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pathUUID parses the named path segment as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}
