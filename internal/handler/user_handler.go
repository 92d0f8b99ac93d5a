package handler

import (
	"net/http"

	"velan-store/internal/middleware"
	"velan-store/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles the admin account surface.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/users (admin).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"users": users}))
}

// GetByID handles GET /api/users/{id} (admin).
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"user": user}))
}

// Delete handles DELETE /api/users/{id} (admin).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid user ID")
		return
	}

	actor := middleware.UserFrom(r.Context())
	if err := h.service.Delete(r.Context(), actor.ID, id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"message": "User deleted successfully",
	}))
}
