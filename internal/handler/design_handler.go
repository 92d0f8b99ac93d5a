package handler

import (
	"net/http"

	"velan-store/internal/middleware"
	"velan-store/internal/model"
	"velan-store/internal/service"

	"github.com/rs/zerolog"
)

// DesignHandler handles custom design project HTTP requests.
type DesignHandler struct {
	service service.DesignService
	logger  zerolog.Logger
}

// NewDesignHandler creates a new design handler.
func NewDesignHandler(service service.DesignService, logger zerolog.Logger) *DesignHandler {
	return &DesignHandler{
		service: service,
		logger:  logger.With().Str("handler", "design").Logger(),
	}
}

// Create handles POST /api/designs.
func (h *DesignHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var input model.DesignInput
	if err := decodeJSON(r, &input); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	design, err := h.service.Create(r.Context(), user.ID, &input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, envelope(map[string]interface{}{"design": design}))
}

// ListMine handles GET /api/designs.
func (h *DesignHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	designs, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"designs": designs}))
}

// GetByID handles GET /api/designs/{id} (owner or admin).
func (h *DesignHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid design ID")
		return
	}

	design, err := h.service.Get(r.Context(), middleware.UserFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"design": design}))
}

// Update handles PUT /api/designs/{id} (owner or admin).
func (h *DesignHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid design ID")
		return
	}

	var input model.DesignInput
	if err := decodeJSON(r, &input); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	design, err := h.service.Update(r.Context(), middleware.UserFrom(r.Context()), id, &input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"design": design}))
}

// Delete handles DELETE /api/designs/{id} (owner or admin).
func (h *DesignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid design ID")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"message": "Design deleted successfully",
	}))
}

// AddNote handles POST /api/designs/{id}/notes.
func (h *DesignHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid design ID")
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	design, err := h.service.AddNote(r.Context(), middleware.UserFrom(r.Context()), id, body.Message)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"design": design}))
}

// AdminList handles GET /api/designs/admin/all (admin).
func (h *DesignHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &model.DesignFilter{
		Status:      q.Get("status"),
		ProjectType: q.Get("projectType"),
		Category:    q.Get("category"),
	}

	designs, err := h.service.ListAll(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"designs": designs}))
}

// AdminStatus handles PUT /api/designs/admin/{id}/status (admin).
func (h *DesignHandler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid design ID")
		return
	}

	var update model.DesignStatusUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	design, err := h.service.UpdateStatus(r.Context(), id, &update)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"design": design}))
}
