package handler

import (
	"net/http"
	"strconv"

	"velan-store/internal/middleware"
	"velan-store/internal/model"
	"velan-store/internal/service"

	"github.com/rs/zerolog"
)

// ReviewHandler handles review HTTP requests.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req model.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	review, err := h.service.Create(r.Context(), user, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, envelope(map[string]interface{}{"review": review}))
}

// ListByProduct handles GET /api/reviews/product/{productID}.
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.service.ListByProduct(r.Context(), productID, page, limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"reviews":     result.Reviews,
		"total":       result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	}))
}

// MyReviews handles GET /api/reviews/my-reviews.
func (h *ReviewHandler) MyReviews(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	reviews, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"reviews": reviews}))
}

// Update handles PUT /api/reviews/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid review ID")
		return
	}

	var req model.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	review, err := h.service.Update(r.Context(), middleware.UserFrom(r.Context()), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"review": review}))
}

// Delete handles DELETE /api/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid review ID")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"message": "Review deleted successfully",
	}))
}

// Helpful handles POST /api/reviews/{id}/helpful.
func (h *ReviewHandler) Helpful(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid review ID")
		return
	}

	user := middleware.UserFrom(r.Context())
	result, err := h.service.ToggleHelpful(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"helpful": result.Helpful,
		"marked":  result.Marked,
	}))
}

// Stats handles GET /api/reviews/stats/{productID}.
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	stats, err := h.service.Stats(r.Context(), productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"stats": stats}))
}
