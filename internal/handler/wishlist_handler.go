package handler

import (
	"net/http"

	"velan-store/internal/middleware"
	"velan-store/internal/service"

	"github.com/rs/zerolog"
)

// WishlistHandler handles wishlist HTTP requests.
type WishlistHandler struct {
	service service.WishlistService
	logger  zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(service service.WishlistService, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: service,
		logger:  logger.With().Str("handler", "wishlist").Logger(),
	}
}

// Get handles GET /api/wishlist.
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	wishlist, err := h.service.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"wishlist": wishlist}))
}

// Add handles POST /api/wishlist/{productID}.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	user := middleware.UserFrom(r.Context())
	wishlist, err := h.service.Add(r.Context(), user.ID, productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"wishlist": wishlist}))
}

// Remove handles DELETE /api/wishlist/{productID}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	user := middleware.UserFrom(r.Context())
	wishlist, err := h.service.Remove(r.Context(), user.ID, productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"wishlist": wishlist}))
}

// Clear handles DELETE /api/wishlist.
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	if err := h.service.Clear(r.Context(), user.ID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"message": "Wishlist cleared",
	}))
}

// Check handles GET /api/wishlist/check/{productID}.
func (h *WishlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	user := middleware.UserFrom(r.Context())
	inWishlist, err := h.service.Check(r.Context(), user.ID, productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"inWishlist": inWishlist}))
}

// MoveToCart handles POST /api/wishlist/move-to-cart.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	products, err := h.service.MoveToCart(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"products": products}))
}
