package handler

import (
	"net/http"
	"strconv"
	"strings"

	"velan-store/internal/model"
	"velan-store/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// parseProductFilter reads the optional catalogue query parameters.
func parseProductFilter(r *http.Request) *model.ProductFilter {
	q := r.URL.Query()
	filter := &model.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Featured: q.Get("featured") == "true",
		InStock:  q.Get("inStock") == "true",
		Discount: q.Get("discount") == "true",
		Season:   q.Get("season"),
		Occasion: q.Get("occasion"),
		Sort:     q.Get("sort"),
		Page:     1,
		Limit:    12,
	}

	if brands := q.Get("brand"); brands != "" {
		filter.Brands = strings.Split(brands, ",")
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("rating"), 64); err == nil {
		filter.Rating = &v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}

	return filter
}

// GetAll handles GET /api/products.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), parseProductFilter(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"products":    page.Products,
		"total":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	}))
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"product": detail.Product,
		"reviews": detail.Reviews,
	}))
}

// Create handles POST /api/products (admin).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	product, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, envelope(map[string]interface{}{"product": product}))
}

// Update handles PUT /api/products/{id} (admin).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	var input model.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	product, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"product": product}))
}

// Delete handles DELETE /api/products/{id} (admin).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"message": "Product deleted successfully",
	}))
}

// Brands handles GET /api/products/brands/all.
func (h *ProductHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.Brands(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if brands == nil {
		brands = []string{}
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"brands": brands}))
}

func (h *ProductHandler) writeRail(w http.ResponseWriter, products []model.Product, err error) {
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"products": products}))
}

// Featured handles GET /api/products/featured/all.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Featured(r.Context())
	h.writeRail(w, products, err)
}

// Trending handles GET /api/products/trending/all.
func (h *ProductHandler) Trending(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Trending(r.Context())
	h.writeRail(w, products, err)
}

// NewArrivals handles GET /api/products/new-arrivals/all.
func (h *ProductHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.NewArrivals(r.Context())
	h.writeRail(w, products, err)
}

// BestSellers handles GET /api/products/best-sellers/all.
func (h *ProductHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.BestSellers(r.Context())
	h.writeRail(w, products, err)
}

// Related handles GET /api/products/{id}/related.
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return
	}

	products, err := h.service.Related(r.Context(), id)
	h.writeRail(w, products, err)
}

// Stats handles GET /api/products/stats/all (admin).
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"stats": stats}))
}
