package router

import (
	"net/http"

	"velan-store/internal/auth"
	"velan-store/internal/handler"
	"velan-store/internal/middleware"
	"velan-store/internal/repository"

	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Review   *handler.ReviewHandler
	Wishlist *handler.WishlistHandler
	Design   *handler.DesignHandler
	User     *handler.UserHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	tokens *auth.Manager,
	users repository.UserRepository,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(tokens, users, logger)
	requireAdmin := func(next http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireAdmin(logger)(next))
	}
	authed := func(next http.HandlerFunc) http.Handler {
		return requireAuth(next)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.Handle("GET /api/auth/me", authed(h.Auth.Me))

	// Catalogue. Literal segments win over the {id} wildcard, so the rail
	// routes stay reachable.
	mux.HandleFunc("GET /api/products", h.Product.GetAll)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/products/brands/all", h.Product.Brands)
	mux.HandleFunc("GET /api/products/featured/all", h.Product.Featured)
	mux.HandleFunc("GET /api/products/trending/all", h.Product.Trending)
	mux.HandleFunc("GET /api/products/new-arrivals/all", h.Product.NewArrivals)
	mux.HandleFunc("GET /api/products/best-sellers/all", h.Product.BestSellers)
	mux.HandleFunc("GET /api/products/{id}/related", h.Product.Related)
	mux.Handle("GET /api/products/stats/all", requireAdmin(h.Product.Stats))
	mux.Handle("POST /api/products", requireAdmin(h.Product.Create))
	mux.Handle("PUT /api/products/{id}", requireAdmin(h.Product.Update))
	mux.Handle("DELETE /api/products/{id}", requireAdmin(h.Product.Delete))

	// Orders
	mux.Handle("POST /api/orders", authed(h.Order.Create))
	mux.Handle("POST /api/orders/create-razorpay-order", authed(h.Order.CreateProviderOrder))
	mux.Handle("POST /api/orders/verify-payment", authed(h.Order.VerifyPayment))
	mux.Handle("GET /api/orders/myorders", authed(h.Order.MyOrders))
	mux.Handle("GET /api/orders", requireAdmin(h.Order.GetAll))
	mux.Handle("GET /api/orders/stats/dashboard", requireAdmin(h.Order.Dashboard))
	mux.Handle("GET /api/orders/{id}", authed(h.Order.GetByID))
	mux.Handle("PUT /api/orders/{id}", requireAdmin(h.Order.UpdateStatus))

	// Reviews
	mux.HandleFunc("GET /api/reviews/product/{productID}", h.Review.ListByProduct)
	mux.HandleFunc("GET /api/reviews/stats/{productID}", h.Review.Stats)
	mux.Handle("GET /api/reviews/my-reviews", authed(h.Review.MyReviews))
	mux.Handle("POST /api/reviews", authed(h.Review.Create))
	mux.Handle("PUT /api/reviews/{id}", authed(h.Review.Update))
	mux.Handle("DELETE /api/reviews/{id}", authed(h.Review.Delete))
	mux.Handle("POST /api/reviews/{id}/helpful", authed(h.Review.Helpful))

	// Wishlist
	mux.Handle("GET /api/wishlist", authed(h.Wishlist.Get))
	mux.Handle("DELETE /api/wishlist", authed(h.Wishlist.Clear))
	mux.Handle("POST /api/wishlist/move-to-cart", authed(h.Wishlist.MoveToCart))
	mux.Handle("GET /api/wishlist/check/{productID}", authed(h.Wishlist.Check))
	mux.Handle("POST /api/wishlist/{productID}", authed(h.Wishlist.Add))
	mux.Handle("DELETE /api/wishlist/{productID}", authed(h.Wishlist.Remove))

	// Designs
	mux.Handle("POST /api/designs", authed(h.Design.Create))
	mux.Handle("GET /api/designs", authed(h.Design.ListMine))
	mux.Handle("GET /api/designs/admin/all", requireAdmin(h.Design.AdminList))
	mux.Handle("PUT /api/designs/admin/{id}/status", requireAdmin(h.Design.AdminStatus))
	mux.Handle("GET /api/designs/{id}", authed(h.Design.GetByID))
	mux.Handle("PUT /api/designs/{id}", authed(h.Design.Update))
	mux.Handle("DELETE /api/designs/{id}", authed(h.Design.Delete))
	mux.Handle("POST /api/designs/{id}/notes", authed(h.Design.AddNote))

	// Users (admin)
	mux.Handle("GET /api/users", requireAdmin(h.User.List))
	mux.Handle("GET /api/users/{id}", requireAdmin(h.User.GetByID))
	mux.Handle("DELETE /api/users/{id}", requireAdmin(h.User.Delete))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
