package service

import (
	"context"

	"velan-store/internal/model"
	"velan-store/internal/payment"

	"github.com/google/uuid"
)

// AuthService defines account registration and login.
type AuthService interface {
	// Register creates an account and returns a signed token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and returns a signed token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
}

// UserService defines the admin account surface.
type UserService interface {
	// GetByID retrieves a user profile.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// List retrieves all users.
	List(ctx context.Context) ([]model.User, error)

	// Delete removes a user. Admins cannot delete themselves.
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves one page of the catalogue matching the filter.
	List(ctx context.Context, filter *model.ProductFilter) (*model.ProductPage, error)

	// Get retrieves a product with its recent reviews, bumping the view
	// counter.
	Get(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, input *model.ProductInput) (*model.Product, error)

	// Update overwrites a product's fields.
	Update(ctx context.Context, id uuid.UUID, input *model.ProductInput) (*model.Product, error)

	// Delete removes a product and its reviews.
	Delete(ctx context.Context, id uuid.UUID) error

	// Brands lists the distinct catalogue brands.
	Brands(ctx context.Context) ([]string, error)

	// Featured lists the featured rail.
	Featured(ctx context.Context) ([]model.Product, error)

	// Trending lists the trending rail.
	Trending(ctx context.Context) ([]model.Product, error)

	// NewArrivals lists the newest products rail.
	NewArrivals(ctx context.Context) ([]model.Product, error)

	// BestSellers lists products ranked by quantity sold.
	BestSellers(ctx context.Context) ([]model.Product, error)

	// Related lists products sharing the given product's category or brand.
	Related(ctx context.Context, id uuid.UUID) ([]model.Product, error)

	// Stats aggregates the admin catalogue statistics.
	Stats(ctx context.Context) (*model.ProductStats, error)
}

// OrderService defines checkout, payment verification and order management.
type OrderService interface {
	// Create places an order, validating stock and the client-supplied
	// totals inside a single transaction.
	Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error)

	// CreateProviderOrder asks the payment provider for a gateway order.
	CreateProviderOrder(ctx context.Context, amount float64) (*payment.ProviderOrder, error)

	// VerifyAndCreate checks the gateway signature and, on success, places
	// the order with its payment marked as captured.
	VerifyAndCreate(ctx context.Context, userID uuid.UUID, req *model.VerifyPaymentRequest) (*model.Order, error)

	// Get retrieves an order visible to the actor (owner or admin).
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves the actor's own orders.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// ListAll retrieves every order plus the aggregate total.
	ListAll(ctx context.Context) (*model.AdminOrderList, error)

	// UpdateStatus moves an order through the status graph.
	UpdateStatus(ctx context.Context, id uuid.UUID, req *model.OrderStatusRequest) (*model.Order, error)

	// Dashboard assembles the admin dashboard statistics.
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

// ReviewService defines review management and rating aggregation.
type ReviewService interface {
	// Create adds a review and recomputes the product rating.
	Create(ctx context.Context, user *model.User, req *model.ReviewRequest) (*model.Review, error)

	// ListByProduct retrieves one page of a product's reviews.
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) (*model.ReviewPage, error)

	// ListByUser retrieves the actor's own reviews.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error)

	// Update edits a review and recomputes the product rating.
	Update(ctx context.Context, actor *model.User, id uuid.UUID, req *model.ReviewRequest) (*model.Review, error)

	// Delete removes a review and recomputes the product rating.
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error

	// ToggleHelpful flips the actor's helpful vote on a review.
	ToggleHelpful(ctx context.Context, userID, reviewID uuid.UUID) (*model.HelpfulResponse, error)

	// Stats returns the rating distribution for a product.
	Stats(ctx context.Context, productID uuid.UUID) (*model.ReviewStats, error)
}

// DesignService defines the custom design project workflow.
type DesignService interface {
	// Create opens a design project in Draft (or Submitted) status.
	Create(ctx context.Context, userID uuid.UUID, input *model.DesignInput) (*model.Design, error)

	// Get retrieves a design visible to the actor (owner or admin).
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Design, error)

	// ListByUser retrieves the actor's own designs.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Design, error)

	// ListAll retrieves designs matching the admin filter.
	ListAll(ctx context.Context, filter *model.DesignFilter) ([]model.Design, error)

	// Update edits a design, optionally logging a revision. Status changes
	// are validated against the workflow graph.
	Update(ctx context.Context, actor *model.User, id uuid.UUID, input *model.DesignInput) (*model.Design, error)

	// Delete removes a design (owner or admin).
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error

	// AddNote appends a note to a design.
	AddNote(ctx context.Context, actor *model.User, id uuid.UUID, message string) (*model.Design, error)

	// UpdateStatus moves a design through the workflow (admin).
	UpdateStatus(ctx context.Context, id uuid.UUID, update *model.DesignStatusUpdate) (*model.Design, error)
}

// WishlistService defines wishlist management.
type WishlistService interface {
	// Get retrieves the user's wishlist, creating an empty one on first use.
	Get(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error)

	// Add saves a product to the wishlist.
	Add(ctx context.Context, userID, productID uuid.UUID) (*model.Wishlist, error)

	// Remove drops a product from the wishlist.
	Remove(ctx context.Context, userID, productID uuid.UUID) (*model.Wishlist, error)

	// Clear empties the wishlist.
	Clear(ctx context.Context, userID uuid.UUID) error

	// Check reports whether the product is on the wishlist.
	Check(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// MoveToCart returns the in-stock subset of the wishlist for the client
	// to add to its cart.
	MoveToCart(ctx context.Context, userID uuid.UUID) ([]model.Product, error)
}
