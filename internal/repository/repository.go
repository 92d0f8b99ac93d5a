package repository

import (
	"context"
	"time"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// List retrieves one page of products matching the filter, along with
	// the total number of matches for the whole filter set.
	List(ctx context.Context, filter *model.ProductFilter) ([]model.Product, int, error)

	// GetByID retrieves a single product, or nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update overwrites a product's mutable fields.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes a product and its reviews.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViews bumps the product's view counter.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// DecrementStock conditionally subtracts quantity from stock within the
	// provided transaction. It reports false when the product had
	// insufficient stock, leaving the row untouched.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error)

	// RecomputeRating resets the product's derived rating/numReviews fields
	// from the current review aggregate.
	RecomputeRating(ctx context.Context, id uuid.UUID) error

	// AdjustWishlistCount shifts the denormalized wishlist counter, never
	// dropping below zero.
	AdjustWishlistCount(ctx context.Context, id uuid.UUID, delta int) error

	// Brands lists the distinct brands in the catalogue.
	Brands(ctx context.Context) ([]string, error)

	// Featured lists featured products by rating.
	Featured(ctx context.Context, limit int) ([]model.Product, error)

	// Trending lists products by views then wishlist count.
	Trending(ctx context.Context, limit int) ([]model.Product, error)

	// NewArrivals lists the newest products.
	NewArrivals(ctx context.Context, limit int) ([]model.Product, error)

	// BestSellers lists products ranked by total ordered quantity.
	BestSellers(ctx context.Context, limit int) ([]model.Product, error)

	// Related lists products sharing the given product's category or brand.
	Related(ctx context.Context, p *model.Product, limit int) ([]model.Product, error)

	// Stats aggregates the admin catalogue statistics.
	Stats(ctx context.Context) (*model.ProductStats, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order, or nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus persists a status change together with the appended
	// status history.
	UpdateStatus(ctx context.Context, order *model.Order) error

	// HasDeliveredProduct reports whether the user has a delivered order
	// containing the product. Used to mark reviews as verified purchases.
	HasDeliveredProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// CountByStatus aggregates order counts per status.
	CountByStatus(ctx context.Context) (*model.OrderStatusCounts, error)

	// Revenue sums totalAmount of non-cancelled orders placed in the given
	// window. Zero times leave the corresponding bound open.
	Revenue(ctx context.Context, from, to time.Time) (float64, error)

	// Recent retrieves the most recent orders.
	Recent(ctx context.Context, limit int) ([]model.Order, error)

	// TopProducts ranks products by total quantity sold.
	TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error)

	// DailySales aggregates revenue and order counts per day over the last
	// given number of days, oldest first.
	DailySales(ctx context.Context, days int) ([]model.DailySales, error)
}

// UserRepository defines the interface for account data access.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error

	// GetByID retrieves a user, or nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email, or nil when missing.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateLastLogin stamps a successful login.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// List retrieves all users, newest first.
	List(ctx context.Context) ([]model.User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of users created at or after since. A zero
	// time counts everyone.
	Count(ctx context.Context, since time.Time) (int, error)
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, r *model.Review) error

	// GetByID retrieves a review, or nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// GetByProductAndUser retrieves the unique review a user wrote for a
	// product, or nil when none exists.
	GetByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*model.Review, error)

	// ListByProduct retrieves one page of a product's reviews plus the total
	// count, newest first.
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.Review, int, error)

	// ListByUser retrieves a user's reviews, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error)

	// Update overwrites a review's mutable fields.
	Update(ctx context.Context, r *model.Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetHelpful persists the helpful counter and voter set.
	SetHelpful(ctx context.Context, r *model.Review) error

	// Stats returns the rating distribution for a product.
	Stats(ctx context.Context, productID uuid.UUID) (*model.ReviewStats, error)

	// Count returns the total number of reviews.
	Count(ctx context.Context) (int, error)
}

// DesignRepository defines the interface for design project data access.
type DesignRepository interface {
	// Create inserts a new design.
	Create(ctx context.Context, d *model.Design) error

	// GetByID retrieves a design, or nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Design, error)

	// ListByUser retrieves a user's designs, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Design, error)

	// ListAll retrieves designs matching the filter, newest first.
	ListAll(ctx context.Context, filter *model.DesignFilter) ([]model.Design, error)

	// Update overwrites a design, including its append-only notes and
	// revision logs.
	Update(ctx context.Context, d *model.Design) error

	// Delete removes a design.
	Delete(ctx context.Context, id uuid.UUID) error
}

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	// GetByUser retrieves a user's wishlist with items, or nil when the user
	// has none yet.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error)

	// Create inserts an empty wishlist for the user.
	Create(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error)

	// AddItem appends a product to the wishlist.
	AddItem(ctx context.Context, wishlistID, productID uuid.UUID) error

	// RemoveItem removes a product from the wishlist.
	RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) error

	// Clear removes every item from the wishlist.
	Clear(ctx context.Context, wishlistID uuid.UUID) error
}

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its code, or nil when missing.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// IncrementUsage bumps the coupon's usage counter within the provided
	// transaction.
	IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}
