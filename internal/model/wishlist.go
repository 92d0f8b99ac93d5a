package model

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is one saved product reference.
type WishlistItem struct {
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Product   *Product  `json:"product,omitempty" db:"-"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// Wishlist holds a user's saved products. One wishlist exists per user.
type Wishlist struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"userId" db:"user_id"`
	Items     []WishlistItem `json:"products"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

// Contains reports whether the wishlist already holds the product.
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
