package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's rating of a product. At most one review exists per
// (product, user) pair; the unique index enforces it.
type Review struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	ProductID    uuid.UUID   `json:"productId" db:"product_id"`
	UserID       uuid.UUID   `json:"userId" db:"user_id"`
	UserName     string      `json:"userName,omitempty" db:"user_name"`
	Rating       int         `json:"rating" db:"rating"`
	Title        string      `json:"title" db:"title"`
	Comment      string      `json:"comment" db:"comment"`
	Verified     bool        `json:"verified" db:"verified"`
	Helpful      int         `json:"helpful" db:"helpful"`
	HelpfulUsers []uuid.UUID `json:"-" db:"helpful_users"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// MarkedHelpfulBy reports whether the given user already marked the review helpful.
func (r *Review) MarkedHelpfulBy(userID uuid.UUID) bool {
	for _, id := range r.HelpfulUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// ReviewRequest is the create/update payload for a review.
type ReviewRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
}

// ReviewPage is a single page of product reviews.
type ReviewPage struct {
	Reviews     []Review `json:"reviews"`
	Total       int      `json:"total"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
}

// ReviewStats is the per-product rating distribution.
type ReviewStats struct {
	Total        int         `json:"total"`
	Distribution map[int]int `json:"distribution"`
}

// HelpfulResponse reports the outcome of a helpful toggle.
type HelpfulResponse struct {
	Helpful int  `json:"helpful"`
	Marked  bool `json:"marked"`
}
