package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Coupon discount types.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a discount code with a validity window and optional usage cap.
type Coupon struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Code         string    `json:"code" db:"code"`
	Discount     float64   `json:"discount" db:"discount"`
	DiscountType string    `json:"discountType" db:"discount_type"`
	MinPurchase  float64   `json:"minPurchase" db:"min_purchase"`
	MaxDiscount  *float64  `json:"maxDiscount,omitempty" db:"max_discount"`
	UsageLimit   *int      `json:"usageLimit,omitempty" db:"usage_limit"`
	UsedCount    int       `json:"usedCount" db:"used_count"`
	ValidFrom    time.Time `json:"validFrom" db:"valid_from"`
	ValidUntil   time.Time `json:"validUntil" db:"valid_until"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsValid reports whether the coupon can be applied right now.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom.After(now) || c.ValidUntil.Before(now) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}

// CalculateDiscount returns the discount amount for the given order total.
func (c *Coupon) CalculateDiscount(amount float64) float64 {
	if c.DiscountType == DiscountTypePercentage {
		discount := amount * c.Discount / 100
		if c.MaxDiscount != nil {
			return math.Min(discount, *c.MaxDiscount)
		}
		return discount
	}
	return c.Discount
}
