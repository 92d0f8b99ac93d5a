package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activeCoupon() *Coupon {
	return &Coupon{
		Code:         "SAVE10",
		Discount:     10,
		DiscountType: DiscountTypePercentage,
		ValidFrom:    time.Now().Add(-24 * time.Hour),
		ValidUntil:   time.Now().Add(24 * time.Hour),
		Active:       true,
	}
}

func TestCoupon_IsValid(t *testing.T) {
	now := time.Now()

	t.Run("active within window", func(t *testing.T) {
		assert.True(t, activeCoupon().IsValid(now))
	})

	t.Run("inactive", func(t *testing.T) {
		c := activeCoupon()
		c.Active = false
		assert.False(t, c.IsValid(now))
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := activeCoupon()
		c.ValidFrom = now.Add(time.Hour)
		assert.False(t, c.IsValid(now))
	})

	t.Run("expired", func(t *testing.T) {
		c := activeCoupon()
		c.ValidUntil = now.Add(-time.Hour)
		assert.False(t, c.IsValid(now))
	})

	t.Run("usage limit reached", func(t *testing.T) {
		c := activeCoupon()
		limit := 5
		c.UsageLimit = &limit
		c.UsedCount = 5
		assert.False(t, c.IsValid(now))
	})

	t.Run("usage below limit", func(t *testing.T) {
		c := activeCoupon()
		limit := 5
		c.UsageLimit = &limit
		c.UsedCount = 4
		assert.True(t, c.IsValid(now))
	})
}

func TestCoupon_CalculateDiscount(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		c := activeCoupon()
		assert.InDelta(t, 20.0, c.CalculateDiscount(200), 0.001)
	})

	t.Run("percentage capped at max discount", func(t *testing.T) {
		c := activeCoupon()
		cap := 15.0
		c.MaxDiscount = &cap
		assert.InDelta(t, 15.0, c.CalculateDiscount(200), 0.001)
	})

	t.Run("percentage below cap", func(t *testing.T) {
		c := activeCoupon()
		cap := 50.0
		c.MaxDiscount = &cap
		assert.InDelta(t, 20.0, c.CalculateDiscount(200), 0.001)
	})

	t.Run("fixed", func(t *testing.T) {
		c := activeCoupon()
		c.DiscountType = DiscountTypeFixed
		c.Discount = 75
		assert.InDelta(t, 75.0, c.CalculateDiscount(200), 0.001)
	})
}
