package repository

import (
	"context"
	"fmt"
	"strings"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements CouponRepository using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// GetByCode retrieves a coupon by its code, case-insensitively.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT id, code, discount, discount_type, min_purchase, max_discount,
			usage_limit, used_count, valid_from, valid_until, active, created_at
		FROM coupons
		WHERE code = UPPER($1)
	`

	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, strings.TrimSpace(code)).Scan(
		&c.ID, &c.Code, &c.Discount, &c.DiscountType, &c.MinPurchase,
		&c.MaxDiscount, &c.UsageLimit, &c.UsedCount, &c.ValidFrom,
		&c.ValidUntil, &c.Active, &c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// IncrementUsage bumps the coupon's usage counter within the transaction so
// the bump rolls back together with a failed order.
func (r *couponRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		"UPDATE coupons SET used_count = used_count + 1 WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to increment coupon usage")
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInvalidCoupon
	}

	return nil
}
