package repository

import (
	"context"
	"fmt"
	"time"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// wishlistRepository implements WishlistRepository using PostgreSQL. Items
// live in a child table keyed by wishlist id so membership checks stay cheap.
type wishlistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) WishlistRepository {
	return &wishlistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wishlist").Logger(),
	}
}

// GetByUser retrieves a user's wishlist with its items hydrated with product
// rows, or nil when the user has no wishlist yet.
func (r *wishlistRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	var w model.Wishlist
	err := r.pool.QueryRow(ctx,
		"SELECT id, user_id, created_at FROM wishlists WHERE user_id = $1", userID).
		Scan(&w.ID, &w.UserID, &w.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query wishlist")
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT i.product_id, i.added_at, %s
		FROM wishlist_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.wishlist_id = $1
		ORDER BY i.added_at DESC
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, w.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("wishlist_id", w.ID.String()).Msg("failed to query wishlist items")
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}
	defer rows.Close()

	w.Items = []model.WishlistItem{}
	for rows.Next() {
		var item model.WishlistItem
		var p model.Product

		dest := []any{&item.ProductID, &item.AddedAt}
		dest = append(dest, productScanDest(&p)...)
		if err := rows.Scan(dest...); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan wishlist item row")
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}

		item.Product = &p
		w.Items = append(w.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}

	return &w, nil
}

// Create inserts an empty wishlist for the user.
func (r *wishlistRepository) Create(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	w := &model.Wishlist{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []model.WishlistItem{},
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.pool.Exec(ctx,
		"INSERT INTO wishlists (id, user_id, created_at) VALUES ($1, $2, $3)",
		w.ID, w.UserID, w.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create wishlist")
		return nil, fmt.Errorf("failed to create wishlist: %w", err)
	}

	r.logger.Debug().Str("wishlist_id", w.ID.String()).Msg("wishlist created")
	return w, nil
}

// AddItem appends a product to the wishlist. Adding a product that is
// already present is a no-op.
func (r *wishlistRepository) AddItem(ctx context.Context, wishlistID, productID uuid.UUID) error {
	query := `
		INSERT INTO wishlist_items (wishlist_id, product_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (wishlist_id, product_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, wishlistID, productID, time.Now().UTC())
	if err != nil {
		r.logger.Error().Err(err).
			Str("wishlist_id", wishlistID.String()).
			Str("product_id", productID.String()).
			Msg("failed to add wishlist item")
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// RemoveItem removes a product from the wishlist.
func (r *wishlistRepository) RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2",
		wishlistID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("wishlist_id", wishlistID.String()).
			Str("product_id", productID.String()).
			Msg("failed to remove wishlist item")
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	return nil
}

// Clear removes every item from the wishlist.
func (r *wishlistRepository) Clear(ctx context.Context, wishlistID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM wishlist_items WHERE wishlist_id = $1", wishlistID)
	if err != nil {
		r.logger.Error().Err(err).Str("wishlist_id", wishlistID.String()).Msg("failed to clear wishlist")
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}

	return nil
}
