package repository

import (
	"context"
	"errors"
	"fmt"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const reviewColumns = `r.id, r.product_id, r.user_id, u.name, r.rating, r.title, r.comment,
		r.verified, r.helpful, r.helpful_users, r.created_at, r.updated_at`

// reviewRepository implements ReviewRepository using PostgreSQL.
type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

func scanReview(row pgx.Row, rv *model.Review) error {
	return row.Scan(
		&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating,
		&rv.Title, &rv.Comment, &rv.Verified, &rv.Helpful, &rv.HelpfulUsers,
		&rv.CreatedAt, &rv.UpdatedAt,
	)
}

// Create inserts a new review. A unique-constraint violation on
// (product_id, user_id) surfaces as ErrDuplicateReview.
func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, title, comment,
			verified, helpful, helpful_users, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Title, rv.Comment,
		rv.Verified, rv.Helpful, rv.HelpfulUsers, rv.CreatedAt, rv.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateReview
		}
		r.logger.Error().Err(err).Str("review_id", rv.ID.String()).Msg("failed to create review")
		return fmt.Errorf("failed to create review: %w", err)
	}

	r.logger.Debug().Str("review_id", rv.ID.String()).Msg("review created")
	return nil
}

// GetByID retrieves a review by id.
func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.id = $1", reviewColumns)

	var rv model.Review
	err := scanReview(r.pool.QueryRow(ctx, query, id), &rv)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}

	return &rv, nil
}

// GetByProductAndUser retrieves the unique review a user wrote for a product.
func (r *reviewRepository) GetByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*model.Review, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.product_id = $1 AND r.user_id = $2",
		reviewColumns)

	var rv model.Review
	err := scanReview(r.pool.QueryRow(ctx, query, productID, userID), &rv)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("product_id", productID.String()).
			Str("user_id", userID.String()).
			Msg("failed to query review by product and user")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}

	return &rv, nil
}

func (r *reviewRepository) collectReviews(rows pgx.Rows) ([]model.Review, error) {
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := scanReview(rows, &rv); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// ListByProduct retrieves one page of a product's reviews plus the total.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM reviews WHERE product_id = $1", productID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to count reviews")
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, reviewColumns)

	rows, err := r.pool.Query(ctx, query, productID, limit, (page-1)*limit)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query reviews")
		return nil, 0, fmt.Errorf("failed to query reviews: %w", err)
	}

	reviews, err := r.collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ListByUser retrieves a user's reviews, newest first.
func (r *reviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`, reviewColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query user reviews")
		return nil, fmt.Errorf("failed to query user reviews: %w", err)
	}

	return r.collectReviews(rows)
}

// Update overwrites a review's mutable fields.
func (r *reviewRepository) Update(ctx context.Context, rv *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, title = $3, comment = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, rv.ID, rv.Rating, rv.Title, rv.Comment, rv.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", rv.ID.String()).Msg("failed to update review")
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

// Delete removes a review.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

// SetHelpful persists the helpful counter and voter set.
func (r *reviewRepository) SetHelpful(ctx context.Context, rv *model.Review) error {
	query := "UPDATE reviews SET helpful = $2, helpful_users = $3 WHERE id = $1"

	_, err := r.pool.Exec(ctx, query, rv.ID, rv.Helpful, rv.HelpfulUsers)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", rv.ID.String()).Msg("failed to update helpful votes")
		return fmt.Errorf("failed to update helpful votes: %w", err)
	}

	return nil
}

// Stats returns the rating distribution for a product. Every rating bucket
// appears, zero-filled when absent.
func (r *reviewRepository) Stats(ctx context.Context, productID uuid.UUID) (*model.ReviewStats, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT rating, COUNT(*) FROM reviews WHERE product_id = $1 GROUP BY rating", productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query review stats")
		return nil, fmt.Errorf("failed to query review stats: %w", err)
	}
	defer rows.Close()

	stats := &model.ReviewStats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan review stat: %w", err)
		}
		stats.Distribution[rating] = count
		stats.Total += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review stats: %w", err)
	}

	return stats, nil
}

// Count returns the total number of reviews.
func (r *reviewRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reviews").Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count reviews")
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
