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

const productColumns = `id, title, brand, description, price, category, stock, rating,
		num_reviews, discount, featured, images, tags, season, occasion, views,
		wishlist_count, created_at`

// productRepository implements ProductRepository using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// productScanDest returns the scan destinations matching productColumns.
func productScanDest(p *model.Product) []any {
	return []any{
		&p.ID, &p.Title, &p.Brand, &p.Description, &p.Price, &p.Category,
		&p.Stock, &p.Rating, &p.NumReviews, &p.Discount, &p.Featured,
		&p.Images, &p.Tags, &p.Season, &p.Occasion, &p.Views,
		&p.WishlistCount, &p.CreatedAt,
	}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(productScanDest(p)...)
}

func (r *productRepository) collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// buildFilter translates the optional catalogue parameters into a WHERE
// clause and its positional arguments.
func buildFilter(f *model.ProductFilter) (string, []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE %[1]s OR brand ILIKE %[1]s OR description ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE %[1]s))", p))
	}
	if f.Category != "" && f.Category != "All" {
		conditions = append(conditions, "category = "+arg(f.Category))
	}
	if len(f.Brands) > 0 {
		conditions = append(conditions, "brand = ANY("+arg(f.Brands)+")")
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "price <= "+arg(*f.MaxPrice))
	}
	if f.Rating != nil {
		conditions = append(conditions, "rating >= "+arg(*f.Rating))
	}
	if f.Featured {
		conditions = append(conditions, "featured = TRUE")
	}
	if f.InStock {
		conditions = append(conditions, "stock > 0")
	}
	if f.Discount {
		conditions = append(conditions, "discount > 0")
	}
	if f.Season != "" {
		conditions = append(conditions, "season = "+arg(f.Season))
	}
	if f.Occasion != "" {
		conditions = append(conditions, "occasion = "+arg(f.Occasion))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// sortClause maps the public sort keys onto ORDER BY clauses. Unknown keys
// fall back to newest first.
func sortClause(sort string) string {
	switch sort {
	case "price-asc":
		return "ORDER BY price ASC"
	case "price-desc":
		return "ORDER BY price DESC"
	case "rating":
		return "ORDER BY rating DESC"
	case "popular":
		return "ORDER BY views DESC, wishlist_count DESC"
	case "newest":
		return "ORDER BY created_at DESC"
	default:
		return "ORDER BY created_at DESC"
	}
}

// List retrieves one page of products matching the filter plus the total
// match count.
func (r *productRepository) List(ctx context.Context, filter *model.ProductFilter) ([]model.Product, int, error) {
	where, args := buildFilter(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM products %s %s LIMIT $%d OFFSET $%d",
		productColumns, where, sortClause(filter.Sort), len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := r.collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (
			id, title, brand, description, price, category, stock, rating,
			num_reviews, discount, featured, images, tags, season, occasion,
			views, wishlist_count, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Brand, p.Description, p.Price, p.Category, p.Stock,
		p.Rating, p.NumReviews, p.Discount, p.Featured, p.Images, p.Tags,
		p.Season, p.Occasion, p.Views, p.WishlistCount, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID.String()).Msg("product created")
	return nil
}

// Update overwrites a product's mutable fields.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET title = $2, brand = $3, description = $4, price = $5, category = $6,
			stock = $7, discount = $8, featured = $9, images = $10, tags = $11,
			season = $12, occasion = $13
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Brand, p.Description, p.Price, p.Category, p.Stock,
		p.Discount, p.Featured, p.Images, p.Tags, p.Season, p.Occasion,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Delete removes a product and its reviews.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Reviews reference the product without ON DELETE CASCADE, so remove them
	// in the same transaction.
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM reviews WHERE product_id = $1", id); err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product reviews")
		return fmt.Errorf("failed to delete product reviews: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit product delete: %w", err)
	}

	return nil
}

// IncrementViews bumps the product's view counter.
func (r *productRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE products SET views = views + 1 WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to increment views")
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// DecrementStock conditionally subtracts quantity from stock. The stock
// predicate makes the check-and-decrement atomic per product, so concurrent
// orders cannot drive stock negative.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error) {
	tag, err := tx.Exec(ctx,
		"UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2",
		id, quantity,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", id.String()).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// RecomputeRating resets the derived rating fields from the review aggregate.
// Products with no remaining reviews return to rating 0 / numReviews 0.
func (r *productRepository) RecomputeRating(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE products p
		SET rating = COALESCE(agg.avg_rating, 0),
			num_reviews = COALESCE(agg.review_count, 0)
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1) AS avg_rating, COUNT(*) AS review_count
			FROM reviews
			WHERE product_id = $1
		) agg
		WHERE p.id = $1
	`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to recompute rating")
		return fmt.Errorf("failed to recompute rating: %w", err)
	}

	r.logger.Debug().Str("product_id", id.String()).Msg("product rating recomputed")
	return nil
}

// AdjustWishlistCount shifts the denormalized wishlist counter.
func (r *productRepository) AdjustWishlistCount(ctx context.Context, id uuid.UUID, delta int) error {
	query := "UPDATE products SET wishlist_count = GREATEST(wishlist_count + $2, 0) WHERE id = $1"

	_, err := r.pool.Exec(ctx, query, id, delta)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to adjust wishlist count")
		return fmt.Errorf("failed to adjust wishlist count: %w", err)
	}
	return nil
}

// Brands lists the distinct brands in the catalogue.
func (r *productRepository) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT brand FROM products ORDER BY brand")
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query brands")
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}

func (r *productRepository) listOrdered(ctx context.Context, orderBy string, limit int, extraWhere string) ([]model.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s LIMIT $1", productColumns, extraWhere, orderBy)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("order_by", orderBy).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collectProducts(rows)
}

// Featured lists featured products by rating.
func (r *productRepository) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	return r.listOrdered(ctx, "rating DESC", limit, "WHERE featured = TRUE")
}

// Trending lists products by views then wishlist count.
func (r *productRepository) Trending(ctx context.Context, limit int) ([]model.Product, error) {
	return r.listOrdered(ctx, "views DESC, wishlist_count DESC", limit, "")
}

// NewArrivals lists the newest products.
func (r *productRepository) NewArrivals(ctx context.Context, limit int) ([]model.Product, error) {
	return r.listOrdered(ctx, "created_at DESC", limit, "")
}

// BestSellers ranks products by total ordered quantity, unnesting the
// denormalized order items.
func (r *productRepository) BestSellers(ctx context.Context, limit int) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE id IN (
			SELECT (item->>'productId')::uuid
			FROM orders, jsonb_array_elements(items) AS item
			GROUP BY 1
			ORDER BY SUM((item->>'quantity')::int) DESC
			LIMIT $1
		)
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query best sellers")
		return nil, fmt.Errorf("failed to query best sellers: %w", err)
	}

	return r.collectProducts(rows)
}

// Related lists products sharing the given product's category or brand.
func (r *productRepository) Related(ctx context.Context, p *model.Product, limit int) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE id <> $1 AND (category = $2 OR brand = $3)
		ORDER BY rating DESC
		LIMIT $4
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, p.ID, p.Category, p.Brand, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to query related products")
		return nil, fmt.Errorf("failed to query related products: %w", err)
	}

	return r.collectProducts(rows)
}

// Stats aggregates the admin catalogue statistics.
func (r *productRepository) Stats(ctx context.Context) (*model.ProductStats, error) {
	stats := &model.ProductStats{}

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE stock = 0),
			COUNT(*) FILTER (WHERE stock > 0 AND stock <= 10)
		FROM products
	`
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalProducts, &stats.OutOfStock, &stats.LowStock); err != nil {
		r.logger.Error().Err(err).Msg("failed to query product counts")
		return nil, fmt.Errorf("failed to query product counts: %w", err)
	}

	catRows, err := r.pool.Query(ctx,
		"SELECT category, COUNT(*), COALESCE(AVG(price), 0) FROM products GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var cs model.CategoryStat
		if err := catRows.Scan(&cs.Category, &cs.Count, &cs.AvgPrice); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats.CategoryStats = append(stats.CategoryStats, cs)
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category stats: %w", err)
	}

	brandRows, err := r.pool.Query(ctx,
		"SELECT brand, COUNT(*) FROM products GROUP BY brand ORDER BY COUNT(*) DESC LIMIT 10")
	if err != nil {
		return nil, fmt.Errorf("failed to query brand stats: %w", err)
	}
	defer brandRows.Close()

	for brandRows.Next() {
		var bs model.BrandStat
		if err := brandRows.Scan(&bs.Brand, &bs.Count); err != nil {
			return nil, fmt.Errorf("failed to scan brand stat: %w", err)
		}
		stats.TopBrands = append(stats.TopBrands, bs)
	}
	if err := brandRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brand stats: %w", err)
	}

	return stats, nil
}
