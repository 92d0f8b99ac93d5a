package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, user_id, items, shipping_address, payment_method, status,
		payment_status, payment_id, provider_order_id, total_amount, subtotal, tax,
		shipping_cost, discount, coupon_code, status_history, order_date, created_at, updated_at`

// orderRepository implements OrderRepository using PostgreSQL. The
// denormalized order snapshot (items, shipping address, status history) is
// stored as JSONB.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func marshalOrderDocs(order *model.Order) (items, address, history []byte, err error) {
	if items, err = json.Marshal(order.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode order items: %w", err)
	}
	if address, err = json.Marshal(order.ShippingAddress); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode shipping address: %w", err)
	}
	if history, err = json.Marshal(order.StatusHistory); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode status history: %w", err)
	}
	return items, address, history, nil
}

func scanOrder(row pgx.Row, order *model.Order) error {
	var items, address, history []byte

	err := row.Scan(
		&order.ID, &order.UserID, &items, &address, &order.PaymentMethod,
		&order.Status, &order.PaymentStatus, &order.PaymentID,
		&order.ProviderOrderID, &order.TotalAmount, &order.Subtotal,
		&order.Tax, &order.ShippingCost, &order.Discount, &order.CouponCode,
		&history, &order.OrderDate, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return fmt.Errorf("failed to decode order items: %w", err)
	}
	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return fmt.Errorf("failed to decode shipping address: %w", err)
	}
	if err := json.Unmarshal(history, &order.StatusHistory); err != nil {
		return fmt.Errorf("failed to decode status history: %w", err)
	}

	return nil
}

func (r *orderRepository) collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	items, address, history, err := marshalOrderDocs(order)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			id, user_id, items, shipping_address, payment_method, status,
			payment_status, payment_id, provider_order_id, total_amount,
			subtotal, tax, shipping_cost, discount, coupon_code,
			status_history, order_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = tx.Exec(ctx, query,
		order.ID, order.UserID, items, address, order.PaymentMethod,
		order.Status, order.PaymentStatus, order.PaymentID,
		order.ProviderOrderID, order.TotalAmount, order.Subtotal, order.Tax,
		order.ShippingCost, order.Discount, order.CouponCode, history,
		order.OrderDate, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().Str("order_id", order.ID.String()).Msg("order created")
	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)

	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, id), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE user_id = $1 ORDER BY order_date DESC", orderColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}

	return r.collectOrders(rows)
}

// ListAll retrieves every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders ORDER BY order_date DESC", orderColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return r.collectOrders(rows)
}

// UpdateStatus persists a status change with the appended history.
func (r *orderRepository) UpdateStatus(ctx context.Context, order *model.Order) error {
	history, err := json.Marshal(order.StatusHistory)
	if err != nil {
		return fmt.Errorf("failed to encode status history: %w", err)
	}

	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, status_history = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, order.ID, order.Status, order.PaymentStatus, history, order.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("status", order.Status).
		Msg("order status updated")

	return nil
}

// HasDeliveredProduct reports whether the user has a delivered order
// containing the product.
func (r *orderRepository) HasDeliveredProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM orders, jsonb_array_elements(items) AS item
			WHERE user_id = $1
			  AND status = 'Delivered'
			  AND (item->>'productId')::uuid = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&exists); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to check delivered product")
		return false, fmt.Errorf("failed to check delivered product: %w", err)
	}

	return exists, nil
}

// CountByStatus aggregates order counts per status.
func (r *orderRepository) CountByStatus(ctx context.Context) (*model.OrderStatusCounts, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Processing'),
			COUNT(*) FILTER (WHERE status = 'Shipped'),
			COUNT(*) FILTER (WHERE status = 'Delivered'),
			COUNT(*) FILTER (WHERE status = 'Cancelled')
		FROM orders
	`

	var counts model.OrderStatusCounts
	err := r.pool.QueryRow(ctx, query).Scan(
		&counts.Total, &counts.Pending, &counts.Processing,
		&counts.Shipped, &counts.Delivered, &counts.Cancelled,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders by status")
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	return &counts, nil
}

// Revenue sums totalAmount of non-cancelled orders in the given window.
func (r *orderRepository) Revenue(ctx context.Context, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status <> 'Cancelled'
		  AND ($1::timestamptz IS NULL OR order_date >= $1)
		  AND ($2::timestamptz IS NULL OR order_date < $2)
	`

	var fromArg, toArg any
	if !from.IsZero() {
		fromArg = from
	}
	if !to.IsZero() {
		toArg = to
	}

	var revenue float64
	if err := r.pool.QueryRow(ctx, query, fromArg, toArg).Scan(&revenue); err != nil {
		r.logger.Error().Err(err).Msg("failed to sum revenue")
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return revenue, nil
}

// Recent retrieves the most recent orders.
func (r *orderRepository) Recent(ctx context.Context, limit int) ([]model.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders ORDER BY order_date DESC LIMIT $1", orderColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query recent orders")
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}

	return r.collectOrders(rows)
}

// TopProducts ranks products by total quantity sold across all orders.
func (r *orderRepository) TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error) {
	query := `
		SELECT (item->>'productId')::uuid,
			MAX(item->>'title'),
			SUM((item->>'quantity')::int),
			SUM((item->>'price')::numeric * (item->>'quantity')::int)
		FROM orders, jsonb_array_elements(items) AS item
		GROUP BY 1
		ORDER BY 3 DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query top products")
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	var top []model.TopProduct
	for rows.Next() {
		var tp model.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Title, &tp.TotalSold, &tp.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		top = append(top, tp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return top, nil
}

// DailySales aggregates revenue and order counts per day, oldest first.
// Days without orders still appear with zero values.
func (r *orderRepository) DailySales(ctx context.Context, days int) ([]model.DailySales, error) {
	query := `
		SELECT to_char(day, 'YYYY-MM-DD'),
			COALESCE(SUM(o.total_amount), 0),
			COUNT(o.id)
		FROM generate_series(
			date_trunc('day', now()) - ($1 - 1) * interval '1 day',
			date_trunc('day', now()),
			interval '1 day'
		) AS day
		LEFT JOIN orders o
			ON o.order_date >= day
			AND o.order_date < day + interval '1 day'
			AND o.status <> 'Cancelled'
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query daily sales")
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	defer rows.Close()

	var sales []model.DailySales
	for rows.Next() {
		var ds model.DailySales
		if err := rows.Scan(&ds.Date, &ds.Revenue, &ds.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales: %w", err)
		}
		sales = append(sales, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily sales: %w", err)
	}

	return sales, nil
}
