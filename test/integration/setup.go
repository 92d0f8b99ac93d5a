package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			brand VARCHAR(100) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			category VARCHAR(100) NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			rating DECIMAL(3, 1) NOT NULL DEFAULT 0,
			num_reviews INTEGER NOT NULL DEFAULT 0,
			discount INTEGER NOT NULL DEFAULT 0,
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			images TEXT[] NOT NULL DEFAULT '{}',
			tags TEXT[] NOT NULL DEFAULT '{}',
			season VARCHAR(50) NOT NULL DEFAULT '',
			occasion VARCHAR(50) NOT NULL DEFAULT '',
			views INTEGER NOT NULL DEFAULT 0,
			wishlist_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			phone VARCHAR(30) NOT NULL DEFAULT '',
			addresses JSONB NOT NULL DEFAULT '[]',
			last_login TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			items JSONB NOT NULL,
			shipping_address JSONB NOT NULL,
			payment_method VARCHAR(30) NOT NULL,
			status VARCHAR(30) NOT NULL,
			payment_status VARCHAR(30) NOT NULL,
			payment_id VARCHAR(100) NOT NULL DEFAULT '',
			provider_order_id VARCHAR(100) NOT NULL DEFAULT '',
			total_amount DECIMAL(12, 2) NOT NULL,
			subtotal DECIMAL(12, 2) NOT NULL,
			tax DECIMAL(12, 2) NOT NULL DEFAULT 0,
			shipping_cost DECIMAL(12, 2) NOT NULL DEFAULT 0,
			discount DECIMAL(12, 2) NOT NULL DEFAULT 0,
			coupon_code VARCHAR(50) NOT NULL DEFAULT '',
			status_history JSONB NOT NULL DEFAULT '[]',
			order_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			title VARCHAR(255) NOT NULL DEFAULT '',
			comment TEXT NOT NULL,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			helpful INTEGER NOT NULL DEFAULT 0,
			helpful_users UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (product_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS designs (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			project_name VARCHAR(255) NOT NULL,
			project_type VARCHAR(50) NOT NULL,
			category VARCHAR(100) NOT NULL DEFAULT '',
			specifications JSONB NOT NULL DEFAULT '{}',
			budget JSONB NOT NULL DEFAULT '{}',
			timeline JSONB NOT NULL DEFAULT '{}',
			description TEXT NOT NULL DEFAULT '',
			status VARCHAR(30) NOT NULL,
			estimated_cost DECIMAL(12, 2) NOT NULL DEFAULT 0,
			notes JSONB NOT NULL DEFAULT '[]',
			revisions JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS wishlists (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS wishlist_items (
			wishlist_id UUID NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			added_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (wishlist_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS coupons (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			discount DECIMAL(10, 2) NOT NULL,
			discount_type VARCHAR(20) NOT NULL,
			min_purchase DECIMAL(12, 2) NOT NULL DEFAULT 0,
			max_discount DECIMAL(12, 2),
			usage_limit INTEGER,
			used_count INTEGER NOT NULL DEFAULT 0,
			valid_from TIMESTAMPTZ NOT NULL,
			valid_until TIMESTAMPTZ NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_reviews_product_id ON reviews(product_id);
		CREATE INDEX IF NOT EXISTS idx_designs_user_id ON designs(user_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedUser inserts a test account and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, name, email, password_hash, role, addresses)
		 VALUES ($1, $2, $3, $4, $5, '[]')`,
		id, "Test User", email, "x", role,
	)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

// SeedProduct inserts a catalogue product and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, title string, price float64, stock int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO products (id, title, price, category, stock)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, title, price, model.CategoryMechanical, stock,
	)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", title, err)
	}
	return id
}

// SeedCoupon inserts an active percentage coupon and returns its code.
func SeedCoupon(t *testing.T, pool *pgxpool.Pool, code string, percent float64) string {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO coupons (id, code, discount, discount_type, valid_from, valid_until, active)
		 VALUES ($1, $2, $3, 'percentage', $4, $5, TRUE)`,
		uuid.New(), code, percent,
		time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour),
	)
	if err != nil {
		t.Fatalf("failed to seed coupon %s: %v", code, err)
	}
	return code
}

// ShippingFixture is a valid delivery address for checkout tests.
func ShippingFixture() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:   "Priya Raman",
		Address:    "12 Temple Street",
		City:       "Chennai",
		PostalCode: "600001",
		Country:    "India",
		Phone:      "9876543210",
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"wishlist_items", "wishlists", "reviews", "orders",
		"designs", "coupons", "products", "users",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
