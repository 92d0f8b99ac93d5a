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

const userColumns = `id, name, email, password_hash, role, phone, addresses, last_login, created_at`

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func scanUser(row pgx.Row, u *model.User) error {
	var addresses []byte

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Phone,
		&addresses, &u.LastLogin, &u.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(addresses, &u.Addresses); err != nil {
		return fmt.Errorf("failed to decode addresses: %w", err)
	}

	return nil
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	addresses, err := json.Marshal(u.Addresses)
	if err != nil {
		return fmt.Errorf("failed to encode addresses: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, phone, addresses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, addresses, u.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("email", u.Email).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().Str("user_id", u.ID.String()).Msg("user created")
	return nil
}

// GetByID retrieves a user by id.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)

	var u model.User
	err := scanUser(r.pool.QueryRow(ctx, query, id), &u)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = LOWER($1)", userColumns)

	var u model.User
	err := scanUser(r.pool.QueryRow(ctx, query, email), &u)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("email", email).Msg("failed to query user by email")
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	return &u, nil
}

// UpdateLastLogin stamps a successful login.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login = $2 WHERE id = $1", id, at)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update last login")
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// List retrieves all users, newest first.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY created_at DESC", userColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user row")
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Delete removes a user.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// Count returns the number of users created at or after since.
func (r *userRepository) Count(ctx context.Context, since time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM users WHERE $1::timestamptz IS NULL OR created_at >= $1"

	var sinceArg any
	if !since.IsZero() {
		sinceArg = since
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, sinceArg).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count users")
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
