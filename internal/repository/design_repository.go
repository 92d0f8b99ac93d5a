package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const designColumns = `id, user_id, project_name, project_type, category, specifications,
		budget, timeline, description, status, estimated_cost, notes, revisions,
		created_at, updated_at`

// designRepository implements DesignRepository using PostgreSQL. The nested
// specification, budget, timeline, note and revision documents live in JSONB
// columns.
type designRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDesignRepository creates a new PostgreSQL-backed design repository.
func NewDesignRepository(pool *pgxpool.Pool, logger zerolog.Logger) DesignRepository {
	return &designRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "design").Logger(),
	}
}

func marshalDesignDocs(d *model.Design) (specs, budget, timeline, notes, revisions []byte, err error) {
	if specs, err = json.Marshal(d.Specifications); err != nil {
		return
	}
	if budget, err = json.Marshal(d.Budget); err != nil {
		return
	}
	if timeline, err = json.Marshal(d.Timeline); err != nil {
		return
	}
	if notes, err = json.Marshal(d.Notes); err != nil {
		return
	}
	revisions, err = json.Marshal(d.Revisions)
	return
}

func scanDesign(row pgx.Row, d *model.Design) error {
	var specs, budget, timeline, notes, revisions []byte
	err := row.Scan(
		&d.ID, &d.UserID, &d.ProjectName, &d.ProjectType, &d.Category,
		&specs, &budget, &timeline, &d.Description, &d.Status, &d.EstimatedCost,
		&notes, &revisions, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(specs, &d.Specifications); err != nil {
		return fmt.Errorf("failed to decode specifications: %w", err)
	}
	if err := json.Unmarshal(budget, &d.Budget); err != nil {
		return fmt.Errorf("failed to decode budget: %w", err)
	}
	if err := json.Unmarshal(timeline, &d.Timeline); err != nil {
		return fmt.Errorf("failed to decode timeline: %w", err)
	}
	if err := json.Unmarshal(notes, &d.Notes); err != nil {
		return fmt.Errorf("failed to decode notes: %w", err)
	}
	if err := json.Unmarshal(revisions, &d.Revisions); err != nil {
		return fmt.Errorf("failed to decode revisions: %w", err)
	}
	return nil
}

// Create inserts a new design project.
func (r *designRepository) Create(ctx context.Context, d *model.Design) error {
	specs, budget, timeline, notes, revisions, err := marshalDesignDocs(d)
	if err != nil {
		return fmt.Errorf("failed to encode design documents: %w", err)
	}

	query := `
		INSERT INTO designs (id, user_id, project_name, project_type, category,
			specifications, budget, timeline, description, status, estimated_cost,
			notes, revisions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.pool.Exec(ctx, query,
		d.ID, d.UserID, d.ProjectName, d.ProjectType, d.Category,
		specs, budget, timeline, d.Description, d.Status, d.EstimatedCost,
		notes, revisions, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("design_id", d.ID.String()).Msg("failed to create design")
		return fmt.Errorf("failed to create design: %w", err)
	}

	r.logger.Debug().Str("design_id", d.ID.String()).Msg("design created")
	return nil
}

// GetByID retrieves a design by id.
func (r *designRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Design, error) {
	query := fmt.Sprintf("SELECT %s FROM designs WHERE id = $1", designColumns)

	var d model.Design
	err := scanDesign(r.pool.QueryRow(ctx, query, id), &d)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("design_id", id.String()).Msg("failed to query design")
		return nil, fmt.Errorf("failed to query design: %w", err)
	}

	return &d, nil
}

func (r *designRepository) collectDesigns(rows pgx.Rows) ([]model.Design, error) {
	defer rows.Close()

	var designs []model.Design
	for rows.Next() {
		var d model.Design
		if err := scanDesign(rows, &d); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan design row")
			return nil, fmt.Errorf("failed to scan design: %w", err)
		}
		designs = append(designs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating designs: %w", err)
	}

	return designs, nil
}

// ListByUser retrieves a user's designs, newest first.
func (r *designRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Design, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM designs WHERE user_id = $1 ORDER BY created_at DESC", designColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query user designs")
		return nil, fmt.Errorf("failed to query user designs: %w", err)
	}

	return r.collectDesigns(rows)
}

// ListAll retrieves all designs, optionally narrowed by status, project type
// or category.
func (r *designRepository) ListAll(ctx context.Context, filter *model.DesignFilter) ([]model.Design, error) {
	query := fmt.Sprintf("SELECT %s FROM designs", designColumns)

	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(filter.Status))
	}
	if filter.ProjectType != "" {
		conditions = append(conditions, "project_type = "+arg(filter.ProjectType))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(filter.Category))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query designs")
		return nil, fmt.Errorf("failed to query designs: %w", err)
	}

	return r.collectDesigns(rows)
}

// Update overwrites a design's stored state, documents included.
func (r *designRepository) Update(ctx context.Context, d *model.Design) error {
	specs, budget, timeline, notes, revisions, err := marshalDesignDocs(d)
	if err != nil {
		return fmt.Errorf("failed to encode design documents: %w", err)
	}

	query := `
		UPDATE designs
		SET project_name = $2, project_type = $3, category = $4, specifications = $5,
			budget = $6, timeline = $7, description = $8, status = $9,
			estimated_cost = $10, notes = $11, revisions = $12, updated_at = $13
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		d.ID, d.ProjectName, d.ProjectType, d.Category, specs,
		budget, timeline, d.Description, d.Status,
		d.EstimatedCost, notes, revisions, d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("design_id", d.ID.String()).Msg("failed to update design")
		return fmt.Errorf("failed to update design: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDesignNotFound
	}

	return nil
}

// Delete removes a design.
func (r *designRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM designs WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("design_id", id.String()).Msg("failed to delete design")
		return fmt.Errorf("failed to delete design: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDesignNotFound
	}

	return nil
}
