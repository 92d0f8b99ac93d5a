package service

import (
	"context"
	"fmt"
	"time"

	"velan-store/internal/auth"
	"velan-store/internal/model"
	"velan-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// designService implements DesignService.
type designService struct {
	designRepo repository.DesignRepository
	logger     zerolog.Logger
}

// NewDesignService creates a new design service.
func NewDesignService(designRepo repository.DesignRepository, logger zerolog.Logger) DesignService {
	return &designService{
		designRepo: designRepo,
		logger:     logger.With().Str("service", "design").Logger(),
	}
}

func validateDesignInput(input *model.DesignInput) error {
	if input.ProjectName == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Project name is required")
	}

	for _, t := range model.ValidProjectTypes {
		if input.ProjectType == t {
			return nil
		}
	}
	return model.NewDomainError(model.ErrCodeMissingField,
		fmt.Sprintf("Project type must be one of: %v", model.ValidProjectTypes))
}

// Create opens a design project. New projects start in Draft unless the
// payload submits directly.
func (s *designService) Create(ctx context.Context, userID uuid.UUID, input *model.DesignInput) (*model.Design, error) {
	if err := validateDesignInput(input); err != nil {
		return nil, err
	}

	status := model.DesignStatusDraft
	if input.Status == model.DesignStatusSubmitted {
		status = model.DesignStatusSubmitted
	}

	now := time.Now().UTC()
	design := &model.Design{
		ID:             uuid.New(),
		UserID:         userID,
		ProjectName:    input.ProjectName,
		ProjectType:    input.ProjectType,
		Category:       input.Category,
		Specifications: input.Specifications,
		Budget:         input.Budget,
		Timeline:       input.Timeline,
		Description:    input.Description,
		Status:         status,
		Notes:          []model.DesignNote{},
		Revisions:      []model.DesignRevision{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.designRepo.Create(ctx, design); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("design_id", design.ID.String()).
		Str("project_type", design.ProjectType).
		Str("status", design.Status).
		Msg("design created")
	return design, nil
}

// Get retrieves a design visible to the actor.
func (s *designService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Design, error) {
	design, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get design: %w", err)
	}
	if design == nil {
		return nil, model.ErrDesignNotFound
	}
	if !auth.CanAccess(actor, design.UserID) {
		return nil, model.ErrForbidden
	}
	return design, nil
}

// ListByUser retrieves the actor's own designs.
func (s *designService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Design, error) {
	designs, err := s.designRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	if designs == nil {
		designs = []model.Design{}
	}
	return designs, nil
}

// ListAll retrieves designs matching the admin filter.
func (s *designService) ListAll(ctx context.Context, filter *model.DesignFilter) ([]model.Design, error) {
	designs, err := s.designRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	if designs == nil {
		designs = []model.Design{}
	}
	return designs, nil
}

// Update edits a design. Status changes ride along only when the workflow
// graph allows them for the actor; edits may log a numbered revision.
func (s *designService) Update(ctx context.Context, actor *model.User, id uuid.UUID, input *model.DesignInput) (*model.Design, error) {
	if err := validateDesignInput(input); err != nil {
		return nil, err
	}

	design, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update design: %w", err)
	}
	if design == nil {
		return nil, model.ErrDesignNotFound
	}
	if !auth.CanAccess(actor, design.UserID) {
		return nil, model.ErrForbidden
	}

	if input.Status != "" && input.Status != design.Status {
		if !model.CanTransitionDesign(design.Status, input.Status) {
			return nil, model.NewDomainError(model.ErrCodeInvalidTransition,
				fmt.Sprintf("Cannot change design status from %s to %s", design.Status, input.Status))
		}
		if !actor.IsAdmin() && !model.UserMayTransitionDesign(design.Status, input.Status) {
			return nil, model.ErrForbidden
		}
		design.Status = input.Status
	}

	design.ProjectName = input.ProjectName
	design.ProjectType = input.ProjectType
	design.Category = input.Category
	design.Specifications = input.Specifications
	design.Budget = input.Budget
	design.Timeline = input.Timeline
	design.Description = input.Description
	design.UpdatedAt = time.Now().UTC()

	if input.TrackRevision {
		design.Revisions = append(design.Revisions, model.DesignRevision{
			Version:   len(design.Revisions) + 1,
			Changes:   input.RevisionNote,
			UpdatedBy: actor.ID,
			UpdatedAt: design.UpdatedAt,
		})
	}

	if err := s.designRepo.Update(ctx, design); err != nil {
		return nil, err
	}

	return design, nil
}

// Delete removes a design (owner or admin).
func (s *designService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	design, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	if design == nil {
		return model.ErrDesignNotFound
	}
	if !auth.CanAccess(actor, design.UserID) {
		return model.ErrForbidden
	}

	if err := s.designRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("design_id", id.String()).Msg("design deleted")
	return nil
}

// AddNote appends a note to a design.
func (s *designService) AddNote(ctx context.Context, actor *model.User, id uuid.UUID, message string) (*model.Design, error) {
	if message == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Note message is required")
	}

	design, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to add design note: %w", err)
	}
	if design == nil {
		return nil, model.ErrDesignNotFound
	}
	if !auth.CanAccess(actor, design.UserID) {
		return nil, model.ErrForbidden
	}

	now := time.Now().UTC()
	design.Notes = append(design.Notes, model.DesignNote{
		UserID:    actor.ID,
		Message:   message,
		CreatedAt: now,
	})
	design.UpdatedAt = now

	if err := s.designRepo.Update(ctx, design); err != nil {
		return nil, err
	}

	return design, nil
}

// UpdateStatus moves a design through the workflow (admin).
func (s *designService) UpdateStatus(ctx context.Context, id uuid.UUID, update *model.DesignStatusUpdate) (*model.Design, error) {
	design, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update design status: %w", err)
	}
	if design == nil {
		return nil, model.ErrDesignNotFound
	}

	if !model.CanTransitionDesign(design.Status, update.Status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("Cannot change design status from %s to %s", design.Status, update.Status))
	}

	design.Status = update.Status
	if update.EstimatedCost > 0 {
		design.EstimatedCost = update.EstimatedCost
	}
	design.UpdatedAt = time.Now().UTC()

	if err := s.designRepo.Update(ctx, design); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("design_id", design.ID.String()).
		Str("status", design.Status).
		Msg("design status updated")
	return design, nil
}
