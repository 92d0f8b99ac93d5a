package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"velan-store/internal/auth"
	"velan-store/internal/model"
	"velan-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger.With().Str("service", "review").Logger(),
	}
}

func validateReviewRequest(req *model.ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return model.NewDomainError(model.ErrCodeMissingField, "Rating must be between 1 and 5")
	}
	if req.Comment == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Comment is required")
	}
	return nil
}

// Create adds a review and recomputes the product's derived rating.
func (s *reviewService) Create(ctx context.Context, user *model.User, req *model.ReviewRequest) (*model.Review, error) {
	if err := validateReviewRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByProductAndUser(ctx, req.ProductID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if existing != nil {
		return nil, model.ErrDuplicateReview
	}

	verified, err := s.orderRepo.HasDeliveredProduct(ctx, user.ID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	now := time.Now().UTC()
	review := &model.Review{
		ID:           uuid.New(),
		ProductID:    req.ProductID,
		UserID:       user.ID,
		UserName:     user.Name,
		Rating:       req.Rating,
		Title:        req.Title,
		Comment:      req.Comment,
		Verified:     verified,
		HelpfulUsers: []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.productRepo.RecomputeRating(ctx, req.ProductID); err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID.String()).Msg("failed to recompute rating")
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info().
		Str("review_id", review.ID.String()).
		Str("product_id", req.ProductID.String()).
		Int("rating", req.Rating).
		Msg("review created")
	return review, nil
}

// ListByProduct retrieves one page of a product's reviews.
func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) (*model.ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	reviews, total, err := s.reviewRepo.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	return &model.ReviewPage{
		Reviews:     reviews,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

// ListByUser retrieves the actor's own reviews.
func (s *reviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// Update edits a review and recomputes the product rating. Only the author
// may edit; admins may not rewrite someone else's words.
func (s *reviewService) Update(ctx context.Context, actor *model.User, id uuid.UUID, req *model.ReviewRequest) (*model.Review, error) {
	if err := validateReviewRequest(req); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if review == nil {
		return nil, model.ErrReviewNotFound
	}
	if review.UserID != actor.ID {
		return nil, model.ErrForbidden
	}

	review.Rating = req.Rating
	review.Title = req.Title
	review.Comment = req.Comment
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	if err := s.productRepo.RecomputeRating(ctx, review.ProductID); err != nil {
		s.logger.Error().Err(err).Str("product_id", review.ProductID.String()).Msg("failed to recompute rating")
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// Delete removes a review (author or admin) and recomputes the rating.
func (s *reviewService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if review == nil {
		return model.ErrReviewNotFound
	}
	if !auth.CanAccess(actor, review.UserID) {
		return model.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.RecomputeRating(ctx, review.ProductID); err != nil {
		s.logger.Error().Err(err).Str("product_id", review.ProductID.String()).Msg("failed to recompute rating")
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.logger.Info().Str("review_id", id.String()).Msg("review deleted")
	return nil
}

// ToggleHelpful flips the actor's helpful vote on a review.
func (s *reviewService) ToggleHelpful(ctx context.Context, userID, reviewID uuid.UUID) (*model.HelpfulResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle helpful vote: %w", err)
	}
	if review == nil {
		return nil, model.ErrReviewNotFound
	}

	marked := false
	if review.MarkedHelpfulBy(userID) {
		voters := review.HelpfulUsers[:0]
		for _, v := range review.HelpfulUsers {
			if v != userID {
				voters = append(voters, v)
			}
		}
		review.HelpfulUsers = voters
		review.Helpful--
	} else {
		review.HelpfulUsers = append(review.HelpfulUsers, userID)
		review.Helpful++
		marked = true
	}

	if err := s.reviewRepo.SetHelpful(ctx, review); err != nil {
		return nil, err
	}

	return &model.HelpfulResponse{Helpful: review.Helpful, Marked: marked}, nil
}

// Stats returns the rating distribution for a product.
func (s *reviewService) Stats(ctx context.Context, productID uuid.UUID) (*model.ReviewStats, error) {
	return s.reviewRepo.Stats(ctx, productID)
}
