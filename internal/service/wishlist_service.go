package service

import (
	"context"
	"fmt"

	"velan-store/internal/model"
	"velan-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// wishlistService implements WishlistService.
type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	logger       zerolog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		logger:       logger.With().Str("service", "wishlist").Logger(),
	}
}

// getOrCreate fetches the user's wishlist, creating an empty one on first use.
func (s *wishlistService) getOrCreate(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	wishlist, err := s.wishlistRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	if wishlist != nil {
		return wishlist, nil
	}
	return s.wishlistRepo.Create(ctx, userID)
}

// Get retrieves the user's wishlist.
func (s *wishlistService) Get(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	return s.getOrCreate(ctx, userID)
}

// Add saves a product to the wishlist and bumps its popularity counter.
func (s *wishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (*model.Wishlist, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	wishlist, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wishlist.Contains(productID) {
		return nil, model.ErrDuplicateWishlist
	}

	if err := s.wishlistRepo.AddItem(ctx, wishlist.ID, productID); err != nil {
		return nil, err
	}
	if err := s.productRepo.AdjustWishlistCount(ctx, productID, 1); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("failed to bump wishlist count")
	}

	return s.wishlistRepo.GetByUser(ctx, userID)
}

// Remove drops a product from the wishlist and decrements its counter.
func (s *wishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) (*model.Wishlist, error) {
	wishlist, err := s.wishlistRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	if wishlist == nil || !wishlist.Contains(productID) {
		return nil, model.ErrWishlistNotFound
	}

	if err := s.wishlistRepo.RemoveItem(ctx, wishlist.ID, productID); err != nil {
		return nil, err
	}
	if err := s.productRepo.AdjustWishlistCount(ctx, productID, -1); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("failed to drop wishlist count")
	}

	return s.wishlistRepo.GetByUser(ctx, userID)
}

// Clear empties the wishlist, rolling back each product's counter.
func (s *wishlistService) Clear(ctx context.Context, userID uuid.UUID) error {
	wishlist, err := s.wishlistRepo.GetByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	if wishlist == nil {
		return nil
	}

	for _, item := range wishlist.Items {
		if err := s.productRepo.AdjustWishlistCount(ctx, item.ProductID, -1); err != nil {
			s.logger.Warn().Err(err).Str("product_id", item.ProductID.String()).Msg("failed to drop wishlist count")
		}
	}

	return s.wishlistRepo.Clear(ctx, wishlist.ID)
}

// Check reports whether the product is on the wishlist.
func (s *wishlistService) Check(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	wishlist, err := s.wishlistRepo.GetByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return wishlist != nil && wishlist.Contains(productID), nil
}

// MoveToCart returns the in-stock subset of the wishlist for the client to
// add to its cart. Out-of-stock products stay on the wishlist.
func (s *wishlistService) MoveToCart(ctx context.Context, userID uuid.UUID) ([]model.Product, error) {
	wishlist, err := s.wishlistRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to move wishlist to cart: %w", err)
	}

	available := []model.Product{}
	if wishlist == nil {
		return available, nil
	}

	for _, item := range wishlist.Items {
		if item.Product != nil && item.Product.Stock > 0 {
			available = append(available, *item.Product)
		}
	}

	return available, nil
}
