package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"velan-store/internal/cache"
	"velan-store/internal/model"
	"velan-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	railLimit     = 8
	relatedLimit  = 4
	detailReviews = 5
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves one page of the catalogue matching the filter.
func (s *productService) List(ctx context.Context, filter *model.ProductFilter) (*model.ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 12
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	return &model.ProductPage{
		Products:    products,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		CurrentPage: filter.Page,
	}, nil
}

// Get retrieves a product with its recent reviews, bumping the view counter.
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if err := s.productRepo.IncrementViews(ctx, id); err != nil {
		// A missed view bump never blocks the read.
		s.logger.Warn().Err(err).Str("product_id", id.String()).Msg("failed to increment views")
	} else {
		product.Views++
	}

	reviews, _, err := s.reviewRepo.ListByProduct(ctx, id, 1, detailReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to get product reviews: %w", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	return &model.ProductDetail{Product: *product, Reviews: reviews}, nil
}

// validateProductInput applies the catalogue field rules.
func validateProductInput(input *model.ProductInput) error {
	if input.Title == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Title is required")
	}
	if input.Price <= 0 {
		return model.NewDomainError(model.ErrCodeInvalidAmount, "Price must be greater than zero")
	}
	if input.Stock < 0 {
		return model.NewDomainError(model.ErrCodeInvalidQuantity, "Stock cannot be negative")
	}
	if input.Discount < 0 || input.Discount > 100 {
		return model.NewDomainError(model.ErrCodeInvalidAmount, "Discount must be between 0 and 100")
	}

	for _, c := range model.ValidCategories {
		if input.Category == c {
			return nil
		}
	}
	return model.NewDomainError(model.ErrCodeMissingField,
		fmt.Sprintf("Category must be one of: %v", model.ValidCategories))
}

func applyProductInput(p *model.Product, input *model.ProductInput) {
	p.Title = input.Title
	p.Brand = input.Brand
	p.Description = input.Description
	p.Price = input.Price
	p.Category = input.Category
	p.Stock = input.Stock
	p.Discount = input.Discount
	p.Featured = input.Featured
	p.Images = input.Images
	p.Tags = input.Tags
	p.Season = input.Season
	p.Occasion = input.Occasion
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	applyProductInput(product, input)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateRails(ctx)
	s.logger.Info().Str("product_id", product.ID.String()).Str("title", product.Title).Msg("product created")
	return product, nil
}

// Update overwrites a product's fields.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	applyProductInput(product, input)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateRails(ctx)
	return product, nil
}

// Delete removes a product and its reviews.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateRails(ctx)
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// Brands lists the distinct catalogue brands.
func (s *productService) Brands(ctx context.Context) ([]string, error) {
	return s.productRepo.Brands(ctx)
}

// rail serves a product list through the cache, falling back to the
// repository on a miss.
func (s *productService) rail(ctx context.Context, key string, fetch func(context.Context, int) ([]model.Product, error)) ([]model.Product, error) {
	if data, ok := s.cache.Get(ctx, key); ok {
		var products []model.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}

	products, err := fetch(ctx, railLimit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	if data, err := json.Marshal(products); err == nil {
		s.cache.Set(ctx, key, data, s.cacheTTL)
	}

	return products, nil
}

func (s *productService) invalidateRails(ctx context.Context) {
	s.cache.Delete(ctx, cache.RailKeys...)
}

// Featured lists the featured rail.
func (s *productService) Featured(ctx context.Context) ([]model.Product, error) {
	return s.rail(ctx, cache.KeyFeatured, s.productRepo.Featured)
}

// Trending lists the trending rail.
func (s *productService) Trending(ctx context.Context) ([]model.Product, error) {
	return s.rail(ctx, cache.KeyTrending, s.productRepo.Trending)
}

// NewArrivals lists the newest products rail.
func (s *productService) NewArrivals(ctx context.Context) ([]model.Product, error) {
	return s.rail(ctx, cache.KeyNewArrivals, s.productRepo.NewArrivals)
}

// BestSellers lists products ranked by quantity sold. Not cached: order
// volume moves it too often for a stale rail to be worth it.
func (s *productService) BestSellers(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.BestSellers(ctx, railLimit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// Related lists products sharing the given product's category or brand.
func (s *productService) Related(ctx context.Context, id uuid.UUID) ([]model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	related, err := s.productRepo.Related(ctx, product, relatedLimit)
	if err != nil {
		return nil, err
	}
	if related == nil {
		related = []model.Product{}
	}
	return related, nil
}

// Stats aggregates the admin catalogue statistics.
func (s *productService) Stats(ctx context.Context) (*model.ProductStats, error) {
	return s.productRepo.Stats(ctx)
}
