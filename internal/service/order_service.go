package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"velan-store/internal/auth"
	"velan-store/internal/model"
	"velan-store/internal/payment"
	"velan-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// totalTolerance is the largest accepted drift between the client-supplied
// order total and the server-side recomputation.
const totalTolerance = 0.01

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	userRepo    repository.UserRepository
	reviewRepo  repository.ReviewRepository
	provider    payment.Provider
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	provider payment.Provider,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		provider:    provider,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Create places an order paid on delivery or through the plain path.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error) {
	return s.place(ctx, userID, req, "", "")
}

// CreateProviderOrder asks the payment provider for a gateway order.
func (s *orderService) CreateProviderOrder(ctx context.Context, amount float64) (*payment.ProviderOrder, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	return s.provider.CreateOrder(ctx, amount)
}

// VerifyAndCreate checks the gateway signature and, on success, places the
// order with its payment marked as captured. A bad signature writes nothing.
func (s *orderService) VerifyAndCreate(ctx context.Context, userID uuid.UUID, req *model.VerifyPaymentRequest) (*model.Order, error) {
	if req.ProviderOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Missing payment verification details")
	}

	if !s.provider.VerifySignature(req.ProviderOrderID, req.PaymentID, req.Signature) {
		s.logger.Warn().
			Str("provider_order_id", req.ProviderOrderID).
			Str("payment_id", req.PaymentID).
			Msg("payment signature mismatch")
		return nil, model.ErrPaymentVerification
	}

	order, err := s.place(ctx, userID, &req.Order, req.PaymentID, req.ProviderOrderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_id", req.PaymentID).
		Msg("payment verified and order placed")
	return order, nil
}

// place runs the checkout workflow. A non-empty paymentID marks the order
// as already captured by the gateway. The order insert, stock decrements
// and the coupon usage bump share one transaction so a failed line item
// rolls everything back.
func (s *orderService) place(ctx context.Context, userID uuid.UUID, req *model.OrderRequest, paymentID, providerOrderID string) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	// Snapshot the products and recompute the subtotal from stored prices.
	items := make([]model.OrderItem, len(req.Items))
	var subtotal float64
	for i, line := range req.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if product == nil {
			return nil, model.NewDomainError(model.ErrCodeProductNotFound,
				fmt.Sprintf("Product not found: %s", line.Title))
		}
		if product.Stock < line.Quantity {
			return nil, model.NewDomainError(model.ErrCodeInsufficientStock,
				fmt.Sprintf("Insufficient stock for %s. Available: %d", product.Title, product.Stock))
		}

		price := product.FinalPrice()
		items[i] = model.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Brand:     product.Brand,
			Price:     price,
			Quantity:  line.Quantity,
		}
		if len(product.Images) > 0 {
			items[i].Image = product.Images[0]
		}
		subtotal += price * float64(line.Quantity)
	}

	discount := req.Discount
	var coupon *model.Coupon
	if req.CouponCode != "" {
		var err error
		coupon, err = s.couponRepo.GetByCode(ctx, req.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if coupon == nil || !coupon.IsValid(time.Now()) {
			return nil, model.ErrInvalidCoupon
		}
		if subtotal < coupon.MinPurchase {
			return nil, model.NewDomainError(model.ErrCodeInvalidCoupon,
				fmt.Sprintf("Coupon requires a minimum purchase of %.2f", coupon.MinPurchase))
		}
		discount = coupon.CalculateDiscount(subtotal)
	}

	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentID:       paymentID,
		ProviderOrderID: providerOrderID,
		TotalAmount:     req.TotalAmount,
		ShippingCost:    req.ShippingCost,
		Discount:        discount,
		CouponCode:      req.CouponCode,
	}

	if paymentID != "" {
		// Captured payments carry tax inside the total; unwind it.
		order.PaymentStatus = model.PaymentStatusPaid
		order.Subtotal = req.TotalAmount / 1.1
		order.Tax = req.TotalAmount - order.Subtotal
	} else {
		// Cross-check the client's claimed subtotal against the snapshot.
		claimed := req.TotalAmount - req.Tax - req.ShippingCost + discount
		if math.Abs(claimed-subtotal) > totalTolerance {
			s.logger.Warn().
				Float64("claimed", claimed).
				Float64("recomputed", subtotal).
				Msg("order total mismatch")
			return nil, model.NewDomainError(model.ErrCodeTotalMismatch,
				"Order total does not match the current product prices")
		}
		order.Subtotal = subtotal
		order.Tax = req.Tax
	}

	now := time.Now().UTC()
	order.OrderDate = now
	order.CreatedAt = now
	order.UpdatedAt = now
	order.StatusHistory = []model.StatusEntry{{
		Status:    model.OrderStatusPending,
		Timestamp: now,
		Note:      "Order placed",
	}}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if coupon != nil {
		if err = s.couponRepo.IncrementUsage(ctx, tx, coupon.ID); err != nil {
			return nil, err
		}
	}

	for _, item := range order.Items {
		var ok bool
		ok, err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if !ok {
			// A concurrent order won the remaining stock.
			err = model.NewDomainError(model.ErrCodeInsufficientStock,
				fmt.Sprintf("Insufficient stock for %s", item.Title))
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(order.Items)).
		Float64("total", order.TotalAmount).
		Msg("order created")
	return order, nil
}

// Get retrieves an order visible to the actor.
func (s *orderService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if !auth.CanAccess(actor, order.UserID) {
		return nil, model.ErrForbidden
	}
	return order, nil
}

// ListByUser retrieves the actor's own orders.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// ListAll retrieves every order plus the aggregate total.
func (s *orderService) ListAll(ctx context.Context) (*model.AdminOrderList, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	var totalAmount float64
	for _, o := range orders {
		totalAmount += o.TotalAmount
	}

	return &model.AdminOrderList{
		Orders:      orders,
		Total:       len(orders),
		TotalAmount: totalAmount,
	}, nil
}

// UpdateStatus moves an order through the status graph, appending to its
// history.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.OrderStatusRequest) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !model.CanTransitionOrder(order.Status, req.Status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, req.Status))
	}

	now := time.Now().UTC()
	order.Status = req.Status
	order.UpdatedAt = now
	order.StatusHistory = append(order.StatusHistory, model.StatusEntry{
		Status:    req.Status,
		Timestamp: now,
		Note:      req.Note,
	})

	switch req.Status {
	case model.OrderStatusDelivered:
		order.PaymentStatus = model.PaymentStatusPaid
	case model.OrderStatusRefunded:
		order.PaymentStatus = model.PaymentStatusRefunded
	}

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", req.Status).
		Msg("order status updated")
	return order, nil
}

// Dashboard assembles the admin dashboard statistics.
func (s *orderService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	totalRevenue, err := s.orderRepo.Revenue(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthlyRevenue, err := s.orderRepo.Revenue(ctx, monthStart, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	productStats, err := s.productRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	totalUsers, err := s.userRepo.Count(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	newUsers, err := s.userRepo.Count(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	totalReviews, err := s.reviewRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	recent, err := s.orderRepo.Recent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	if recent == nil {
		recent = []model.Order{}
	}

	top, err := s.orderRepo.TopProducts(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	if top == nil {
		top = []model.TopProduct{}
	}

	chart, err := s.orderRepo.DailySales(ctx, 7)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return &model.DashboardStats{
		Orders:       *counts,
		TotalRevenue: totalRevenue,
		MonthlyRev:   monthlyRevenue,
		Products:     *productStats,
		TotalUsers:   totalUsers,
		NewUsers:     newUsers,
		TotalReviews: totalReviews,
		RecentOrders: recent,
		TopProducts:  top,
		SalesChart:   chart,
	}, nil
}

// validateOrderRequest applies the structural checkout rules.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "Order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}
	if req.TotalAmount <= 0 {
		return model.ErrInvalidAmount
	}
	addr := req.ShippingAddress
	if addr.FullName == "" || addr.Address == "" || addr.City == "" || addr.PostalCode == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Shipping address is incomplete")
	}
	return nil
}
