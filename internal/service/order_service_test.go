package service

import (
	"context"
	"testing"
	"time"

	"velan-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderServiceForTest(
	orderRepo *MockOrderRepository,
	productRepo *MockProductRepository,
	couponRepo *MockCouponRepository,
	provider *MockPaymentProvider,
) OrderService {
	return NewOrderService(orderRepo, productRepo, couponRepo,
		new(MockUserRepository), new(MockReviewRepository), provider, zerolog.Nop())
}

func shippingAddressFixture() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:   "Priya Raman",
		Address:    "12 Mount Road",
		City:       "Chennai",
		PostalCode: "600002",
		Country:    "India",
	}
}

func TestOrderService_Create_Success(t *testing.T) {
	ctx := context.Background()

	userID := uuid.New()
	p1 := &model.Product{ID: uuid.New(), Title: "Steel Gate", Price: 100, Stock: 5}
	p2 := &model.Product{ID: uuid.New(), Title: "Window Frame", Price: 50, Stock: 3}

	req := &model.OrderRequest{
		Items: []model.OrderItemRequest{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
		ShippingAddress: shippingAddressFixture(),
		PaymentMethod:   "cod",
		TotalAmount:     285,
		Tax:             25,
		ShippingCost:    10,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	mockProductRepo.On("GetByID", ctx, p1.ID).Return(p1, nil)
	mockProductRepo.On("GetByID", ctx, p2.ID).Return(p2, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, p1.ID, 2).Return(true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, p2.ID, 1).Return(true, nil)
	mockTx.On("Commit", ctx).Return(nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, new(MockCouponRepository), new(MockPaymentProvider))

	order, err := svc.Create(ctx, userID, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, userID, order.UserID)
	assert.InDelta(t, 250.0, order.Subtotal, 0.001)
	assert.InDelta(t, 25.0, order.Tax, 0.001)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Steel Gate", order.Items[0].Title)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, model.OrderStatusPending, order.StatusHistory[0].Status)

	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.committed)
	assert.False(t, mockTx.rolledBack)
}

func TestOrderService_Create_AppliesProductDiscount(t *testing.T) {
	ctx := context.Background()

	// 20% off 100 -> unit price 80.
	p := &model.Product{ID: uuid.New(), Title: "Roof Sheet", Price: 100, Discount: 20, Stock: 10}

	req := &model.OrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: p.ID, Quantity: 2}},
		ShippingAddress: shippingAddressFixture(),
		PaymentMethod:   "cod",
		TotalAmount:     176,
		Tax:             16,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	mockProductRepo.On("GetByID", ctx, p.ID).Return(p, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, p.ID, 2).Return(true, nil)
	mockTx.On("Commit", ctx).Return(nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, new(MockCouponRepository), new(MockPaymentProvider))

	order, err := svc.Create(ctx, uuid.New(), req)

	require.NoError(t, err)
	assert.InDelta(t, 80.0, order.Items[0].Price, 0.001)
	assert.InDelta(t, 160.0, order.Subtotal, 0.001)
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	ctx := context.Background()

	p := &model.Product{ID: uuid.New(), Title: "Steel Gate", Price: 100, Stock: 1}

	req := &model.OrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: p.ID, Quantity: 3}},
		ShippingAddress: shippingAddressFixture(),
		PaymentMethod:   "cod",
		TotalAmount:     300,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockProductRepo.On("GetByID", ctx, p.ID).Return(p, nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, new(MockCouponRepository), new(MockPaymentProvider))

	order, err := svc.Create(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.Nil(t, order)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInsufficientStock, domainErr.Code)
	assert.Contains(t, domainErr.Message, "Steel Gate")
	assert.Contains(t, domainErr.Message, "Available: 1")

	// Nothing was written.
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderService_Create_DecrementRaceRollsBack(t *testing.T) {
	ctx := context.Background()

	p := &model.Product{ID: uuid.New(), Title: "Steel Gate", Price: 100, Stock: 2}

	req := &model.OrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: p.ID, Quantity: 2}},
		ShippingAddress: shippingAddressFixture(),
		PaymentMethod:   "cod",
		TotalAmount:     200,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	mockProductRepo.On("GetByID", ctx, p.ID).Return(p, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	// A concurrent order consumed the stock between validation and decrement.
	mockProductRepo.On("DecrementStock", ctx, mockTx, p.ID, 2).Return(false, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, new(MockCouponRepository), new(MockPaymentProvider))

	order, err := svc.Create(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.Nil(t, order)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInsufficientStock, domainErr.Code)

	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
}

func TestOrderService_Create_TotalMismatch(t *testing.T) {
	ctx := context.Background()

	p := &model.Product{ID: uuid.New(), Title: "Steel Gate", Price: 100, Stock: 5}

	req := &model.OrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: shippingAddressFixture(),
		PaymentMethod:   "cod",
		// Claims a 90 subtotal against a stored price of 100.
		TotalAmount: 90,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockProductRepo.On("GetByID", ctx, p.ID).Return(p, nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, new(MockCouponRepository), new(MockPaymentProvider))

	order, err := svc.Create(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.Nil(t, order)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeTotalMismatch, domainErr.Code)

	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderService_Create_WithCoupon(t *testing.T) {
	ctx := context.Background()

	p := &model.Product{ID: uuid.New(), Title: "Steel Gate", Price: 100, Stock: 5}
	coupon := &model.Coupon{
		ID:           uuid.New(),
		Code:         "SAVE10",
		Discount:     10,
		DiscountType: model.DiscountTypePercentage,
		ValidFrom:    time.Now().Add(-time.Hour),
		ValidUntil:   time.Now().Add(time.Hour),
		Active:       true,
	}

	req := &model.OrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: p.ID, Quantity: 2}},
		ShippingAddress: shippingAddressFixture(),
		PaymentMethod:   "cod",
		CouponCode:      "SAVE10",
		// subtotal 200, 10% off -> total 180
		TotalAmount: 180,
		Discount:    20,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockCouponRepo := new(MockCouponRepository)
	mockTx := new(MockTx)

	mockProductRepo.On("GetByID", ctx, p.ID).Return(p, nil)
	mockCouponRepo.On("GetByCode", ctx, "SAVE10").Return(coupon, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockCouponRepo.On("IncrementUsage", ctx, mockTx, coupon.ID).Return(nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, p.ID, 2).Return(true, nil)
	mockTx.On("Commit", ctx).Return(nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, mockCouponRepo, new(MockPaymentProvider))

	order, err := svc.Create(ctx, uuid.New(), req)

	require.NoError(t, err)
	assert.InDelta(t, 20.0, order.Discount, 0.001)
	assert.Equal(t, "SAVE10", order.CouponCode)
	mockCouponRepo.AssertExpectations(t)
}

func TestOrderService_Create_ExpiredCoupon(t *testing.T) {
	ctx := context.Background()

	p := &model.Product{ID: uuid.New(), Title: "Steel Gate", Price: 100, Stock: 5}
	coupon := &model.Coupon{
		ID:           uuid.New(),
		Code:         "OLD",
		Discount:     10,
		DiscountType: model.DiscountTypePercentage,
		ValidFrom:    time.Now().Add(-48 * time.Hour),
		ValidUntil:   time.Now().Add(-24 * time.Hour),
		Active:       true,
	}

	req := &model.OrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: shippingAddressFixture(),
		PaymentMethod:   "cod",
		CouponCode:      "OLD",
		TotalAmount:     100,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockCouponRepo := new(MockCouponRepository)

	mockProductRepo.On("GetByID", ctx, p.ID).Return(p, nil)
	mockCouponRepo.On("GetByCode", ctx, "OLD").Return(coupon, nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, mockCouponRepo, new(MockPaymentProvider))

	order, err := svc.Create(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.Equal(t, model.ErrInvalidCoupon, err)
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderService_VerifyAndCreate_BadSignature(t *testing.T) {
	ctx := context.Background()

	mockProvider := new(MockPaymentProvider)
	mockProvider.On("VerifySignature", "order_1", "pay_1", "bad").Return(false)

	mockOrderRepo := new(MockOrderRepository)
	svc := newOrderServiceForTest(mockOrderRepo, new(MockProductRepository), new(MockCouponRepository), mockProvider)

	order, err := svc.VerifyAndCreate(ctx, uuid.New(), &model.VerifyPaymentRequest{
		ProviderOrderID: "order_1",
		PaymentID:       "pay_1",
		Signature:       "bad",
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.Equal(t, model.ErrPaymentVerification, err)
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
	mockOrderRepo.AssertNotCalled(t, "Create")
}

func TestOrderService_VerifyAndCreate_Success(t *testing.T) {
	ctx := context.Background()

	p := &model.Product{ID: uuid.New(), Title: "Steel Gate", Price: 100, Stock: 5}

	mockProvider := new(MockPaymentProvider)
	mockProvider.On("VerifySignature", "order_1", "pay_1", "sig").Return(true)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	mockProductRepo.On("GetByID", ctx, p.ID).Return(p, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, p.ID, 1).Return(true, nil)
	mockTx.On("Commit", ctx).Return(nil)

	svc := newOrderServiceForTest(mockOrderRepo, mockProductRepo, new(MockCouponRepository), mockProvider)

	order, err := svc.VerifyAndCreate(ctx, uuid.New(), &model.VerifyPaymentRequest{
		ProviderOrderID: "order_1",
		PaymentID:       "pay_1",
		Signature:       "sig",
		Order: model.OrderRequest{
			Items:           []model.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
			ShippingAddress: shippingAddressFixture(),
			PaymentMethod:   "razorpay",
			TotalAmount:     110,
		},
	})

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "pay_1", order.PaymentID)
	assert.Equal(t, "order_1", order.ProviderOrderID)
	// Captured totals carry the tax inside: 110 -> 100 + 10.
	assert.InDelta(t, 100.0, order.Subtotal, 0.001)
	assert.InDelta(t, 10.0, order.Tax, 0.001)
}

func TestOrderService_CreateProviderOrder_InvalidAmount(t *testing.T) {
	svc := newOrderServiceForTest(new(MockOrderRepository), new(MockProductRepository),
		new(MockCouponRepository), new(MockPaymentProvider))

	_, err := svc.CreateProviderOrder(context.Background(), 0)
	assert.Equal(t, model.ErrInvalidAmount, err)

	_, err = svc.CreateProviderOrder(context.Background(), -5)
	assert.Equal(t, model.ErrInvalidAmount, err)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"pending to processing", model.OrderStatusPending, model.OrderStatusProcessing, false},
		{"shipped to delivered", model.OrderStatusShipped, model.OrderStatusDelivered, false},
		{"delivered is terminal", model.OrderStatusDelivered, model.OrderStatusPending, true},
		{"cancel before delivery", model.OrderStatusProcessing, model.OrderStatusCancelled, false},
		{"backwards move rejected", model.OrderStatusShipped, model.OrderStatusProcessing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := &model.Order{
				ID:     orderID,
				Status: tt.from,
				StatusHistory: []model.StatusEntry{
					{Status: model.OrderStatusPending, Timestamp: time.Now().Add(-time.Hour)},
				},
			}

			mockOrderRepo := new(MockOrderRepository)
			mockOrderRepo.On("GetByID", ctx, orderID).Return(existing, nil)
			if !tt.wantErr {
				mockOrderRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*model.Order")).Return(nil)
			}

			svc := newOrderServiceForTest(mockOrderRepo, new(MockProductRepository),
				new(MockCouponRepository), new(MockPaymentProvider))

			order, err := svc.UpdateStatus(ctx, orderID, &model.OrderStatusRequest{Status: tt.to})

			if tt.wantErr {
				require.Error(t, err)
				var domainErr *model.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, model.ErrCodeInvalidTransition, domainErr.Code)
				mockOrderRepo.AssertNotCalled(t, "UpdateStatus")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
			assert.Equal(t, tt.to, order.StatusHistory[len(order.StatusHistory)-1].Status)
		})
	}
}

func TestOrderService_UpdateStatus_DeliveredMarksPaid(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	existing := &model.Order{
		ID:            orderID,
		Status:        model.OrderStatusShipped,
		PaymentStatus: model.PaymentStatusPending,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, orderID).Return(existing, nil)
	mockOrderRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*model.Order")).Return(nil)

	svc := newOrderServiceForTest(mockOrderRepo, new(MockProductRepository),
		new(MockCouponRepository), new(MockPaymentProvider))

	order, err := svc.UpdateStatus(ctx, orderID, &model.OrderStatusRequest{Status: model.OrderStatusDelivered})

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
}

func TestOrderService_Get_Authorization(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	orderID := uuid.New()

	existing := &model.Order{ID: orderID, UserID: ownerID}

	tests := []struct {
		name    string
		actor   *model.User
		wantErr error
	}{
		{"owner sees own order", &model.User{ID: ownerID, Role: model.RoleUser}, nil},
		{"admin sees any order", &model.User{ID: uuid.New(), Role: model.RoleAdmin}, nil},
		{"stranger is rejected", &model.User{ID: uuid.New(), Role: model.RoleUser}, model.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrderRepo := new(MockOrderRepository)
			mockOrderRepo.On("GetByID", ctx, orderID).Return(existing, nil)

			svc := newOrderServiceForTest(mockOrderRepo, new(MockProductRepository),
				new(MockCouponRepository), new(MockPaymentProvider))

			order, err := svc.Get(ctx, tt.actor, orderID)

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderID, order.ID)
		})
	}
}

func TestOrderService_ListAll_Aggregates(t *testing.T) {
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("ListAll", ctx).Return([]model.Order{
		{TotalAmount: 100},
		{TotalAmount: 250.50},
	}, nil)

	svc := newOrderServiceForTest(mockOrderRepo, new(MockProductRepository),
		new(MockCouponRepository), new(MockPaymentProvider))

	list, err := svc.ListAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.InDelta(t, 350.50, list.TotalAmount, 0.001)
}
