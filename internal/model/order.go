package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
	OrderStatusRefunded   = "Refunded"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// orderTransitions encodes the allowed status graph: the forward chain
// Pending -> Processing -> Shipped -> Delivered, with Cancelled/Refunded
// reachable at any point before Delivered.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a denormalized snapshot of a product at purchase time.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Brand     string    `json:"brand,omitempty"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
}

// ShippingAddress is the delivery destination captured on checkout.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// StatusEntry is one append-only status history record.
type StatusEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Order represents a customer order. Orders are never hard-deleted.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"userId" db:"user_id"`
	Items           []OrderItem     `json:"products" db:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	Status          string          `json:"status" db:"status"`
	PaymentStatus   string          `json:"paymentStatus" db:"payment_status"`
	PaymentID       string          `json:"paymentId,omitempty" db:"payment_id"`
	ProviderOrderID string          `json:"razorpayOrderId,omitempty" db:"provider_order_id"`
	TotalAmount     float64         `json:"totalAmount" db:"total_amount"`
	Subtotal        float64         `json:"subtotal" db:"subtotal"`
	Tax             float64         `json:"tax" db:"tax"`
	ShippingCost    float64         `json:"shippingCost" db:"shipping_cost"`
	Discount        float64         `json:"discount" db:"discount"`
	CouponCode      string          `json:"couponCode,omitempty" db:"coupon_code"`
	StatusHistory   []StatusEntry   `json:"statusHistory" db:"status_history"`
	OrderDate       time.Time       `json:"orderDate" db:"order_date"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItemRequest is a single cart line in an order request.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product"`
	Title     string    `json:"title,omitempty"`
	Quantity  int       `json:"quantity"`
}

// OrderRequest is the checkout payload.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"products"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	TotalAmount     float64            `json:"totalAmount"`
	Tax             float64            `json:"tax"`
	ShippingCost    float64            `json:"shippingCost"`
	Discount        float64            `json:"discount"`
	CouponCode      string             `json:"couponCode,omitempty"`
}

// ProviderOrderRequest asks the payment provider for a gateway order.
type ProviderOrderRequest struct {
	Amount float64 `json:"amount"`
}

// VerifyPaymentRequest carries the gateway callback fields plus the order
// to place once the signature checks out.
type VerifyPaymentRequest struct {
	ProviderOrderID string       `json:"razorpay_order_id"`
	PaymentID       string       `json:"razorpay_payment_id"`
	Signature       string       `json:"razorpay_signature"`
	Order           OrderRequest `json:"orderData"`
}

// AdminOrderList is the admin order listing with its aggregate total.
type AdminOrderList struct {
	Orders      []Order `json:"orders"`
	Total       int     `json:"total"`
	TotalAmount float64 `json:"totalAmount"`
}

// OrderStatusRequest is the admin status update payload.
type OrderStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	UserID *uuid.UUID
	Status string
}

// DailySales is one day of the dashboard sales chart.
type DailySales struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// TopProduct is a best-selling product aggregate.
type TopProduct struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	TotalSold int       `json:"totalSold"`
	Revenue   float64   `json:"revenue"`
}

// OrderStatusCounts holds per-status order counts.
type OrderStatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
	Cancelled  int `json:"cancelled"`
}

// DashboardStats is the admin dashboard aggregate payload.
type DashboardStats struct {
	Orders       OrderStatusCounts `json:"orders"`
	TotalRevenue float64           `json:"totalRevenue"`
	MonthlyRev   float64           `json:"monthlyRevenue"`
	Products     ProductStats      `json:"products"`
	TotalUsers   int               `json:"totalUsers"`
	NewUsers     int               `json:"newUsersThisMonth"`
	TotalReviews int               `json:"totalReviews"`
	RecentOrders []Order           `json:"recentOrders"`
	TopProducts  []TopProduct      `json:"topProducts"`
	SalesChart   []DailySales      `json:"salesChart"`
}
