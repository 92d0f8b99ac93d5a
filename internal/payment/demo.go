package payment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// DemoProvider stands in when no real payment credentials are configured.
// It issues synthetic order ids; the client skips signature verification on
// this path and creates orders with payment still pending.
type DemoProvider struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewDemoProvider creates the degraded-mode provider.
func NewDemoProvider(logger zerolog.Logger) *DemoProvider {
	return &DemoProvider{
		logger: logger.With().Str("component", "demo-payment").Logger(),
		now:    time.Now,
	}
}

// CreateOrder returns a synthetic order flagged as demo.
func (p *DemoProvider) CreateOrder(ctx context.Context, amount float64) (*ProviderOrder, error) {
	order := &ProviderOrder{
		OrderID:  fmt.Sprintf("demo_order_%d", p.now().UnixMilli()),
		Amount:   int64(math.Round(amount * 100)),
		Currency: "INR",
		Key:      "demo_key",
		IsDemo:   true,
	}

	p.logger.Info().Str("provider_order_id", order.OrderID).Msg("demo payment order created")

	return order, nil
}

// VerifySignature always fails: demo orders are never signature-verified,
// the client creates them through the plain order path instead.
func (p *DemoProvider) VerifySignature(orderID, paymentID, signature string) bool {
	return false
}
