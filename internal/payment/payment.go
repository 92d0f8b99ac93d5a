package payment

import (
	"context"
)

// ProviderOrder is a provider-side payment intent returned to the client so
// it can complete the payment.
type ProviderOrder struct {
	OrderID  string `json:"razorpayOrderId"`
	Amount   int64  `json:"amount"` // smallest currency unit (paise)
	Currency string `json:"currency"`
	Key      string `json:"key"`
	IsDemo   bool   `json:"isDemo"`
}

// Provider abstracts the payment gateway. One implementation is selected at
// startup: the real gateway when credentials are configured, otherwise the
// demo provider.
type Provider interface {
	// CreateOrder registers a payment intent for the given amount (in major
	// currency units) and returns the provider order handle.
	CreateOrder(ctx context.Context, amount float64) (*ProviderOrder, error)

	// VerifySignature checks the signature the client received after
	// completing a payment against the provider order and payment ids.
	VerifySignature(orderID, paymentID, signature string) bool
}
