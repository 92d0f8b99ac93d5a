package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// RazorpayProvider creates payment orders against the Razorpay Orders API
// and verifies payment signatures with the key secret.
type RazorpayProvider struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
	logger    zerolog.Logger
}

// NewRazorpayProvider creates a provider backed by the real gateway.
func NewRazorpayProvider(keyID, keySecret string, logger zerolog.Logger) *RazorpayProvider {
	return &RazorpayProvider{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger.With().Str("component", "razorpay").Logger(),
	}
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder registers a payment intent. The gateway expects the amount in
// paise, so the major-unit amount is scaled by 100.
func (p *RazorpayProvider) CreateOrder(ctx context.Context, amount float64) (*ProviderOrder, error) {
	paise := int64(math.Round(amount * 100))

	payload, err := json.Marshal(createOrderRequest{
		Amount:         paise,
		Currency:       "INR",
		Receipt:        fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.SetBasicAuth(p.keyID, p.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error().Err(err).Msg("payment order request failed")
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Error().Int("status", resp.StatusCode).Msg("payment gateway rejected order")
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var created createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	p.logger.Info().Str("provider_order_id", created.ID).Int64("amount", created.Amount).Msg("payment order created")

	return &ProviderOrder{
		OrderID:  created.ID,
		Amount:   created.Amount,
		Currency: created.Currency,
		Key:      p.keyID,
		IsDemo:   false,
	}, nil
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID + "|" + paymentID)
// and compares it to the supplied hex signature in constant time.
func (p *RazorpayProvider) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(p.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
