// internal/domain/wallet/client.go
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pethealth-commerce/internal/config"
)

var (
	// ErrInsufficientFunds is returned when the account service rejects a
	// deduction for lack of balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnavailable is returned when the account service cannot be
	// reached. The outcome of an in-flight deduction is unknown in that
	// case and the caller must not retry it blindly.
	ErrUnavailable = errors.New("wallet service unavailable")
)

// Balance represents the wallet balance returned by the account service
type Balance struct {
	Balance float64 `json:"balance"` // In currency units
}

// Client talks to the remote account service. The service owns all
// correctness of funds; this client only reads the balance and requests
// deductions over the fixed HTTP contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient creates a wallet client from the service configuration
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Wallet.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Wallet.Timeout,
		},
		log: log,
	}
}

// GetBalance retrieves the current balance for a user, in currency units
func (c *Client) GetBalance(ctx context.Context, userID uint) (float64, error) {
	url := fmt.Sprintf("%s/Wallets/getWalletByUserId/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build balance request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("wallet service returned status %d for balance query", resp.StatusCode)
	}

	var balance Balance
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return 0, fmt.Errorf("failed to decode balance response: %w", err)
	}

	return balance.Balance, nil
}

// DeductAmount asks the account service to deduct amountCents from the
// user's balance. The amount crosses the wire in currency units per the
// upstream contract. Each attempt carries a client-generated idempotency
// key so the service can deduplicate retried requests; only the response
// status code is relied upon.
func (c *Client) DeductAmount(ctx context.Context, userID uint, amountCents int64, idempotencyKey string) error {
	url := fmt.Sprintf("%s/Wallets/deductAmount/%d", c.baseURL, userID)

	body, err := json.Marshal(map[string]float64{
		"amount": float64(amountCents) / 100,
	})
	if err != nil {
		return fmt.Errorf("failed to encode deduction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build deduction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.log.WithFields(logrus.Fields{
			"user_id":         userID,
			"amount_cents":    amountCents,
			"idempotency_key": idempotencyKey,
		}).Info("Wallet deduction confirmed")
		return nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusConflict:
		return ErrInsufficientFunds
	default:
		return fmt.Errorf("wallet service returned status %d for deduction", resp.StatusCode)
	}
}
