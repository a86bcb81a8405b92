// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pethealth-commerce/internal/domain/cart"
	"github.com/your-org/pethealth-commerce/internal/domain/order"
	"github.com/your-org/pethealth-commerce/internal/domain/wallet"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingAccount     = errors.New("account is not known")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// State describes a cart's checkout attempt state. A cart is Submitting
// from the moment validation passed until the attempt reached a terminal
// outcome; the UI disables its checkout control while Submitting.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// WalletService is the slice of the remote account service the
// coordinator needs
type WalletService interface {
	GetBalance(ctx context.Context, userID uint) (float64, error)
	DeductAmount(ctx context.Context, userID uint, amountCents int64, idempotencyKey string) error
}

// Recorder persists completed purchases
type Recorder interface {
	RecordPurchase(ctx context.Context, userID uint, category cart.Category, snapshot *cart.Cart, idempotencyKey string) (*order.Order, error)
}

// Result represents a successful checkout
type Result struct {
	OrderNumber   string    `json:"order_number,omitempty"`
	AmountCharged int64     `json:"amount_charged"` // In cents
	ItemCount     int       `json:"item_count"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Coordinator turns a cart into a completed purchase. It validates before
// touching the network, serializes attempts per cart, issues exactly one
// deduction per attempt and leaves the cart untouched on any failure so
// the user can retry.
type Coordinator struct {
	store  *cart.Store
	wallet WalletService
	orders Recorder
	log    *logrus.Logger

	mu         sync.Mutex
	submitting map[string]bool
}

// NewCoordinator creates a checkout coordinator
func NewCoordinator(store *cart.Store, walletSvc WalletService, orders Recorder, log *logrus.Logger) *Coordinator {
	return &Coordinator{
		store:      store,
		wallet:     walletSvc,
		orders:     orders,
		log:        log,
		submitting: make(map[string]bool),
	}
}

// State reports the current checkout state for a user's cart
func (c *Coordinator) State(userID uint, category cart.Category) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting[cart.Key(userID, category)] {
		return StateSubmitting
	}
	return StateIdle
}

// Checkout deducts the cart total from the user's wallet and clears the
// cart. The deduction carries a fresh idempotency key; it is never retried
// automatically, so an unavailable wallet service means the caller must
// verify the balance before trying again.
func (c *Coordinator) Checkout(ctx context.Context, userID uint, category cart.Category) (*Result, error) {
	if userID == 0 {
		return nil, ErrMissingAccount
	}

	key := cart.Key(userID, category)

	// Snapshot before entering Submitting: an empty cart must not cost a
	// network call or occupy the in-flight slot.
	snapshot := c.store.Get(ctx, key)
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if !c.begin(key) {
		return nil, ErrCheckoutInProgress
	}
	defer c.end(key)

	total := snapshot.Total()

	balance, err := c.wallet.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet balance: %w", err)
	}
	if toCents(balance) < total {
		return nil, fmt.Errorf("balance %.2f below cart total %.2f: %w",
			balance, float64(total)/100, wallet.ErrInsufficientFunds)
	}

	idempotencyKey := uuid.New().String()
	if err := c.wallet.DeductAmount(ctx, userID, total, idempotencyKey); err != nil {
		return nil, fmt.Errorf("deduction rejected: %w", err)
	}

	// The user has been charged from here on. Bookkeeping failures are
	// logged but cannot fail the checkout anymore.
	result := &Result{
		AmountCharged: total,
		ItemCount:     len(snapshot.Items),
		CompletedAt:   time.Now().UTC(),
	}

	if ord, err := c.orders.RecordPurchase(ctx, userID, category, snapshot, idempotencyKey); err != nil {
		c.log.WithFields(logrus.Fields{
			"user_id":         userID,
			"category":        category,
			"idempotency_key": idempotencyKey,
			"error":           err.Error(),
		}).Error("Deduction succeeded but purchase record failed")
	} else {
		result.OrderNumber = ord.OrderNumber
	}

	if err := c.store.Clear(ctx, key); err != nil {
		c.log.WithFields(logrus.Fields{
			"cart_key": key,
			"error":    err.Error(),
		}).Warn("Failed to clear persisted cart after checkout")
	}

	return result, nil
}

// begin marks the cart as Submitting, returning false if it already is
func (c *Coordinator) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting[key] {
		return false
	}
	c.submitting[key] = true
	return true
}

func (c *Coordinator) end(key string) {
	c.mu.Lock()
	delete(c.submitting, key)
	c.mu.Unlock()
}

// toCents converts a wire balance in currency units to cents
func toCents(units float64) int64 {
	return int64(math.Round(units * 100))
}
