// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Store holds the authoritative in-memory carts and keeps them
// synchronized with the injected repository. Every mutation writes the
// whole cart back; a failed write is logged as a warning and the state
// survives in memory, so the next mutation retries the flush implicitly.
type Store struct {
	repo Repository
	log  *logrus.Logger

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewStore creates a cart store backed by the given repository
func NewStore(repo Repository, log *logrus.Logger) *Store {
	return &Store{
		repo:  repo,
		log:   log,
		carts: make(map[string]*Cart),
	}
}

// Get returns a snapshot of the cart for key, restoring it from the
// repository on first access
func (s *Store) Get(ctx context.Context, key string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, key).Clone()
}

// AddItem adds a line item to the cart. If the product is already in the
// cart the quantities are merged into a single line.
func (s *Store) AddItem(ctx context.Context, key string, item LineItem) (*Cart, error) {
	if item.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx, key)
	if i := c.Find(item.ProductID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		c.Items[i].UnitPrice = item.UnitPrice // Update price in case it changed
	} else {
		c.Items = append(c.Items, item)
	}

	s.flush(ctx, key, c)
	return c.Clone(), nil
}

// Increase raises the quantity of a line item by one
func (s *Store) Increase(ctx context.Context, key, productID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx, key)
	i := c.Find(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	c.Items[i].Quantity++
	s.flush(ctx, key, c)
	return c.Clone(), nil
}

// Decrease lowers the quantity of a line item by one. A line at quantity
// one is removed entirely, so quantities never drop below one.
func (s *Store) Decrease(ctx context.Context, key, productID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx, key)
	i := c.Find(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	if c.Items[i].Quantity <= 1 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity--
	}

	s.flush(ctx, key, c)
	return c.Clone(), nil
}

// Remove deletes a line item unconditionally
func (s *Store) Remove(ctx context.Context, key, productID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx, key)
	i := c.Find(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	s.flush(ctx, key, c)
	return c.Clone(), nil
}

// Clear empties the cart and removes its persisted state. The in-memory
// cart is always reset; a persistence failure is returned for the caller
// to log but does not resurrect the cart.
func (s *Store) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[key] = NewCart(key)

	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to clear persisted cart: %w", err)
	}
	return nil
}

// Total returns the cart total in cents
func (s *Store) Total(ctx context.Context, key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, key).Total()
}

// load returns the in-memory cart for key, restoring from the repository
// on first access. Callers must hold the lock.
func (s *Store) load(ctx context.Context, key string) *Cart {
	if c, ok := s.carts[key]; ok {
		return c
	}

	c, err := s.repo.Load(ctx, key)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"cart_key": key,
			"error":    err.Error(),
		}).Warn("Failed to restore cart from storage, starting empty")
		c = nil
	}
	if c == nil {
		c = NewCart(key)
	}

	s.carts[key] = c
	return c
}

// flush writes the cart back to the repository. Callers must hold the
// lock. Write failures are non-fatal: the in-memory cart stays
// authoritative and the next mutation writes the full state again.
func (s *Store) flush(ctx context.Context, key string, c *Cart) {
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, key, c); err != nil {
		s.log.WithFields(logrus.Fields{
			"cart_key": key,
			"error":    err.Error(),
		}).Warn("Failed to persist cart, keeping in-memory state")
	}
}
