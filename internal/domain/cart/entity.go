// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is the persisted cart schema version. Carts persisted with
// a different version are discarded on load instead of being migrated.
const SchemaVersion = 1

// Category identifies one of the marketplace cart categories
type Category string

const (
	CategoryPharmacy     Category = "pharmacy"
	CategoryParapharmacy Category = "parapharmacy"
	CategoryStore        Category = "store"
)

var (
	ErrInvalidCategory = errors.New("invalid cart category")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("unit price cannot be negative")
	ErrMissingProduct  = errors.New("product id and name are required")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// ParseCategory validates a raw category string
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPharmacy, CategoryParapharmacy, CategoryStore:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Key builds the persistence key for a user's cart in one category
func Key(userID uint, category Category) string {
	return fmt.Sprintf("%d:%s", userID, category)
}

// LineItem represents one product entry in a cart
type LineItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"` // Price in cents
	Quantity  int       `json:"quantity"`
	ImageRef  string    `json:"image_ref,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// NewLineItem creates a line item, validating its invariants up front
func NewLineItem(productID, name string, unitPrice int64, quantity int, imageRef string) (LineItem, error) {
	if productID == "" || name == "" {
		return LineItem{}, ErrMissingProduct
	}
	if unitPrice < 0 {
		return LineItem{}, ErrInvalidPrice
	}
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}

	return LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		ImageRef:  imageRef,
		AddedAt:   time.Now().UTC(),
	}, nil
}

// Subtotal returns the line total in cents
func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart represents a persisted cart for one user and category.
// Items are ordered by insertion and unique by product id.
type Cart struct {
	SchemaVersion int        `json:"schema_version"`
	Key           string     `json:"key"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique items
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	TotalAmount   int64 `json:"total_amount"`   // In cents
}

// NewCart creates an empty cart for the given key
func NewCart(key string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SchemaVersion: SchemaVersion,
		Key:           key,
		Items:         []LineItem{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the index of the line item for productID, or -1
func (c *Cart) Find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Total returns the sum of unit price times quantity over all items, in
// cents. Cent amounts keep the two-decimal currency value exact.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Summary returns the calculated cart totals
func (c *Cart) Summary() Totals {
	totals := Totals{ItemCount: len(c.Items)}
	for _, item := range c.Items {
		totals.TotalQuantity += item.Quantity
		totals.TotalAmount += item.Subtotal()
	}
	return totals
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = make([]LineItem, len(c.Items))
	copy(clone.Items, c.Items)
	return &clone
}
