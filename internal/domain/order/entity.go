// internal/domain/order/entity.go
package order

import (
	"time"
)

// Order represents a completed marketplace purchase. Rows are written only
// after the wallet deduction succeeded, so there is no pending state.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	Category      string      `gorm:"not null;size:32" json:"category"`
	TotalAmount   int64       `gorm:"not null" json:"total_amount"` // In cents
	Currency      string      `gorm:"size:3;default:'USD'" json:"currency"`
	WalletRequest string      `gorm:"size:64;index" json:"wallet_request"` // Idempotency key sent to the wallet
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot of one cart line at checkout time
type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"-"`
	ProductID string `gorm:"not null;size:64" json:"product_id"`
	Name      string `gorm:"not null;size:255" json:"name"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"` // In cents
	Quantity  int    `gorm:"not null" json:"quantity"`
	ImageRef  string `gorm:"size:512" json:"image_ref,omitempty"`
}

// TableName overrides the table name
func (OrderItem) TableName() string {
	return "order_items"
}
