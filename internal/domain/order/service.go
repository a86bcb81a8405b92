// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pethealth-commerce/internal/domain/cart"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when an order does not exist for the user
var ErrOrderNotFound = errors.New("order not found")

// Service handles purchase history
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{
		db:  db,
		log: log,
	}
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// ListResponse represents the paginated order history
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// RecordPurchase writes the purchase row for a checked-out cart snapshot
func (s *Service) RecordPurchase(ctx context.Context, userID uint, category cart.Category, snapshot *cart.Cart, idempotencyKey string) (*Order, error) {
	items := make([]OrderItem, len(snapshot.Items))
	for i, line := range snapshot.Items {
		items[i] = OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		}
	}

	ord := &Order{
		OrderNumber:   generateOrderNumber(),
		UserID:        userID,
		Category:      string(category),
		TotalAmount:   snapshot.Total(),
		WalletRequest: idempotencyKey,
		Items:         items,
	}

	if err := s.db.WithContext(ctx).Create(ord).Error; err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_number": ord.OrderNumber,
		"user_id":      userID,
		"category":     category,
		"total_cents":  ord.TotalAmount,
	}).Info("Purchase recorded")

	return ord, nil
}

// ListOrders returns the user's purchase history, newest first
func (s *Service) ListOrders(ctx context.Context, userID uint, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetOrder returns one order owned by the user
func (s *Service) GetOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	var ord Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	return &ord, nil
}

// generateOrderNumber builds a unique, human-readable order number
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
