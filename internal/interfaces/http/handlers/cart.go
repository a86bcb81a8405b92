// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pethealth-commerce/internal/domain/cart"
	"github.com/your-org/pethealth-commerce/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	store *cart.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{
		store: store,
	}
}

// AddItemRequest represents an add to cart request
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"` // In cents
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	ImageRef  string `json:"image_ref"`
}

// GetCart handles GET /cart/:category
func (h *CartHandler) GetCart(c *gin.Context) {
	key, _, ok := h.cartKey(c)
	if !ok {
		return
	}

	cartState := h.store.Get(c.Request.Context(), key)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartView(cartState),
	})
}

// AddItem handles POST /cart/:category/items
func (h *CartHandler) AddItem(c *gin.Context) {
	key, _, ok := h.cartKey(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := cart.NewLineItem(req.ProductID, req.Name, req.UnitPrice, req.Quantity, req.ImageRef)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	cartState, err := h.store.AddItem(c.Request.Context(), key, item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartView(cartState),
	})
}

// IncreaseItem handles POST /cart/:category/items/:productId/increase
func (h *CartHandler) IncreaseItem(c *gin.Context) {
	h.adjustItem(c, h.store.Increase, "Item quantity increased successfully")
}

// DecreaseItem handles POST /cart/:category/items/:productId/decrease.
// Decreasing a line at quantity one removes it from the cart.
func (h *CartHandler) DecreaseItem(c *gin.Context) {
	h.adjustItem(c, h.store.Decrease, "Item quantity decreased successfully")
}

// RemoveItem handles DELETE /cart/:category/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.adjustItem(c, h.store.Remove, "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart/:category
func (h *CartHandler) ClearCart(c *gin.Context) {
	key, _, ok := h.cartKey(c)
	if !ok {
		return
	}

	if err := h.store.Clear(c.Request.Context(), key); err != nil {
		// The in-memory cart is already empty; report but don't fail
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart cleared, persisted copy may be stale",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCartCount handles GET /cart/:category/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	key, _, ok := h.cartKey(c)
	if !ok {
		return
	}

	totals := h.store.Get(c.Request.Context(), key).Summary()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": totals.TotalQuantity,
		},
	})
}

type mutation func(ctx context.Context, key, productID string) (*cart.Cart, error)

func (h *CartHandler) adjustItem(c *gin.Context, op mutation, message string) {
	key, _, ok := h.cartKey(c)
	if !ok {
		return
	}

	productID := c.Param("productId")

	cartState, err := op(c.Request.Context(), key, productID)
	if errors.Is(err, cart.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found in cart",
		})
		return
	} else if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    cartView(cartState),
	})
}

// cartKey resolves the authenticated user's cart key from the request
func (h *CartHandler) cartKey(c *gin.Context) (string, cart.Category, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return "", "", false
	}

	category, err := cart.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return "", "", false
	}

	return cart.Key(userID, category), category, true
}

// cartView shapes a cart for API responses
func cartView(c *cart.Cart) gin.H {
	return gin.H{
		"items":      c.Items,
		"totals":     c.Summary(),
		"updated_at": c.UpdatedAt,
	}
}
