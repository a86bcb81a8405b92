// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pethealth-commerce/internal/domain/order"
	"github.com/your-org/pethealth-commerce/internal/interfaces/http/middleware"
	"github.com/your-org/pethealth-commerce/internal/pkg/receipt"
)

// OrderHandler handles purchase history endpoints
type OrderHandler struct {
	orderService   *order.Service
	receiptService *receipt.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, receiptService *receipt.Service) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		receiptService: receiptService,
	}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	response, err := h.orderService.ListOrders(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ord, ok := h.loadOrder(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    ord,
	})
}

// GetReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	ord, ok := h.loadOrder(c)
	if !ok {
		return
	}

	pdf, err := h.receiptService.GenerateReceipt(ord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", ord.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

func (h *OrderHandler) loadOrder(c *gin.Context) (*order.Order, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return nil, false
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return nil, false
	}

	ord, err := h.orderService.GetOrder(c.Request.Context(), userID, uint(orderID))
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return nil, false
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return nil, false
	}

	return ord, true
}
