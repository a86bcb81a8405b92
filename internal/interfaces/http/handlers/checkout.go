// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pethealth-commerce/internal/domain/cart"
	"github.com/your-org/pethealth-commerce/internal/domain/checkout"
	"github.com/your-org/pethealth-commerce/internal/domain/wallet"
	"github.com/your-org/pethealth-commerce/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	coordinator *checkout.Coordinator
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(coordinator *checkout.Coordinator) *CheckoutHandler {
	return &CheckoutHandler{
		coordinator: coordinator,
	}
}

// Checkout handles POST /checkout/:category
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, category, ok := h.params(c)
	if !ok {
		return
	}

	result, err := h.coordinator.Checkout(c.Request.Context(), userID, category)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout completed successfully",
		"data":    result,
	})
}

// GetState handles GET /checkout/:category/state
func (h *CheckoutHandler) GetState(c *gin.Context) {
	userID, category, ok := h.params(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"state": h.coordinator.State(userID, category),
		},
	})
}

func (h *CheckoutHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrMissingAccount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A checkout is already in progress for this cart",
		})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error": "Insufficient wallet balance",
		})
	case errors.Is(err, wallet.ErrUnavailable):
		// The deduction outcome may be unknown; never invite a blind retry
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Could not reach the wallet service. Verify your balance before trying again.",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout failed. Verify your balance before trying again.",
		})
	}
}

func (h *CheckoutHandler) params(c *gin.Context) (uint, cart.Category, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return 0, "", false
	}

	category, err := cart.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return 0, "", false
	}

	return userID, category, true
}
