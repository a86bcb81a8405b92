// internal/interfaces/http/handlers/wallet.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pethealth-commerce/internal/domain/wallet"
	"github.com/your-org/pethealth-commerce/internal/interfaces/http/middleware"
)

// WalletHandler proxies wallet balance queries to the remote account
// service
type WalletHandler struct {
	client *wallet.Client
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(client *wallet.Client) *WalletHandler {
	return &WalletHandler{
		client: client,
	}
}

// GetBalance handles GET /wallet/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	balance, err := h.client.GetBalance(c.Request.Context(), userID)
	if errors.Is(err, wallet.ErrUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Wallet service is unavailable",
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve balance",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Balance retrieved successfully",
		"data": gin.H{
			"balance": balance,
		},
	})
}
