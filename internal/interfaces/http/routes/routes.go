// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/pethealth-commerce/internal/config"
	"github.com/your-org/pethealth-commerce/internal/domain/cart"
	"github.com/your-org/pethealth-commerce/internal/domain/checkout"
	"github.com/your-org/pethealth-commerce/internal/domain/order"
	"github.com/your-org/pethealth-commerce/internal/domain/wallet"
	"github.com/your-org/pethealth-commerce/internal/interfaces/http/handlers"
	"github.com/your-org/pethealth-commerce/internal/interfaces/http/middleware"
	"github.com/your-org/pethealth-commerce/internal/pkg/receipt"
)

// Dependencies carries the constructed domain services into route setup
type Dependencies struct {
	Config      *config.Config
	Store       *cart.Store
	Coordinator *checkout.Coordinator
	Wallet      *wallet.Client
	Orders      *order.Service
	Receipts    *receipt.Service
}

// SetupRoutes wires all API routes. Every route requires an access token
// issued by the upstream auth service.
func SetupRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Store)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Coordinator)
	walletHandler := handlers.NewWalletHandler(deps.Wallet)
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Receipts)

	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config))
	{
		carts := protected.Group("/cart/:category")
		{
			carts.GET("", cartHandler.GetCart)
			carts.DELETE("", cartHandler.ClearCart)
			carts.GET("/count", cartHandler.GetCartCount)
			carts.POST("/items", cartHandler.AddItem)
			carts.POST("/items/:productId/increase", cartHandler.IncreaseItem)
			carts.POST("/items/:productId/decrease", cartHandler.DecreaseItem)
			carts.DELETE("/items/:productId", cartHandler.RemoveItem)
		}

		co := protected.Group("/checkout/:category")
		{
			co.POST("", checkoutHandler.Checkout)
			co.GET("/state", checkoutHandler.GetState)
		}

		protected.GET("/wallet/balance", walletHandler.GetBalance)

		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.GET("/:id/receipt", orderHandler.GetReceipt)
		}
	}
}
