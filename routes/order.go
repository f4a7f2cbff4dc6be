package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
)

// SetupOrderRoutes registers order administration on the dashboard group.
func SetupOrderRoutes(dashboard *gin.RouterGroup, d Deps) {
	// Fetch all orders, newest first
	dashboard.GET("/orders", orderControllers.GetAllOrdersHandler(d.DB))
	dashboard.GET("/orders/:orderId", orderControllers.GetOrderByIDHandler(d.DB))

	// Update order status
	dashboard.PATCH("/orders/:orderId", orderControllers.UpdateOrderStatusHandler(d.DB, d.Workflow, d.Hub))

	// websocket endpoint for real-time order updates
	dashboard.GET("/orders-feed", d.Hub.Handler())
}
