package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	paymentControllers "github.com/junaidrashid-git/storefront-api/controllers/payment"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupUserRoutes registers the storefront endpoints. The group already
// requires a signed-in customer.
func SetupUserRoutes(storefront *gin.RouterGroup, d Deps) {
	// ──────────────── Shopping Cart ────────────────
	storefront.GET("/cart", cartControllers.GetUserCart(d.DB))
	storefront.POST("/cart", cartControllers.UpdateCartItem(d.DB))
	storefront.DELETE("/cart", cartControllers.ClearUserCart(d.DB))

	// ──────────────── Checkout ────────────────
	razorpay := storefront.Group("/razorpay")
	{
		razorpay.POST("", paymentControllers.CreatePaymentOrder(d.Gateway))
		razorpay.POST("/confirm",
			middleware.RazorpaySignature(d.Config.Razorpay.SecretKey, d.Config.Razorpay.VerifySignature),
			paymentControllers.ConfirmPayment(d.DB, d.Config.Policy.Orders, d.notifier()),
		)
	}
	storefront.POST("/orders", orderControllers.PlaceOrderHandler(d.DB, d.Config.Policy.Orders, d.notifier()))

	// ──────────────── User Profile ────────────────
	storefront.GET("/profile", userControllers.GetUser(d.DB))
	storefront.PATCH("/profile", userControllers.UpdateUser(d.DB))
	storefront.GET("/profile/orders", orderControllers.GetMyOrdersHandler(d.DB))

	storefront.GET("/addresses", userControllers.GetAddresses(d.DB))
	storefront.POST("/addresses", userControllers.CreateAddress(d.DB))
	storefront.DELETE("/addresses/:id", userControllers.DeleteAddress(d.DB))
}
