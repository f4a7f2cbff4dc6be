package paymentControllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/config"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type ConfirmPaymentRequest struct {
	PaymentID string           `json:"payment_id"`
	OrderID   string           `json:"order_id"`
	Amount    *decimal.Decimal `json:"amount"`
	Signature string           `json:"signature"`
}

// POST /api/razorpay
func CreatePaymentOrder(gateway Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil || !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Amount is required"})
			return
		}

		receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
		order, err := gateway.CreateOrder(c.Request.Context(), *req.Amount, receipt)
		if err != nil {
			log.Printf("❌ [RAZORPAY_ORDER] %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Payment gateway error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// POST /api/razorpay/confirm
//
// Runs after the checkout widget reports success. The gateway order id
// becomes the order id, so repeated confirmations return the same order.
func ConfirmPayment(db *gorm.DB, policy config.OrderPolicy, notifier *orderControllers.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			apierror.Respond(c, "[ORDER_CONFIRM]", apierror.Unauthorized("Unauthorized"))
			return
		}

		var req ConfirmPaymentRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil ||
			req.PaymentID == "" || req.OrderID == "" || req.Amount == nil {
			apierror.Respond(c, "[ORDER_CONFIRM]", apierror.Validation("Invalid request data"))
			return
		}

		order, created, err := orderControllers.MaterializeOrder(db, orderControllers.MaterializeInput{
			UserID:    identity.UserID,
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
			Amount:    req.Amount,
			Paid:      true,
		}, policy)
		if err != nil {
			apierror.Respond(c, "[ORDER_CONFIRM]", err)
			return
		}

		if !created {
			log.Printf("🔁 [ORDER_CONFIRM] order %s already processed", order.ID)
			c.JSON(http.StatusOK, gin.H{"success": true, "order": order, "alreadyProcessed": true})
			return
		}

		log.Printf("✅ [ORDER_CONFIRM] order %s paid by %s", order.ID, identity.UserID)
		notifier.OrderPlaced(order)
		c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
	}
}
