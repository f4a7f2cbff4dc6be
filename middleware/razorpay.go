package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/junaidrashid-git/storefront-api/apierror"
)

type signedPayment struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Signature string `json:"signature"`
}

// RazorpaySignature checks the checkout signature, an HMAC-SHA256 of
// "order_id|payment_id" keyed with the account secret. When disabled the
// request passes through untouched. The body is cached so the handler can
// bind it again with ShouldBindBodyWith.
func RazorpaySignature(secret string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		var p signedPayment
		if err := c.ShouldBindBodyWith(&p, binding.JSON); err != nil {
			apierror.Respond(c, "[RAZORPAY_SIGNATURE]", apierror.Validation("Invalid request data"))
			return
		}
		if p.Signature == "" {
			apierror.Respond(c, "[RAZORPAY_SIGNATURE]", apierror.Forbidden("missing payment signature"))
			return
		}

		expected := PaymentSignature(secret, p.OrderID, p.PaymentID)
		if !hmac.Equal([]byte(expected), []byte(p.Signature)) {
			log.Printf("[RAZORPAY_SIGNATURE] mismatch for order %s", p.OrderID)
			apierror.Respond(c, "[RAZORPAY_SIGNATURE]", apierror.Forbidden("invalid payment signature"))
			return
		}
		c.Next()
	}
}

func PaymentSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
