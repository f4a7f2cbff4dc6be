package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func newSignedRouter(enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/confirm", RazorpaySignature("secret", enabled), func(c *gin.Context) {
		var p signedPayment
		if err := c.ShouldBindBodyWith(&p, binding.JSON); err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, p.PaymentID)
	})
	return r
}

func confirm(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRazorpaySignature(t *testing.T) {
	r := newSignedRouter(true)
	valid := PaymentSignature("secret", "order_1", "pay_1")

	w := confirm(r, `{"order_id":"order_1","payment_id":"pay_1","signature":"`+valid+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pay_1", w.Body.String())

	w = confirm(r, `{"order_id":"order_1","payment_id":"pay_2","signature":"`+valid+`"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = confirm(r, `{"order_id":"order_1","payment_id":"pay_1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = confirm(r, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRazorpaySignatureDisabled(t *testing.T) {
	w := confirm(newSignedRouter(false), `{"order_id":"order_1","payment_id":"pay_1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
