package orderControllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, id string) models.Order {
	t.Helper()
	user := testutil.SeedUser(t, db, "98765"+id[len(id)-5:], false)
	order := models.Order{ID: id, UserID: user.ID, Status: models.OrderStatusProcessing}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestUpdateOrderStatusAcceptsEveryKnownStatus(t *testing.T) {
	db := testutil.NewDB(t)
	order := seedOrder(t, db, "order_00001")

	for _, status := range models.OrderStatuses {
		updated, err := UpdateOrderStatus(db, order.ID, string(status), Workflow{})
		require.NoError(t, err, status)
		assert.Equal(t, status, updated.Status)

		var stored models.Order
		require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
		assert.Equal(t, status, stored.Status)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := testutil.NewDB(t)
	order := seedOrder(t, db, "order_00002")

	for _, status := range []string{"", "shipped", "PROCESSING", "Refunded", " Shipped"} {
		_, err := UpdateOrderStatus(db, order.ID, status, Workflow{})
		assert.Equal(t, http.StatusBadRequest, apierror.Status(err), status)
	}

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
}

func TestUpdateOrderStatusMissingOrder(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := UpdateOrderStatus(db, "nope", "Shipped", Workflow{})
	assert.Equal(t, http.StatusNotFound, apierror.Status(err))
}

func TestWorkflowEnforcesTransitions(t *testing.T) {
	db := testutil.NewDB(t)
	order := seedOrder(t, db, "order_00003")
	workflow, err := NewWorkflow(config.OrderPolicy{EnforceTransitions: true})
	require.NoError(t, err)

	_, err = UpdateOrderStatus(db, order.ID, "Delivered", workflow)
	assert.Equal(t, http.StatusConflict, apierror.Status(err))

	_, err = UpdateOrderStatus(db, order.ID, "Shipped", workflow)
	require.NoError(t, err)
	_, err = UpdateOrderStatus(db, order.ID, "Shipped", workflow)
	require.NoError(t, err)
	_, err = UpdateOrderStatus(db, order.ID, "Delivered", workflow)
	require.NoError(t, err)
}

func TestNewWorkflowFromPolicy(t *testing.T) {
	workflow, err := NewWorkflow(config.OrderPolicy{})
	require.NoError(t, err)
	assert.True(t, workflow.Allows(models.OrderStatusDenied, models.OrderStatusProcessing))

	workflow, err = NewWorkflow(config.OrderPolicy{
		EnforceTransitions: true,
		Transitions:        map[string][]string{"Processing": {"Cancelled"}},
	})
	require.NoError(t, err)
	assert.True(t, workflow.Allows(models.OrderStatusProcessing, models.OrderStatusCancelled))
	assert.False(t, workflow.Allows(models.OrderStatusProcessing, models.OrderStatusShipped))
	assert.False(t, workflow.Allows(models.OrderStatusCancelled, models.OrderStatusProcessing))

	_, err = NewWorkflow(config.OrderPolicy{
		EnforceTransitions: true,
		Transitions:        map[string][]string{"Processing": {"Lost"}},
	})
	assert.Error(t, err)
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	order := seedOrder(t, db, "order_00004")

	r := gin.New()
	r.PATCH("/api/orders/:orderId", UpdateOrderStatusHandler(db, Workflow{}, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/orders/"+order.ID, bytes.NewBufferString(`{"status":"Shipped"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Shipped"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/orders/"+order.ID, bytes.NewBufferString(`{"status":"Lost"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid status value"}`, w.Body.String())
}
