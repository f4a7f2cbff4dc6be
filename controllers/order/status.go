package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

var ErrInvalidStatus = apierror.Validation("Invalid status value")

// DefaultTransitions is used when transitions are enforced but the policy
// file does not list any.
var DefaultTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusProcessing:       {models.OrderStatusShipped, models.OrderStatusCancelled, models.OrderStatusDenied},
	models.OrderStatusShipped:          {models.OrderStatusDelivered, models.OrderStatusReturnProcessing},
	models.OrderStatusDelivered:        {models.OrderStatusReturnProcessing},
	models.OrderStatusReturnProcessing: {models.OrderStatusReturnCompleted, models.OrderStatusDenied},
	models.OrderStatusReturnCompleted:  {models.OrderStatusRefundProcessing},
	models.OrderStatusCancelled:        {models.OrderStatusRefundProcessing},
	models.OrderStatusRefundProcessing: {models.OrderStatusRefundCompleted},
}

// Workflow decides which status changes are accepted. The zero value
// accepts any change between valid statuses.
type Workflow struct {
	Enforce     bool
	Transitions map[models.OrderStatus][]models.OrderStatus
}

// NewWorkflow builds a Workflow from the order policy, rejecting unknown
// status names in the transition table.
func NewWorkflow(policy config.OrderPolicy) (Workflow, error) {
	w := Workflow{Enforce: policy.EnforceTransitions}
	if !w.Enforce {
		return w, nil
	}
	if len(policy.Transitions) == 0 {
		w.Transitions = DefaultTransitions
		return w, nil
	}

	w.Transitions = make(map[models.OrderStatus][]models.OrderStatus, len(policy.Transitions))
	for from, targets := range policy.Transitions {
		fromStatus, ok := ParseStatus(from)
		if !ok {
			return Workflow{}, fmt.Errorf("unknown order status %q in transitions", from)
		}
		for _, to := range targets {
			toStatus, ok := ParseStatus(to)
			if !ok {
				return Workflow{}, fmt.Errorf("unknown order status %q in transitions", to)
			}
			w.Transitions[fromStatus] = append(w.Transitions[fromStatus], toStatus)
		}
	}
	return w, nil
}

// ParseStatus matches s exactly against the known statuses.
func ParseStatus(s string) (models.OrderStatus, bool) {
	for _, status := range models.OrderStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// Allows reports whether an order may move from one status to another.
// Re-applying the current status is always allowed.
func (w Workflow) Allows(from, to models.OrderStatus) bool {
	if !w.Enforce || from == to {
		return true
	}
	for _, next := range w.Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateOrderStatus validates status and writes it to the order. No other
// field of the order changes.
func UpdateOrderStatus(db *gorm.DB, orderID, status string, workflow Workflow) (*models.Order, error) {
	next, ok := ParseStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !workflow.Allows(order.Status, next) {
			return apierror.Conflict(fmt.Sprintf("Cannot move order from %s to %s", order.Status, next))
		}
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		order.Status = next
		return nil
	})
	if err != nil {
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, apierror.Internal("Failed to update order status", err)
	}
	return &order, nil
}

// PATCH /api/orders/:orderId
func UpdateOrderStatusHandler(db *gorm.DB, workflow Workflow, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierror.Respond(c, "[ORDER_PATCH]", ErrInvalidStatus)
			return
		}

		order, err := UpdateOrderStatus(db, c.Param("orderId"), req.Status, workflow)
		if err != nil {
			apierror.Respond(c, "[ORDER_PATCH]", err)
			return
		}

		log.Printf("📦 [ORDER_PATCH] order %s is now %s", order.ID, order.Status)
		hub.Broadcast("updated", *order)
		c.JSON(http.StatusOK, order)
	}
}
