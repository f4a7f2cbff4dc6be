package orderControllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound  = apierror.NotFound("User not found")
	ErrOrderNotFound = apierror.NotFound("Order not found")
	ErrNoAddress     = apierror.Precondition("User has no shipping address")
	ErrEmptyCart     = apierror.Precondition("Cart is empty")
	ErrOrderTaken    = apierror.Conflict("Order id already belongs to another user")
)

// MaterializeInput describes one checkout. OrderID is the external
// reference the order is stored under; Amount, when set, is the amount the
// payment provider charged and becomes the order total.
type MaterializeInput struct {
	UserID    string
	OrderID   string
	PaymentID string
	Amount    *decimal.Decimal
	Paid      bool
}

// MaterializeOrder turns the user's cart into an order. The existence check,
// cart read, order insert and cart clear all run in one transaction with
// the cart row locked, so a cart is consumed by at most one order.
//
// Repeating a call with the same OrderID for the same user returns the
// stored order with created=false and changes nothing.
func MaterializeOrder(db *gorm.DB, in MaterializeInput, policy config.OrderPolicy) (*models.Order, bool, error) {
	if in.UserID == "" || in.OrderID == "" {
		return nil, false, apierror.Validation("user and order id are required")
	}
	if in.Amount != nil && !in.Amount.IsPositive() {
		return nil, false, apierror.Validation("amount must be positive")
	}

	var created bool
	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := findPlacedOrder(tx, in)
		if err != nil || existing != nil {
			return err
		}

		if err := tx.Select("id").First(&models.User{}, "id = ?", in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var address models.Address
		if err := tx.Where("user_id = ?", in.UserID).Order("created_at ASC").First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoAddress
			}
			return err
		}

		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", in.UserID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}

		var lines []models.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", cart.ID).
			Order("created_at ASC").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		items, sum, err := snapshotItems(lines, policy.DiscountSnapshot)
		if err != nil {
			return err
		}

		total := sum
		if in.Amount != nil {
			total = *in.Amount
			if !total.Equal(sum) {
				log.Printf("⚠️ [ORDER_MATERIALIZE] order %s charged %s but cart totals %s", in.OrderID, total, sum)
			}
		}

		order := models.Order{
			ID:         in.OrderID,
			UserID:     in.UserID,
			AddressID:  &address.ID,
			Status:     models.OrderStatusProcessing,
			Total:      total,
			Payable:    total,
			PaymentID:  in.PaymentID,
			IsPaid:     in.Paid,
			OrderItems: items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		if !apierror.IsDuplicateKey(err) {
			var apiErr *apierror.Error
			if errors.As(err, &apiErr) {
				return nil, false, err
			}
			return nil, false, apierror.Internal("Failed to create order", err)
		}
		// A concurrent confirmation inserted the same order id first.
		existing, ferr := findPlacedOrder(db, in)
		if ferr != nil {
			return nil, false, ferr
		}
		if existing == nil {
			return nil, false, apierror.Internal("Failed to create order", err)
		}
	}

	order, err := LoadOrder(db, in.OrderID)
	if err != nil {
		return nil, false, err
	}
	return order, created, nil
}

// findPlacedOrder returns the order already stored under in.OrderID, nil
// when there is none, or ErrOrderTaken when it belongs to someone else.
func findPlacedOrder(db *gorm.DB, in MaterializeInput) (*models.Order, error) {
	var order models.Order
	err := db.Select("id", "user_id").First(&order, "id = ?", in.OrderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != in.UserID {
		return nil, ErrOrderTaken
	}
	return &order, nil
}

// snapshotItems copies each cart line with the product's current price.
// The discount copied depends on source: "product" or "none".
func snapshotItems(lines []models.CartItem, source string) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	sum := decimal.Zero
	for _, line := range lines {
		if line.Product == nil {
			return nil, decimal.Zero, apierror.Precondition("Cart references a missing product")
		}
		discount := decimal.Zero
		if source != "none" {
			discount = line.Product.Discount
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Count:     line.Count,
			Price:     line.Product.Price,
			Discount:  discount,
		})
		sum = sum.Add(line.Product.Price.Sub(discount).Mul(decimal.NewFromInt(int64(line.Count))))
	}
	return items, sum, nil
}

// LoadOrder fetches an order with its items, products, user and address.
func LoadOrder(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("OrderItems", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).
		Preload("OrderItems.Product").
		Preload("User").
		Preload("Address").
		First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, apierror.Internal("Failed to fetch order", err)
	}
	return &order, nil
}

// generateOrderRef names a pay-on-delivery order, which has no gateway
// order id: a sortable timestamp followed by a random uuid.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Notifier announces placed orders. Both fields are optional.
type Notifier struct {
	Hub    *Hub
	Mailer notify.Mailer
}

// OrderPlaced broadcasts the order and, when the customer has an email
// address, sends a confirmation in the background.
func (n *Notifier) OrderPlaced(order *models.Order) {
	if n == nil {
		return
	}
	n.Hub.Broadcast("created", *order)

	if n.Mailer == nil || order.User == nil || order.User.Email == nil || *order.User.Email == "" {
		return
	}
	to := *order.User.Email
	subject, html := notify.OrderConfirmationEmail(order.ID, order.Payable.StringFixed(2))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := n.Mailer.SendMail(ctx, to, subject, html); err != nil {
			log.Printf("❌ [ORDER_MAIL] order %s: %v", order.ID, err)
		}
	}()
}

// -------- Handlers --------

// POST /api/orders
//
// Pay-on-delivery checkout: the cart becomes an unpaid order under a
// generated reference.
func PlaceOrderHandler(db *gorm.DB, policy config.OrderPolicy, notifier *Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			apierror.Respond(c, "[ORDER_PLACE]", apierror.Unauthorized("Unauthorized"))
			return
		}

		order, _, err := MaterializeOrder(db, MaterializeInput{
			UserID:  identity.UserID,
			OrderID: generateOrderRef(),
		}, policy)
		if err != nil {
			apierror.Respond(c, "[ORDER_PLACE]", err)
			return
		}

		log.Printf("🛒 [ORDER_PLACE] order %s placed by %s", order.ID, identity.UserID)
		notifier.OrderPlaced(order)
		c.JSON(http.StatusCreated, order)
	}
}

// GET /api/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("OrderItems").Preload("OrderItems.Product").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			apierror.Respond(c, "[ORDERS_GET]", apierror.Internal("Failed to fetch orders", err))
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/profile/orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			apierror.Respond(c, "[PROFILE_ORDERS]", apierror.Unauthorized("Unauthorized"))
			return
		}
		orders, err := ordersForUser(db, identity.UserID)
		if err != nil {
			apierror.Respond(c, "[PROFILE_ORDERS]", err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/users/:userId/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ordersForUser(db, c.Param("userId"))
		if err != nil {
			apierror.Respond(c, "[USER_ORDERS]", err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func ordersForUser(db *gorm.DB, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := db.
		Where("user_id = ?", userID).
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Preload("Address").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apierror.Internal("Failed to fetch orders", err)
	}
	return orders, nil
}

// GET /api/orders/:orderId
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := LoadOrder(db, c.Param("orderId"))
		if err != nil {
			apierror.Respond(c, "[ORDER_GET]", err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
