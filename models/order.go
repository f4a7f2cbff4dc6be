package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusProcessing       OrderStatus = "Processing"
	OrderStatusShipped          OrderStatus = "Shipped"
	OrderStatusDelivered        OrderStatus = "Delivered"
	OrderStatusReturnProcessing OrderStatus = "ReturnProcessing"
	OrderStatusReturnCompleted  OrderStatus = "ReturnCompleted"
	OrderStatusCancelled        OrderStatus = "Cancelled"
	OrderStatusRefundProcessing OrderStatus = "RefundProcessing"
	OrderStatusRefundCompleted  OrderStatus = "RefundCompleted"
	OrderStatusDenied           OrderStatus = "Denied"
)

// OrderStatuses lists every status an order may carry.
var OrderStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusReturnProcessing,
	OrderStatusReturnCompleted,
	OrderStatusCancelled,
	OrderStatusRefundProcessing,
	OrderStatusRefundCompleted,
	OrderStatusDenied,
}

// Order ids are the payment gateway's order reference, so a second
// confirmation for the same gateway order cannot create another row.
type Order struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	UserID      string          `gorm:"index;not null;size:36" json:"userId"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AddressID   *string         `gorm:"size:36" json:"addressId"`
	Address     *Address        `gorm:"foreignKey:AddressID;constraint:OnDelete:SET NULL" json:"address,omitempty"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'Processing'" json:"status"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Payable     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"payable"`
	PaymentID   string          `gorm:"index" json:"paymentId,omitempty"`
	IsPaid      bool            `json:"isPaid"`
	IsCompleted bool            `json:"isCompleted"`
	OrderItems  []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OrderItem is a frozen copy of a cart line at the moment the order was
// placed. It is never updated afterwards.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string          `gorm:"uniqueIndex:idx_order_product;not null;size:64" json:"orderId"`
	ProductID string          `gorm:"uniqueIndex:idx_order_product;not null;size:36" json:"productId"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Count     int             `gorm:"not null" json:"count"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Discount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Address{},
		&Admin{},
		&Brand{},
		&Banner{},
		&Category{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}

func init() {
	// Prices travel as JSON numbers, matching what the dashboard forms send.
	decimal.MarshalJSONWithoutQuotes = true
}
