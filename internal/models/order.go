package models

import "time"

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusInProgress, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// Order represents a customer purchase event.
type Order struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date   time.Time   `json:"date" gorm:"not null"`
	Status OrderStatus `json:"status" gorm:"size:32;not null;default:in_progress"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	Version uint `json:"-" gorm:"not null;default:1"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a line linking one order to one product with a quantity.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderID   uint `json:"order_id" gorm:"not null;index"`
	ProductID uint `json:"product_id" gorm:"not null;index"`
	Quantity  int  `json:"quantity" gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderLine is a requested (product, quantity) pair for order creation.
type OrderLine struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// OrderRequest is the payload for creating an order with its line items.
type OrderRequest struct {
	Date   time.Time   `json:"date"`
	Status OrderStatus `json:"status" validate:"omitempty,oneof=in_progress shipped delivered"`
	Items  []OrderLine `json:"items" validate:"required,min=1,dive"`
}

// OrderStatusRequest is the payload for updating an order's status.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=in_progress shipped delivered"`
}
