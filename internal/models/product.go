package models

import "time"

// Product represents a stocked, sellable item.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string  `json:"name" gorm:"size:255;not null"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" gorm:"not null"`
	StockQuantity int     `json:"stock_quantity" gorm:"not null;default:0"`

	// Version backs the optimistic-concurrency check on updates; it is
	// compared-and-swapped inside the update transaction.
	Version uint `json:"-" gorm:"not null;default:1"`
}

func (Product) TableName() string { return "products" }

// ProductRequest is the payload for creating a product.
type ProductRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	Description   string  `json:"description" validate:"omitempty,max=500"`
	Price         float64 `json:"price" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
}

// ProductUpdate carries the fields of a product update; a nil field means
// "leave unchanged".
type ProductUpdate struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description" validate:"omitempty,max=500"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
}
