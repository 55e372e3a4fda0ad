package repositories

import (
	"stockroom/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	// Update applies the non-nil fields of the patch under an optimistic
	// concurrency check and returns the refreshed row. It returns
	// ErrNotFound for a missing id and ErrConflict when a concurrent
	// write is detected.
	Update(id uint, patch models.ProductUpdate) (*models.Product, error)
	// Delete removes the product and every order item referencing it in
	// one transaction.
	Delete(id uint) error
}
