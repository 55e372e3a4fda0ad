package repositories

import (
	"stockroom/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	// Create validates stock availability for every line, then creates the
	// order, its items, and the stock decrements atomically. On failure no
	// rows are written; it returns ErrInvalidReference for an unknown
	// product and *InsufficientStockError when stock cannot cover a line.
	Create(order *models.Order, lines []models.OrderLine) error
	// UpdateStatus changes the order's status under an optimistic
	// concurrency check and returns the refreshed row.
	UpdateStatus(id uint, status models.OrderStatus) (*models.Order, error)
	// Deletion of orders is intentionally not exposed.
}
