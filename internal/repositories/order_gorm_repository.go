package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stockroom/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their items.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID, with its items.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

// Create runs the order-creation transaction.
//
// Phase one scans every requested line in input order without writing
// anything: an unknown product aborts with ErrInvalidReference, a line whose
// quantity exceeds the product's stock aborts with *InsufficientStockError
// naming that product. The first failing line wins.
//
// Phase two creates the order, its items, and the stock decrements inside one
// transaction. Each decrement is conditional (stock_quantity >= quantity), so
// a concurrent order that drained the stock between the scan and the write
// rolls the whole transaction back as insufficient stock rather than driving
// the quantity negative.
func (r *GORMOrderRepository) Create(order *models.Order, lines []models.OrderLine) error {
	for _, line := range lines {
		var product models.Product
		if err := r.db.First(&product, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReference
			}
			return fmt.Errorf("failed to check stock for product %d: %w", line.ProductID, err)
		}
		if product.StockQuantity < line.Quantity {
			return &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			}
		}
	}

	if order.Version == 0 {
		order.Version = 1
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, line := range lines {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Stock moved since the scan; abort everything.
				return &InsufficientStockError{
					ProductID: line.ProductID,
					Requested: line.Quantity,
				}
			}

			order.Items = append(order.Items, item)
		}
		return nil
	})
	if err != nil {
		order.Items = nil
		var insufficient *InsufficientStockError
		if errors.As(err, &insufficient) {
			return insufficient
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus changes the order's status under the same version
// compare-and-swap used for product updates.
func (r *GORMOrderRepository) UpdateStatus(id uint, status models.OrderStatus) (*models.Order, error) {
	order, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := r.applyStatus(id, order.Version, status); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// applyStatus performs the guarded write for UpdateStatus.
func (r *GORMOrderRepository) applyStatus(id, version uint, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}
