package repositories

import (
	"sync"
	"time"

	"stockroom/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It shares a MockProductRepository so order creation can check and decrement
// stock the way the GORM implementation does against the database.
type MockOrderRepository struct {
	orders     map[uint]models.Order
	nextID     uint
	nextItemID uint
	products   *MockProductRepository
	mu         sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository backed
// by the given product repository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:     make(map[uint]models.Order),
		nextID:     1,
		nextItemID: 1,
		products:   products,
	}
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

// Create mirrors the GORM order-creation transaction: scan every line first,
// then commit the order, its items, and the stock decrements. Decrements
// already applied are compensated if a later line fails, so a failed create
// leaves stock untouched.
func (r *MockOrderRepository) Create(order *models.Order, lines []models.OrderLine) error {
	for _, line := range lines {
		product, err := r.products.GetByID(line.ProductID)
		if err != nil {
			return ErrInvalidReference
		}
		if product.StockQuantity < line.Quantity {
			return &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Version == 0 {
		order.Version = 1
	}

	var applied []models.OrderLine
	for _, line := range lines {
		if err := r.products.adjustStock(line.ProductID, -line.Quantity); err != nil {
			for _, done := range applied {
				_ = r.products.adjustStock(done.ProductID, done.Quantity)
			}
			order.ID = 0
			order.Items = nil
			return err
		}
		applied = append(applied, line)

		order.Items = append(order.Items, models.OrderItem{
			ID:        r.nextItemID,
			CreatedAt: now,
			UpdatedAt: now,
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
		r.nextItemID++
	}

	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id uint, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	order.Status = status
	order.Version++
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return &order, nil
}
