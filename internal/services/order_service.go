package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"stockroom/internal/models"
	"stockroom/internal/repositories"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(queue string, body []byte) error
}

// OrderEventsQueue is the queue order lifecycle events are published to.
const OrderEventsQueue = "order_events"

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case events are skipped.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder creates a new order with its line items, reserving stock
// atomically. A zero date defaults to now and an empty status defaults to
// in_progress. On success an order.created event is published; publish
// failures are logged and never surfaced to the caller.
func (s *OrderService) CreateOrder(req models.OrderRequest) (*models.Order, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	status := req.Status
	if status == "" {
		status = models.OrderStatusInProgress
	}

	order := &models.Order{
		Date:   date,
		Status: status,
	}
	if err := s.orderRepo.Create(order, req.Items); err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)
	return order, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id uint, status models.OrderStatus) (*models.Order, error) {
	return s.orderRepo.UpdateStatus(id, status)
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}

	event := map[string]interface{}{
		"event_id": uuid.New().String(),
		"type":     "order.created",
		"order_id": order.ID,
		"status":   order.Status,
		"date":     order.Date,
		"items":    order.Items,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order.created event for order %d: %v", order.ID, err)
		return
	}
	if err := s.publisher.Publish(OrderEventsQueue, body); err != nil {
		log.Printf("Warning: failed to publish order.created event for order %d: %v", order.ID, err)
		return
	}
	log.Printf("Published order.created event for order %d", order.ID)
}
