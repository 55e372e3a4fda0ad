package repositories

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all repository implementations. Store-level
// failures are wrapped with %w so callers can unwrap them, but handlers only
// ever expose them through the generic database-error case.
var (
	// ErrNotFound signals that no entity with the requested id exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference signals that an order references a nonexistent
	// product.
	ErrInvalidReference = errors.New("invalid product id")

	// ErrConflict signals that an optimistic update lost against a
	// concurrent write.
	ErrConflict = errors.New("integrity error")
)

// InsufficientStockError reports a product whose stock cannot cover the
// requested quantity. It carries the offending product's id.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (requested: %d, available: %d)",
		e.ProductID, e.Requested, e.Available)
}
