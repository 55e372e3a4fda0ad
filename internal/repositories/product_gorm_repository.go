package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stockroom/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
// A missing row is reported as ErrNotFound, never as a raw store error.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database. The ID and timestamps are
// assigned by the store and written back into product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.Version == 0 {
		product.Version = 1
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of patch to the product. The write is
// guarded by a version compare-and-swap: the row is only touched when its
// version still matches the one read here, so a concurrent write surfaces
// as ErrConflict instead of being silently overwritten.
func (r *GORMProductRepository) Update(id uint, patch models.ProductUpdate) (*models.Product, error) {
	product, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.StockQuantity != nil {
		fields["stock_quantity"] = *patch.StockQuantity
	}

	if err := r.applyProductPatch(id, product.Version, fields); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// applyProductPatch performs the guarded write for Update. Zero rows
// affected on an existing row means the version moved underneath us.
func (r *GORMProductRepository) applyProductPatch(id, version uint, fields map[string]interface{}) error {
	fields["version"] = gorm.Expr("version + 1")
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// Delete removes the product and all order items referencing it in a single
// transaction. The cascade loses order composition history; that behavior is
// inherited and kept deliberately.
func (r *GORMProductRepository) Delete(id uint) error {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get product %d for deletion: %w", id, err)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}
