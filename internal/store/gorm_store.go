// internal/store/gorm_store.go
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edark-import/marketplace-backend/internal/models"
)

// GormStore is the PostgreSQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// BatchUpdateStock decrements (or restores) stock for every adjustment in one
// transaction. Each decrement carries a stock + delta >= 0 predicate, so a
// concurrent order that drained the shelf first makes the update match zero
// rows and the whole batch rolls back.
func (s *GormStore) BatchUpdateStock(ctx context.Context, adjustments []StockAdjustment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range adjustments {
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock + ? >= 0", adj.ProductID, adj.Delta).
				UpdateColumn("stock", gorm.Expr("stock + ?", adj.Delta))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrStockConflict
			}
		}
		return nil
	})
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Save(order).Error
}
