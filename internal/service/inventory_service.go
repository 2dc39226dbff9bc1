package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
)

// InventoryService is the inventory ledger. Decrement is the only code
// path in the repository that writes variant stock.
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates the ledger.
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// Decrement atomically takes qty units from a variant's stock. The check
// and the write are one conditional UPDATE, so concurrent decrements on
// the same variant can never jointly drive stock negative.
func (s *InventoryService) Decrement(ctx context.Context, variantID, qty int64) error {
	return s.DecrementTx(s.db.WithContext(ctx), variantID, qty)
}

// DecrementTx is Decrement running on a caller-owned transaction, used by
// the payment reconciler so the decrement commits or rolls back with the
// order transition.
func (s *InventoryService) DecrementTx(tx *gorm.DB, variantID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	res := tx.Model(&product.Variant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		GetMonitor().RecordStockDecrement()
		return nil
	}

	// Nothing matched: either the variant is unknown or stock was short.
	var v product.Variant
	if err := tx.First(&v, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: variant %d", ErrNotFound, variantID)
		}
		return err
	}
	return &InsufficientStockError{VariantID: variantID, Requested: qty, Available: v.Stock}
}

// Available reads a variant's current stock.
func (s *InventoryService) Available(ctx context.Context, variantID int64) (int64, error) {
	var v product.Variant
	if err := s.db.WithContext(ctx).First(&v, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: variant %d", ErrNotFound, variantID)
		}
		return 0, err
	}
	return v.Stock, nil
}
