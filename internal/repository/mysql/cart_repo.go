package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/cart"
)

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository creates the cart store.
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepo{db: db}
}

func (r *cartRepo) ListByUser(ctx context.Context, userID int64) ([]*cart.Item, error) {
	var list []*cart.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cartRepo) GetByID(ctx context.Context, id int64) (*cart.Item, error) {
	var it cart.Item
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) GetByUserAndVariant(ctx context.Context, userID, variantID int64) (*cart.Item, error) {
	var it cart.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) Create(ctx context.Context, it *cart.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *cartRepo) Update(ctx context.Context, it *cart.Item) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *cartRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&cart.Item{}, id).Error
}

func (r *cartRepo) ClearByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&cart.Item{}).Error
}
