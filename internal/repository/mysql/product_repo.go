package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository creates the catalog store.
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).Preload("Variants").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	var list []*product.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) ListByCategory(ctx context.Context, category string) ([]*product.Product, error) {
	query := r.db.WithContext(ctx).Preload("Variants")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	var list []*product.Product
	if err := query.Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&product.Product{}, id).Error
}

func (r *productRepo) GetVariant(ctx context.Context, id int64) (*product.Variant, error) {
	var v product.Variant
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *productRepo) CreateVariant(ctx context.Context, v *product.Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *productRepo) UpdateVariant(ctx context.Context, v *product.Variant) error {
	// Stock is excluded on purpose: only the inventory ledger writes it.
	return r.db.WithContext(ctx).
		Model(v).
		Select("size", "color", "price", "product_id").
		Updates(v).Error
}
