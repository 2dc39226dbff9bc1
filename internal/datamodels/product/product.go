package product

import (
	"context"
	"time"
)

// Product is a catalog entry; sellable units are its variants.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	Category    string    `gorm:"size:40;index" json:"category"`
	Variants    []Variant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Variant is a concrete size/color of a product. Stock is only ever
// written through the inventory ledger's conditional decrement.
type Variant struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ProductID int64     `gorm:"index;not null" json:"product_id"`
	Size      string    `gorm:"size:10" json:"size"`
	Color     string    `gorm:"size:20" json:"color"`
	Price     int64     `gorm:"not null" json:"price"` // minor units
	Stock     int64     `gorm:"not null" json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Variant) TableName() string { return "product_variants" }

// Repository is the catalog store interface.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListByCategory(ctx context.Context, category string) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error

	GetVariant(ctx context.Context, id int64) (*Variant, error)
	CreateVariant(ctx context.Context, v *Variant) error
	UpdateVariant(ctx context.Context, v *Variant) error
}
