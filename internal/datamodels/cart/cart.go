package cart

import (
	"context"
	"time"
)

// Item is one cart position for a user. The full set of a user's items is
// the checkout input; it is cleared only as a side effect of confirmed
// payment, never of order creation.
type Item struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	VariantID int64     `gorm:"index;not null" json:"variant_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Item) TableName() string { return "cart_items" }

// Repository is the cart store interface.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	GetByUserAndVariant(ctx context.Context, userID, variantID int64) (*Item, error)
	Create(ctx context.Context, it *Item) error
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id int64) error
	ClearByUser(ctx context.Context, userID int64) error
}
