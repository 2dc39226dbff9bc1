package order

import (
	"context"
	"fmt"
	"time"
)

// Order is a checkout attempt. Total is fixed at creation from the line
// price snapshots and never recomputed; the line set is immutable after
// creation; orders are never deleted.
type Order struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UserID int64  `gorm:"index;not null" json:"user_id"`
	Total  int64  `gorm:"not null" json:"total"` // minor units
	Status Status `gorm:"size:20;index;not null" json:"status"`
	// PaymentIntentID is empty until a payment handle is requested.
	PaymentIntentID string    `gorm:"size:255;index" json:"payment_intent_id,omitempty"`
	Lines           []Line    `gorm:"foreignKey:OrderID" json:"lines"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Line is one order position with the unit price captured at order
// creation time, immune to later catalog price edits.
type Line struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	OrderID   int64 `gorm:"index;not null" json:"order_id"`
	VariantID int64 `gorm:"index;not null" json:"variant_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
	Price     int64 `gorm:"not null" json:"price"` // unit price snapshot, minor units
}

func (Line) TableName() string { return "order_lines" }

// InvoiceNumber derives the customer-facing invoice reference.
func (o *Order) InvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%05d", o.CreatedAt.Format("20060102"), o.ID)
}

// InvoiceAvailable reports whether an invoice may be issued for the order.
func (o *Order) InvoiceAvailable() bool {
	switch o.Status {
	case StatusPaid, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Repository is the order store interface.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	// ListStalePending finds PENDING orders older than the cutoff, for
	// operator inspection. Nothing expires them automatically.
	ListStalePending(ctx context.Context, olderThan time.Duration) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
