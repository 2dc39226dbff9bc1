package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/order"
)

// OrderService serves order queries and the administrative status
// override. It never performs payment reconciliation.
type OrderService struct {
	repo order.Repository
}

func NewOrderService(repo order.Repository) *OrderService {
	return &OrderService{repo: repo}
}

// OrderView is an order shaped for API responses.
type OrderView struct {
	ID               int64        `json:"id"`
	Total            int64        `json:"total"`
	Status           order.Status `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	InvoiceNumber    string       `json:"invoice_number"`
	InvoiceAvailable bool         `json:"invoice_available"`
	Lines            []order.Line `json:"lines"`
}

// ListByUser returns the user's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]OrderView, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderView, 0, len(list))
	for _, o := range list {
		out = append(out, OrderView{
			ID:               o.ID,
			Total:            o.Total,
			Status:           o.Status,
			CreatedAt:        o.CreatedAt,
			InvoiceNumber:    o.InvoiceNumber(),
			InvoiceAvailable: o.InvoiceAvailable(),
			Lines:            o.Lines,
		})
	}
	return out, nil
}

// ListRecent returns the newest orders across all users.
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	return s.repo.ListRecent(ctx, limit)
}

// ListStalePending surfaces abandoned PENDING orders for operators.
func (s *OrderService) ListStalePending(ctx context.Context, olderThan time.Duration) ([]*order.Order, error) {
	return s.repo.ListStalePending(ctx, olderThan)
}

// OverrideStatus applies an administrative status change, validated
// against the lifecycle graph.
func (s *OrderService) OverrideStatus(ctx context.Context, orderID int64, next order.Status) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return err
	}
	if !o.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	return s.repo.UpdateStatus(ctx, orderID, next)
}
