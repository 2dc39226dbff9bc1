package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/cart"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/order"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
	"github.com/TammisettiVikram/SentientShop/internal/events"
)

// Outcome classifies how a payment event was handled. All outcomes are
// reported as success to the provider; the distinction is internal.
type Outcome string

const (
	// OutcomeApplied means state changed: the order became PAID or
	// CANCELLED as a direct result of this event.
	OutcomeApplied Outcome = "applied"
	// OutcomeCancelled means the succeeded event could not be fulfilled
	// and the order was cancelled instead.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeNoop means the event was accepted without any state change
	// (duplicate delivery, unknown order, terminal status).
	OutcomeNoop Outcome = "noop"
)

// ReconcileService applies asynchronous payment outcomes to orders and
// inventory exactly once despite at-least-once, unordered delivery. The
// matched order row stays locked for the whole reconciliation, so a
// concurrent duplicate delivery serializes behind it and then no-ops on
// the status guard.
type ReconcileService struct {
	db        *gorm.DB
	inventory *InventoryService
	publisher events.Publisher
}

// NewReconcileService creates the reconciler.
func NewReconcileService(db *gorm.DB, inventory *InventoryService, publisher events.Publisher) *ReconcileService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ReconcileService{db: db, inventory: inventory, publisher: publisher}
}

// PaymentSucceeded handles a confirmed charge. Stock is re-validated under
// lock: if any line can no longer be covered the whole order fails
// post-hoc and is cancelled; otherwise every line is decremented, the
// order becomes PAID and the user's cart is cleared, all in one
// transaction.
func (s *ReconcileService) PaymentSucceeded(ctx context.Context, intentID string, orderID int64) (Outcome, error) {
	var (
		outcome = OutcomeNoop
		paid    *order.Order
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.resolveOrder(tx, intentID, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			// An event that will never resolve; the sender must not retry.
			return nil
		}
		if o.Status != order.StatusPending {
			// Duplicate delivery or terminal order: tolerated, no effects.
			return nil
		}

		var lines []order.Line
		if err := tx.Where("order_id = ?", o.ID).Order("id").Find(&lines).Error; err != nil {
			return err
		}

		// Re-check every line against locked variant rows before touching
		// anything. The checkout-time check was advisory; this one decides.
		for _, ln := range lines {
			var v product.Variant
			if err := lockForUpdate(tx).First(&v, ln.VariantID).Error; err != nil {
				return err
			}
			if v.Stock < ln.Quantity {
				o.Status = order.StatusCancelled
				if err := tx.Model(o).Update("status", o.Status).Error; err != nil {
					return err
				}
				outcome = OutcomeCancelled
				zap.L().Warn("payment captured but stock exhausted, order cancelled",
					zap.Int64("order_id", o.ID),
					zap.Int64("variant_id", v.ID),
					zap.Int64("requested", ln.Quantity),
					zap.Int64("available", v.Stock))
				return nil
			}
		}

		for _, ln := range lines {
			if err := s.inventory.DecrementTx(tx, ln.VariantID, ln.Quantity); err != nil {
				// The rows are locked, so this cannot be a race; abort and
				// roll the whole reconciliation back.
				return err
			}
		}

		if err := tx.Model(o).Update("status", order.StatusPaid).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", o.UserID).Delete(&cart.Item{}).Error; err != nil {
			return err
		}

		o.Status = order.StatusPaid
		paid = o
		outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		return OutcomeNoop, err
	}

	if paid != nil {
		zap.L().Info("order paid",
			zap.Int64("order_id", paid.ID),
			zap.Int64("user_id", paid.UserID),
			zap.Int64("total", paid.Total))
		// Post-commit, best effort: the paid state is already durable.
		if err := s.publisher.PublishOrderPaid(ctx, events.OrderPaid{
			OrderID: paid.ID,
			UserID:  paid.UserID,
			Total:   paid.Total,
			PaidAt:  time.Now(),
		}); err != nil {
			GetMonitor().RecordMQError()
			zap.L().Error("failed to publish order paid event",
				zap.Int64("order_id", paid.ID), zap.Error(err))
		}
	}
	return outcome, nil
}

// PaymentFailed cancels a still-PENDING order; anything else is a no-op.
func (s *ReconcileService) PaymentFailed(ctx context.Context, intentID string, orderID int64) (Outcome, error) {
	outcome := OutcomeNoop
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.resolveOrder(tx, intentID, orderID)
		if err != nil {
			return err
		}
		if o == nil || o.Status != order.StatusPending {
			return nil
		}
		if err := tx.Model(o).Update("status", order.StatusCancelled).Error; err != nil {
			return err
		}
		outcome = OutcomeApplied
		zap.L().Info("order cancelled after failed payment", zap.Int64("order_id", o.ID))
		return nil
	})
	if err != nil {
		return OutcomeNoop, err
	}
	return outcome, nil
}

// resolveOrder maps an event to exactly one order, preferring the explicit
// order id from the intent metadata and falling back to the intent id. A
// nil order (no error) means the event matches nothing and is a no-op.
func (s *ReconcileService) resolveOrder(tx *gorm.DB, intentID string, orderID int64) (*order.Order, error) {
	var o order.Order
	if orderID > 0 {
		err := lockForUpdate(tx).First(&o, orderID).Error
		if err == nil {
			return &o, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if intentID != "" {
		err := lockForUpdate(tx).Where("payment_intent_id = ?", intentID).First(&o).Error
		if err == nil {
			return &o, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
