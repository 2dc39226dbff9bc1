package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/cart"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/order"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
	"github.com/TammisettiVikram/SentientShop/internal/payment"
)

// CheckoutService turns a user's cart into a PENDING order priced at the
// current catalog prices. It never clears the cart and never touches
// stock; both happen only when payment is confirmed.
type CheckoutService struct {
	db       *gorm.DB
	provider payment.Provider
	currency string
}

// NewCheckoutService creates the orchestrator. provider may be nil when
// payment-intent creation is not wired (plain Checkout still works).
func NewCheckoutService(db *gorm.DB, provider payment.Provider, currency string) *CheckoutService {
	return &CheckoutService{db: db, provider: provider, currency: currency}
}

// CheckoutResult is returned to the checkout caller.
type CheckoutResult struct {
	OrderID int64 `json:"order_id"`
	Total   int64 `json:"total"`
	// ClientSecret is set only when a payment intent was requested.
	ClientSecret string `json:"client_secret,omitempty"`
}

// Checkout validates the cart and creates the order, without requesting a
// payment handle.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64) (*CheckoutResult, error) {
	GetMonitor().RecordCheckoutRequest()
	o, err := s.createOrder(ctx, userID)
	if err != nil {
		GetMonitor().RecordCheckoutFailed()
		return nil, err
	}
	return &CheckoutResult{OrderID: o.ID, Total: o.Total}, nil
}

// CheckoutWithPayment creates the order and then asks the provider for a
// payment intent sized to the total, correlated to the order via metadata.
// A provider failure leaves the already-committed order PENDING and
// handle-less; the caller may retry with a fresh checkout.
func (s *CheckoutService) CheckoutWithPayment(ctx context.Context, userID int64) (*CheckoutResult, error) {
	GetMonitor().RecordCheckoutRequest()
	o, err := s.createOrder(ctx, userID)
	if err != nil {
		GetMonitor().RecordCheckoutFailed()
		return nil, err
	}

	intent, err := s.provider.CreateIntent(ctx, o.Total, s.currency, map[string]string{
		"order_id": strconv.FormatInt(o.ID, 10),
		"user_id":  strconv.FormatInt(userID, 10),
	})
	if err != nil {
		GetMonitor().RecordProviderError()
		zap.L().Error("payment intent creation failed, order left pending",
			zap.Int64("order_id", o.ID), zap.Error(err))
		return nil, &ProviderError{OrderID: o.ID, Err: err}
	}

	if err := s.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ?", o.ID).
		Update("payment_intent_id", intent.ID).Error; err != nil {
		// The intent exists but is not recorded; metadata still carries the
		// order id, so the reconciler can resolve deliveries for it.
		zap.L().Error("failed to persist payment intent id",
			zap.Int64("order_id", o.ID), zap.String("intent_id", intent.ID), zap.Error(err))
		return nil, err
	}

	return &CheckoutResult{OrderID: o.ID, Total: o.Total, ClientSecret: intent.ClientSecret}, nil
}

// createOrder runs the snapshot-validate-create sequence in one
// transaction. The stock check is advisory: nothing is reserved, and the
// reconciler's locked re-check at payment time is the final authority.
func (s *CheckoutService) createOrder(ctx context.Context, userID int64) (*order.Order, error) {
	var created *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []cart.Item
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var (
			total int64
			lines = make([]order.Line, 0, len(items))
		)
		for _, it := range items {
			if it.Quantity <= 0 {
				return fmt.Errorf("%w: cart item %d has non-positive quantity", ErrValidation, it.ID)
			}
			var v product.Variant
			if err := tx.First(&v, it.VariantID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: variant %d", ErrNotFound, it.VariantID)
				}
				return err
			}
			if v.Stock < it.Quantity {
				return &InsufficientStockError{
					VariantID: v.ID,
					Requested: it.Quantity,
					Available: v.Stock,
				}
			}
			total += v.Price * it.Quantity
			lines = append(lines, order.Line{
				VariantID: v.ID,
				Quantity:  it.Quantity,
				Price:     v.Price,
			})
		}

		o := &order.Order{
			UserID: userID,
			Total:  total,
			Status: order.StatusPending,
			Lines:  lines,
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	GetMonitor().RecordOrderCreated()
	zap.L().Info("order created",
		zap.Int64("order_id", created.ID),
		zap.Int64("user_id", userID),
		zap.Int64("total", created.Total))
	return created, nil
}
