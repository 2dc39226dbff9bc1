package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/order"
	"github.com/TammisettiVikram/SentientShop/internal/payment"
)

type fakeProvider struct {
	intent      *payment.Intent
	err         error
	gotAmount   int64
	gotCurrency string
	gotMetadata map[string]string
	calls       int
}

func (f *fakeProvider) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*payment.Intent, error) {
	f.calls++
	f.gotAmount = amount
	f.gotCurrency = currency
	f.gotMetadata = metadata
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, nil, "inr")

	_, err := svc.Checkout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEmptyCart)

	var n int64
	require.NoError(t, db.Model(&order.Order{}).Count(&n).Error)
	assert.Zero(t, n, "no order may be created for an empty cart")
}

func TestCheckoutInsufficientStockNamesVariant(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 1)
	seedCartItem(t, db, 1, v.ID, 3)
	svc := NewCheckoutService(db, nil, "inr")

	_, err := svc.Checkout(context.Background(), 1)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, v.ID, stockErr.VariantID)

	var n int64
	require.NoError(t, db.Model(&order.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCheckoutCreatesPendingOrderWithoutSideEffects(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 5) // 10.00 in minor units
	seedCartItem(t, db, 1, v.ID, 2)
	svc := NewCheckoutService(db, nil, "inr")

	res, err := svc.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, res.Total)

	var o order.Order
	require.NoError(t, db.Preload("Lines").First(&o, res.OrderID).Error)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.EqualValues(t, 2000, o.Total)
	require.Len(t, o.Lines, 1)
	assert.EqualValues(t, 1000, o.Lines[0].Price)
	assert.EqualValues(t, 2, o.Lines[0].Quantity)
	assert.Empty(t, o.PaymentIntentID)

	// Checkout reserves nothing and keeps the cart.
	assert.EqualValues(t, 5, variantStock(t, db, v.ID))
	assert.EqualValues(t, 1, cartCount(t, db, 1))
}

func TestCheckoutTotalImmuneToLaterPriceEdits(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 5)
	seedCartItem(t, db, 1, v.ID, 2)
	svc := NewCheckoutService(db, nil, "inr")

	res, err := svc.Checkout(context.Background(), 1)
	require.NoError(t, err)

	// Catalog price doubles after checkout.
	require.NoError(t, db.Model(v).Update("price", 2000).Error)

	var o order.Order
	require.NoError(t, db.Preload("Lines").First(&o, res.OrderID).Error)
	assert.EqualValues(t, 2000, o.Total)
	assert.EqualValues(t, 1000, o.Lines[0].Price)

	var sum int64
	for _, ln := range o.Lines {
		sum += ln.Price * ln.Quantity
	}
	assert.Equal(t, o.Total, sum)
}

func TestCheckoutWithPaymentPersistsIntent(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1500, 5)
	seedCartItem(t, db, 7, v.ID, 2)
	prov := &fakeProvider{intent: &payment.Intent{ID: "pi_123", ClientSecret: "cs_123"}}
	svc := NewCheckoutService(db, prov, "inr")

	res, err := svc.CheckoutWithPayment(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "cs_123", res.ClientSecret)
	assert.EqualValues(t, 3000, prov.gotAmount)
	assert.Equal(t, "inr", prov.gotCurrency)
	assert.Contains(t, prov.gotMetadata, "order_id")
	assert.Equal(t, "7", prov.gotMetadata["user_id"])

	var o order.Order
	require.NoError(t, db.First(&o, res.OrderID).Error)
	assert.Equal(t, "pi_123", o.PaymentIntentID)
}

func TestCheckoutWithPaymentProviderFailureKeepsPendingOrder(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 5)
	seedCartItem(t, db, 1, v.ID, 1)
	prov := &fakeProvider{err: errors.New("provider down")}
	svc := NewCheckoutService(db, prov, "inr")

	_, err := svc.CheckoutWithPayment(context.Background(), 1)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)

	// The order survives, PENDING and handle-less.
	var o order.Order
	require.NoError(t, db.First(&o, provErr.OrderID).Error)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Empty(t, o.PaymentIntentID)
}

func TestCheckoutRejectsUnknownVariantInCart(t *testing.T) {
	db := newTestDB(t)
	seedCartItem(t, db, 1, 424242, 1)
	svc := NewCheckoutService(db, nil, "inr")

	_, err := svc.Checkout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
