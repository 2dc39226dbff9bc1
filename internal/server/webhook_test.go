package server

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/httptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TammisettiVikram/SentientShop/internal/config"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/cart"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/order"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
	"github.com/TammisettiVikram/SentientShop/internal/payment"
	"github.com/TammisettiVikram/SentientShop/internal/repository/mysql"
	"github.com/TammisettiVikram/SentientShop/internal/service"
)

const webhookSecret = "whsec_test"

func newWebhookApp(t *testing.T) (*iris.Application, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mysql.Migrate(db))

	stripeCfg := &config.StripeConfig{WebhookSecret: webhookSecret, SignatureToleranceSeconds: 300}
	svc := service.NewWebhookService(
		service.NewReconcileService(db, service.NewInventoryService(db), nil))

	app := iris.New()
	app.Post("/api/stripe/webhook", NewWebhookHandler(stripeCfg, svc))
	return app, db
}

// seedPendingOrder creates a PENDING order with one line and the matching
// cart item, priced and stocked for a clean reconciliation.
func seedPendingOrder(t *testing.T, db *gorm.DB, intentID string) (*order.Order, *product.Variant) {
	t.Helper()
	p := &product.Product{
		Name:     "Widget",
		Category: "GADGETS",
		Variants: []product.Variant{{Size: "M", Color: "black", Price: 1000, Stock: 5}},
	}
	require.NoError(t, db.Create(p).Error)
	v := &p.Variants[0]

	require.NoError(t, db.Create(&cart.Item{UserID: 1, VariantID: v.ID, Quantity: 2}).Error)

	o := &order.Order{
		UserID:          1,
		Total:           2000,
		Status:          order.StatusPending,
		PaymentIntentID: intentID,
		Lines:           []order.Line{{VariantID: v.ID, Quantity: 2, Price: 1000}},
	}
	require.NoError(t, db.Create(o).Error)
	return o, v
}

func TestWebhookValidSignatureApplies(t *testing.T) {
	app, db := newWebhookApp(t)
	o, v := seedPendingOrder(t, db, "pi_live")

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_live", "metadata": {"order_id": "%d"}}}
	}`, o.ID))
	header := payment.SignatureHeader(time.Now().Unix(), payload, webhookSecret)

	e := httptest.New(t, app)
	e.POST("/api/stripe/webhook").
		WithHeader("Stripe-Signature", header).
		WithBytes(payload).
		Expect().Status(iris.StatusOK)

	var got order.Order
	require.NoError(t, db.First(&got, o.ID).Error)
	assert.Equal(t, order.StatusPaid, got.Status)

	var stock product.Variant
	require.NoError(t, db.First(&stock, v.ID).Error)
	assert.EqualValues(t, 3, stock.Stock)
}

func TestWebhookInvalidSignatureRejectedWithoutEffects(t *testing.T) {
	app, db := newWebhookApp(t)
	o, v := seedPendingOrder(t, db, "pi_live")

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_live", "metadata": {"order_id": "%d"}}}
	}`, o.ID))

	e := httptest.New(t, app)
	for _, header := range []string{
		"",
		"t=123,v1=deadbeef",
		payment.SignatureHeader(time.Now().Unix(), payload, "whsec_wrong"),
		payment.SignatureHeader(time.Now().Add(-time.Hour).Unix(), payload, webhookSecret),
	} {
		req := e.POST("/api/stripe/webhook").WithBytes(payload)
		if header != "" {
			req = req.WithHeader("Stripe-Signature", header)
		}
		req.Expect().Status(iris.StatusBadRequest)
	}

	// Nothing moved.
	var got order.Order
	require.NoError(t, db.First(&got, o.ID).Error)
	assert.Equal(t, order.StatusPending, got.Status)

	var stock product.Variant
	require.NoError(t, db.First(&stock, v.ID).Error)
	assert.EqualValues(t, 5, stock.Stock)
}

func TestWebhookUnmatchedEventAccepted(t *testing.T) {
	app, _ := newWebhookApp(t)

	payload := []byte(`{
		"id": "evt_ghost",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_unknown"}}
	}`)
	header := payment.SignatureHeader(time.Now().Unix(), payload, webhookSecret)

	httptest.New(t, app).POST("/api/stripe/webhook").
		WithHeader("Stripe-Signature", header).
		WithBytes(payload).
		Expect().Status(iris.StatusOK)
}

func TestWebhookDuplicateDeliveryIdempotent(t *testing.T) {
	app, db := newWebhookApp(t)
	o, v := seedPendingOrder(t, db, "pi_dup")

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_dup",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_dup", "metadata": {"order_id": "%d"}}}
	}`, o.ID))
	header := payment.SignatureHeader(time.Now().Unix(), payload, webhookSecret)

	e := httptest.New(t, app)
	for i := 0; i < 3; i++ {
		e.POST("/api/stripe/webhook").
			WithHeader("Stripe-Signature", header).
			WithBytes(payload).
			Expect().Status(iris.StatusOK)
	}

	var stock product.Variant
	require.NoError(t, db.First(&stock, v.ID).Error)
	assert.EqualValues(t, 3, stock.Stock, "single decrement despite redelivery")
}
