package main

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/TammisettiVikram/SentientShop/internal/config"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/user"
	"github.com/TammisettiVikram/SentientShop/internal/events"
	"github.com/TammisettiVikram/SentientShop/internal/infra/mq"
	"github.com/TammisettiVikram/SentientShop/internal/repository/mysql"
	"github.com/TammisettiVikram/SentientShop/pkg/log"
)

// order-worker consumes confirmed-payment events and fans them out to
// notification targets. Delivery is at-least-once with manual acks.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log.InitLogger(cfg.Debug)
	defer func() { _ = zap.L().Sync() }()

	db := mysql.Init(&cfg.MySQL)
	userRepo := mysql.NewUserRepository(db)
	mqConn := mq.Init(&cfg.RabbitMQ)

	ch, err := mqConn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(events.OrderPaidQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	msgs, err := ch.Consume(events.OrderPaidQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("order worker started, waiting for paid orders")

	ctx := context.Background()
	for d := range msgs {
		var ev events.OrderPaid
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			zap.L().Warn("dropping malformed event", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		if err := notify(ctx, userRepo, ev); err != nil {
			zap.L().Error("notify failed, requeueing",
				zap.Int64("order_id", ev.OrderID), zap.Error(err))
			_ = d.Nack(false, true)
			continue
		}
		_ = d.Ack(false)
	}
}

// notify is the fan-out stub: it resolves the buyer and logs the
// confirmation that a mail/SMS gateway would send.
func notify(ctx context.Context, users user.Repository, ev events.OrderPaid) error {
	u, err := users.GetByID(ctx, ev.UserID)
	if err != nil {
		return err
	}
	zap.L().Info("order confirmation",
		zap.Int64("order_id", ev.OrderID),
		zap.String("username", u.Username),
		zap.Int64("total", ev.Total),
		zap.Time("paid_at", ev.PaidAt))
	return nil
}
