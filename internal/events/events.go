package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OrderPaidQueue carries confirmed payments to downstream consumers
// (notification fan-out, fulfillment).
const OrderPaidQueue = "order_paid_queue"

// OrderPaid announces that an order transitioned to PAID.
type OrderPaid struct {
	OrderID int64     `json:"order_id"`
	UserID  int64     `json:"user_id"`
	Total   int64     `json:"total"`
	PaidAt  time.Time `json:"paid_at"`
}

// Publisher is the outbound order-event boundary.
type Publisher interface {
	PublishOrderPaid(ctx context.Context, ev OrderPaid) error
}

// RabbitPublisher publishes order events to a durable RabbitMQ queue.
type RabbitPublisher struct {
	conn *amqp.Connection
}

// NewRabbitPublisher wraps an established connection.
func NewRabbitPublisher(conn *amqp.Connection) *RabbitPublisher {
	return &RabbitPublisher{conn: conn}
}

func (p *RabbitPublisher) PublishOrderPaid(ctx context.Context, ev OrderPaid) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(OrderPaidQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(&ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		OrderPaidQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// NopPublisher drops events, for wiring without a broker.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPaid(context.Context, OrderPaid) error { return nil }
