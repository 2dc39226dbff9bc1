package mq

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/TammisettiVikram/SentientShop/internal/config"
)

var (
	conn *amqp.Connection
	once sync.Once
)

// Init opens the global RabbitMQ connection.
func Init(cfg *config.RabbitMQConfig) *amqp.Connection {
	once.Do(func() {
		c, err := amqp.Dial(cfg.URL)
		if err != nil {
			zap.L().Fatal("failed to connect rabbitmq", zap.Error(err))
		}
		conn = c
	})
	return conn
}

// Conn returns the global connection.
func Conn() *amqp.Connection {
	return conn
}
