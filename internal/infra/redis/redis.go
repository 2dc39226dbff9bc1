package redis

import (
	"sync"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/TammisettiVikram/SentientShop/internal/config"
)

var (
	client radix.Client
	once   sync.Once
)

// Init opens the global Redis pool.
func Init(cfg *config.RedisConfig) radix.Client {
	once.Do(func() {
		pool, err := radix.NewPool("tcp", cfg.Addr, 10)
		if err != nil {
			zap.L().Fatal("failed to connect redis", zap.Error(err))
		}
		client = pool
	})
	return client
}

// Client returns the global Redis client.
func Client() radix.Client {
	return client
}
