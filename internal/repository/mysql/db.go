package mysql

import (
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/config"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/cart"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/order"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/user"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init opens the global GORM handle and migrates the schema.
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			zap.L().Fatal("failed to connect mysql", zap.Error(err))
		}

		if err = Migrate(db); err != nil {
			zap.L().Fatal("auto migrate failed", zap.Error(err))
		}
	})
	return db
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&product.Product{},
		&product.Variant{},
		&cart.Item{},
		&order.Order{},
		&order.Line{},
	)
}

// DB returns the global handle.
func DB() *gorm.DB {
	return db
}
