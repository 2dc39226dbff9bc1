package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/cart"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
	"github.com/TammisettiVikram/SentientShop/internal/repository/mysql"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Single connection keeps the in-memory database shared and writes
	// serialized.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.Migrate(db))
	return db
}

func seedVariant(t *testing.T, db *gorm.DB, price, stock int64) *product.Variant {
	t.Helper()
	p := &product.Product{
		Name:     "Test Product",
		Category: "GADGETS",
		Variants: []product.Variant{
			{Size: "M", Color: "black", Price: price, Stock: stock},
		},
	}
	require.NoError(t, db.Create(p).Error)
	return &p.Variants[0]
}

func seedCartItem(t *testing.T, db *gorm.DB, userID, variantID, qty int64) *cart.Item {
	t.Helper()
	it := &cart.Item{UserID: userID, VariantID: variantID, Quantity: qty}
	require.NoError(t, db.Create(it).Error)
	return it
}

func variantStock(t *testing.T, db *gorm.DB, variantID int64) int64 {
	t.Helper()
	var v product.Variant
	require.NoError(t, db.First(&v, variantID).Error)
	return v.Stock
}

func cartCount(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&cart.Item{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
