package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/TammisettiVikram/SentientShop/internal/config"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
	"github.com/TammisettiVikram/SentientShop/internal/repository/mysql"
	"github.com/TammisettiVikram/SentientShop/pkg/log"
)

// seed loads a small catalog for local runs.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log.InitLogger(true)

	db := mysql.Init(&cfg.MySQL)
	repo := mysql.NewProductRepository(db)
	ctx := context.Background()

	catalog := []*product.Product{
		{
			Name:        "Trail Runner Tee",
			Description: "Lightweight running t-shirt",
			Category:    "CLOTHS",
			Variants: []product.Variant{
				{Size: "M", Color: "black", Price: 1999, Stock: 25},
				{Size: "L", Color: "black", Price: 1999, Stock: 25},
				{Size: "M", Color: "red", Price: 2199, Stock: 10},
			},
		},
		{
			Name:        "Hydra Face Serum",
			Description: "Moisturizing night serum",
			Category:    "BEAUTY_PRODUCTS",
			Variants: []product.Variant{
				{Size: "30ml", Color: "", Price: 4999, Stock: 40},
			},
		},
		{
			Name:        "Pulse Buds Pro",
			Description: "Wireless earbuds with ANC",
			Category:    "GADGETS",
			Variants: []product.Variant{
				{Size: "", Color: "white", Price: 12999, Stock: 15},
				{Size: "", Color: "black", Price: 12999, Stock: 15},
			},
		},
	}

	for _, p := range catalog {
		if err := repo.Create(ctx, p); err != nil {
			zap.L().Fatal("seed failed", zap.String("product", p.Name), zap.Error(err))
		}
		zap.L().Info("seeded product", zap.String("name", p.Name), zap.Int("variants", len(p.Variants)))
	}
}
