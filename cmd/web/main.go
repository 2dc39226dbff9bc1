package main

import (
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/TammisettiVikram/SentientShop/internal/config"
	"github.com/TammisettiVikram/SentientShop/internal/server"
	"github.com/TammisettiVikram/SentientShop/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log.InitLogger(cfg.Debug)
	defer func() { _ = zap.L().Sync() }()

	app := iris.New()
	server.RegisterRoutes(app, cfg)

	addr := cfg.Server.Addr()
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := app.Run(
		iris.Addr(addr),
		iris.WithCharset("UTF-8"),
		iris.WithOptimizations,
		iris.WithoutServerError(iris.ErrServerClosed),
	); err != nil {
		zap.L().Fatal("failed to run web server", zap.Error(err))
	}
}
