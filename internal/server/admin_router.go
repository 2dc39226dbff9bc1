package server

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/order"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/user"
	"github.com/TammisettiVikram/SentientShop/internal/service"
)

// registerAdminRoutes mounts the operator endpoints under /api/admin.
func registerAdminRoutes(parent iris.Party, productSvc *service.ProductService, orderSvc *service.OrderService, userRepo user.Repository) {
	admin := parent.Party("/admin", adminOnly)

	admin.Get("/users", func(ctx iris.Context) {
		list, err := userRepo.ListAll(ctx.Request().Context())
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	admin.Get("/orders", func(ctx iris.Context) {
		limit := ctx.URLParamIntDefault("limit", 50)
		list, err := orderSvc.ListRecent(ctx.Request().Context(), limit)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// Abandoned PENDING orders; nothing expires them automatically.
	admin.Get("/orders/stale", func(ctx iris.Context) {
		hours := ctx.URLParamIntDefault("older_than_hours", 24)
		list, err := orderSvc.ListStalePending(ctx.Request().Context(), time.Duration(hours)*time.Hour)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	admin.Patch("/orders/{id:int64}/status", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		next, err := order.ParseStatus(req.Status)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := orderSvc.OverrideStatus(ctx.Request().Context(), id, next); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "updated", "data": iris.Map{"order_id": id, "status": next}})
	})

	admin.Post("/products", func(ctx iris.Context) {
		var p product.Product
		if err := ctx.ReadJSON(&p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := productSvc.Create(ctx.Request().Context(), &p); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	admin.Put("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var p product.Product
		if err := ctx.ReadJSON(&p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p.ID = id
		if err := productSvc.Update(ctx.Request().Context(), &p); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	admin.Delete("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := productSvc.Delete(ctx.Request().Context(), id); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	admin.Post("/variants", func(ctx iris.Context) {
		var v product.Variant
		if err := ctx.ReadJSON(&v); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := productSvc.CreateVariant(ctx.Request().Context(), &v); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"code": 0, "data": v})
	})

	admin.Get("/stats", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().GetStats()})
	})
}
