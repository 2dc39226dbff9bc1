package server

import (
	"errors"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/auth"
	"github.com/TammisettiVikram/SentientShop/internal/config"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/user"
	"github.com/TammisettiVikram/SentientShop/internal/events"
	"github.com/TammisettiVikram/SentientShop/internal/infra/mq"
	"github.com/TammisettiVikram/SentientShop/internal/infra/redis"
	"github.com/TammisettiVikram/SentientShop/internal/middleware"
	"github.com/TammisettiVikram/SentientShop/internal/payment"
	"github.com/TammisettiVikram/SentientShop/internal/repository/mysql"
	"github.com/TammisettiVikram/SentientShop/internal/service"
)

// RegisterRoutes wires the full HTTP surface.
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	userSvc := service.NewUserService(userRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo)
	inventorySvc := service.NewInventoryService(db)

	provider := payment.NewStripeClient(&cfg.Stripe)
	checkoutSvc := service.NewCheckoutService(db, provider, cfg.Stripe.Currency)

	publisher := events.NewRabbitPublisher(mqConn)
	reconcileSvc := service.NewReconcileService(db, inventorySvc, publisher)
	webhookSvc := service.NewWebhookService(reconcileSvc)

	tokenCache := auth.NewTokenCache(redisClient,
		time.Duration(cfg.JWT.TokenCacheTTLSeconds)*time.Second)

	api := app.Party("/api")

	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	api.Post("/register", func(ctx iris.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, err := userSvc.Register(ctx.Request().Context(), req.Username, req.Password)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": u})
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, err := userSvc.Login(ctx.Request().Context(), req.Username, req.Password)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	// Provider deliveries authenticate by signature, not by session.
	api.Post("/stripe/webhook", NewWebhookHandler(&cfg.Stripe, webhookSvc))

	authAPI := api.Party("/", authMiddleware(&cfg.JWT, tokenCache))

	authAPI.Get("/products", func(ctx iris.Context) {
		category := ctx.URLParam("category")
		list, err := productSvc.ListByCategory(ctx.Request().Context(), category)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Get("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	authAPI.Get("/cart", func(ctx iris.Context) {
		lines, err := cartSvc.List(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": lines})
	})

	authAPI.Post("/cart", func(ctx iris.Context) {
		var req struct {
			VariantID int64 `json:"variant_id"`
			Quantity  int64 `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		if err := cartSvc.Add(ctx.Request().Context(), currentUserID(ctx), req.VariantID, req.Quantity); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "added"})
	})

	authAPI.Patch("/cart/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Quantity int64 `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := cartSvc.UpdateQuantity(ctx.Request().Context(), currentUserID(ctx), id, req.Quantity); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "updated"})
	})

	authAPI.Delete("/cart", func(ctx iris.Context) {
		if err := cartSvc.Clear(ctx.Request().Context(), currentUserID(ctx)); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "cleared"})
	})

	authAPI.Delete("/cart/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := cartSvc.Remove(ctx.Request().Context(), currentUserID(ctx), id); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	authAPI.Post("/checkout", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		res, err := checkoutSvc.Checkout(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"code": 0, "data": res})
	})

	authAPI.Post("/payment-intent", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		res, err := checkoutSvc.CheckoutWithPayment(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"code": 0, "data": res})
	})

	authAPI.Get("/orders", func(ctx iris.Context) {
		list, err := orderSvc.ListByUser(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	registerAdminRoutes(authAPI, productSvc, orderSvc, userRepo)
}

// authMiddleware validates Bearer tokens, consulting the Redis claim
// cache before doing a full parse.
func authMiddleware(jwtCfg *config.JWTConfig, cache *auth.TokenCache) iris.Handler {
	return func(ctx iris.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}

		if claims, ok, err := cache.Get(ctx.Request().Context(), token); err == nil && ok {
			setIdentity(ctx, claims)
			ctx.Next()
			return
		}

		claims, err := auth.ParseToken(jwtCfg, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		if err := cache.Set(ctx.Request().Context(), token, claims); err != nil {
			zap.L().Warn("token cache write failed", zap.Error(err))
		}
		setIdentity(ctx, claims)
		ctx.Next()
	}
}

func setIdentity(ctx iris.Context, claims *auth.Claims) {
	ctx.Values().Set("user_id", claims.UserID)
	ctx.Values().Set("username", claims.Username)
	ctx.Values().Set("role", claims.Role)
}

func currentUserID(ctx iris.Context) int64 {
	id, _ := ctx.Values().GetInt64("user_id")
	return id
}

func adminOnly(ctx iris.Context) {
	if ctx.Values().GetString("role") != user.RoleAdmin {
		ctx.StopWithJSON(403, iris.Map{"code": 403, "msg": "admin only"})
		return
	}
	ctx.Next()
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(ctx iris.Context, err error) {
	var stockErr *service.InsufficientStockError
	var providerErr *service.ProviderError
	switch {
	case errors.As(err, &stockErr):
		ctx.StopWithJSON(409, iris.Map{
			"code":       409,
			"msg":        stockErr.Error(),
			"variant_id": stockErr.VariantID,
		})
	case errors.As(err, &providerErr):
		ctx.StopWithJSON(502, iris.Map{
			"code":     502,
			"msg":      "payment provider unavailable, order kept pending",
			"order_id": providerErr.OrderID,
		})
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidTransition):
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": err.Error()})
	default:
		zap.L().Error("request failed", zap.Error(err))
		ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": "internal error"})
	}
}
