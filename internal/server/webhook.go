package server

import (
	"time"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/TammisettiVikram/SentientShop/internal/config"
	"github.com/TammisettiVikram/SentientShop/internal/payment"
	"github.com/TammisettiVikram/SentientShop/internal/service"
)

// NewWebhookHandler builds the provider-delivery endpoint. The signature
// check runs on the raw payload before any state is read; an unverified
// delivery is rejected with 400 and has no side effects. Verified events
// always answer 200, even when they apply to nothing, so the provider
// stops redelivering them. 500 is reserved for internal faults where a
// redelivery could succeed.
func NewWebhookHandler(cfg *config.StripeConfig, svc *service.WebhookService) iris.Handler {
	return func(ctx iris.Context) {
		service.GetMonitor().RecordWebhookReceived()

		payload, err := ctx.GetBody()
		if err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		sig := ctx.GetHeader("Stripe-Signature")
		if err := payment.VerifySignature(payload, sig, cfg.WebhookSecret, cfg.SignatureTolerance(), time.Now()); err != nil {
			service.GetMonitor().RecordSignatureRejected()
			zap.L().Warn("rejected webhook with invalid signature")
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		if _, err := svc.HandleEvent(ctx.Request().Context(), payload); err != nil {
			zap.L().Error("webhook reconciliation failed", zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			return
		}
		ctx.StatusCode(iris.StatusOK)
	}
}
