package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/TammisettiVikram/SentientShop/internal/payment"
)

// WebhookService maps verified provider events onto the reconciler.
// Signature verification happens before this layer; everything here
// assumes an authentic payload.
type WebhookService struct {
	reconciler *ReconcileService
}

// NewWebhookService creates the dispatcher.
func NewWebhookService(reconciler *ReconcileService) *WebhookService {
	return &WebhookService{reconciler: reconciler}
}

// HandleEvent parses the envelope and dispatches it. Unknown event kinds
// and events that match no order are accepted no-ops so the provider does
// not retry them forever. The returned error is reserved for internal
// faults where a retry could actually help.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte) (Outcome, error) {
	ev, err := payment.ParseEvent(payload)
	if err != nil {
		// Authenticated but malformed; retrying the same bytes cannot fix
		// it, so swallow it as a no-op.
		GetMonitor().RecordWebhookNoop()
		zap.L().Warn("discarding malformed webhook payload", zap.Error(err))
		return OutcomeNoop, nil
	}

	intentID := ev.Data.Object.ID
	orderID := parseOrderID(ev.Data.Object.Metadata)

	var outcome Outcome
	switch ev.Type {
	case payment.EventPaymentSucceeded:
		outcome, err = s.reconciler.PaymentSucceeded(ctx, intentID, orderID)
	case payment.EventPaymentFailed:
		outcome, err = s.reconciler.PaymentFailed(ctx, intentID, orderID)
	default:
		GetMonitor().RecordWebhookNoop()
		zap.L().Debug("ignoring webhook event kind", zap.String("type", ev.Type))
		return OutcomeNoop, nil
	}
	if err != nil {
		return OutcomeNoop, err
	}

	switch outcome {
	case OutcomeNoop:
		GetMonitor().RecordWebhookNoop()
	default:
		GetMonitor().RecordWebhookApplied()
	}
	zap.L().Info("webhook event handled",
		zap.String("event_id", ev.ID),
		zap.String("type", ev.Type),
		zap.String("intent_id", intentID),
		zap.Int64("order_id", orderID),
		zap.String("outcome", string(outcome)))
	return outcome, nil
}

func parseOrderID(metadata map[string]string) int64 {
	raw, ok := metadata["order_id"]
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
