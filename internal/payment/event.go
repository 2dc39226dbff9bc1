package payment

import "encoding/json"

// Event kinds the reconciler acts on; everything else is an accepted no-op.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Event is the webhook envelope as delivered by the provider.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object IntentObject `json:"object"`
	} `json:"data"`
}

// IntentObject is the payment intent carried inside an event.
type IntentObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// ParseEvent decodes a raw webhook payload.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
