package payment

import "context"

// Intent is the provider's handle for an in-progress charge attempt.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Provider is the outbound payment-provider boundary. Amounts are in the
// smallest currency unit; metadata correlates the charge back to an order.
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
}
