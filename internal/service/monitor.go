package service

import (
	"sync"
	"time"
)

// Monitor keeps in-process counters for the checkout and reconciliation
// paths, exposed on the admin stats endpoint.
type Monitor struct {
	mu sync.RWMutex

	CheckoutRequests int64
	CheckoutFailed   int64
	OrdersCreated    int64

	WebhookReceived    int64
	WebhookApplied     int64
	WebhookNoop        int64
	SignatureRejected  int64
	StockDecrements    int64
	ProviderErrors     int64
	MQErrors           int64
	LastWebhookTime    time.Time
	LastProviderError  time.Time
	LastSignatureError time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor returns the process-wide monitor.
func GetMonitor() *Monitor {
	return globalMonitor
}

func (m *Monitor) RecordCheckoutRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutRequests++
}

func (m *Monitor) RecordCheckoutFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutFailed++
}

func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCreated++
}

func (m *Monitor) RecordWebhookReceived() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WebhookReceived++
	m.LastWebhookTime = time.Now()
}

func (m *Monitor) RecordWebhookApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WebhookApplied++
}

func (m *Monitor) RecordWebhookNoop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WebhookNoop++
}

func (m *Monitor) RecordSignatureRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignatureRejected++
	m.LastSignatureError = time.Now()
}

func (m *Monitor) RecordStockDecrement() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StockDecrements++
}

func (m *Monitor) RecordProviderError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProviderErrors++
	m.LastProviderError = time.Now()
}

func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
}

// GetStats snapshots the counters.
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"checkout": map[string]interface{}{
			"requests":       m.CheckoutRequests,
			"failed":         m.CheckoutFailed,
			"orders_created": m.OrdersCreated,
		},
		"webhook": map[string]interface{}{
			"received":           m.WebhookReceived,
			"applied":            m.WebhookApplied,
			"noop":               m.WebhookNoop,
			"signature_rejected": m.SignatureRejected,
			"last_received":      m.LastWebhookTime,
		},
		"errors": map[string]interface{}{
			"provider":            m.ProviderErrors,
			"mq":                  m.MQErrors,
			"last_provider_error": m.LastProviderError,
			"last_signature_err":  m.LastSignatureError,
		},
		"inventory": map[string]interface{}{
			"stock_decrements": m.StockDecrements,
		},
	}
}

// Reset zeroes the counters.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutRequests = 0
	m.CheckoutFailed = 0
	m.OrdersCreated = 0
	m.WebhookReceived = 0
	m.WebhookApplied = 0
	m.WebhookNoop = 0
	m.SignatureRejected = 0
	m.StockDecrements = 0
	m.ProviderErrors = 0
	m.MQErrors = 0
}
