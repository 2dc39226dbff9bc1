package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature rejects a webhook delivery before any state is read.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifySignature checks a Stripe-Signature header against the raw payload.
// The header carries "t=<unix>,v1=<hex hmac>[,v1=...]"; the signed payload
// is "<t>.<payload>" under HMAC-SHA256 with the shared secret. It is a pure
// function of its inputs and must run before any handler logic.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return ErrInvalidSignature
	}

	var (
		timestamp  int64
		candidates []string
	)
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if timestamp == 0 || len(candidates) == 0 {
		return ErrInvalidSignature
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(timestamp, 0))
		if age > tolerance || age < -tolerance {
			return ErrInvalidSignature
		}
	}

	expected := ComputeSignature(timestamp, payload, secret)
	for _, c := range candidates {
		if hmac.Equal([]byte(expected), []byte(c)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// ComputeSignature returns the hex HMAC-SHA256 of "<timestamp>.<payload>".
func ComputeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader renders a header the way the provider would, used by
// local stubs and tests.
func SignatureHeader(timestamp int64, payload []byte, secret string) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, ComputeSignature(timestamp, payload, secret))
}
