package order

import "fmt"

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
)

// validNext encodes the lifecycle graph. Fulfillment only moves forward;
// the single backwards edge is into CANCELLED. PAID and CANCELLED are
// terminal for payment reconciliation, SHIPPED/DELIVERED are administrative.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPaid: true, StatusCancelled: true},
	StatusPaid:      {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	return validNext[s][next]
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}
