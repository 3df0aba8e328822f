// internal/domain/order/status.go
package order

import (
	"strings"

	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusAccepted       Status = "ACCEPTED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCanceled       Status = "CANCELED"
)

// transitions lists the statuses reachable from each status. Statuses with
// no entry are terminal.
var transitions = map[Status][]Status{
	StatusPending:        {StatusAccepted, StatusCanceled},
	StatusAccepted:       {StatusOutForDelivery, StatusCanceled},
	StatusOutForDelivery: {StatusDelivered},
}

// Statuses returns every known status in lifecycle order
func Statuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusOutForDelivery, StatusDelivered, StatusCanceled}
}

// ParseStatus converts client input into a Status. Matching ignores case and
// surrounding spaces.
func ParseStatus(value string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(value)))
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", apperror.Validation("Invalid order status", map[string]string{
		"status": "must be one of PENDING, ACCEPTED, OUT_FOR_DELIVERY, DELIVERED, CANCELED",
	})
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
