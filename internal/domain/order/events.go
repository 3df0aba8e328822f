// internal/domain/order/events.go
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an order lifecycle notification
type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// Event is published after a committed order change
type Event struct {
	Type           EventType       `json:"type"`
	OrderID        uint            `json:"orderId"`
	UserID         uint            `json:"userId"`
	Status         Status          `json:"status"`
	PreviousStatus Status          `json:"previousStatus,omitempty"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// EventPublisher delivers order events to downstream consumers. Delivery is
// best effort and happens outside the order transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event
type NopPublisher struct{}

// Publish implements EventPublisher
func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}

func newEvent(eventType EventType, o *Order, previous Status, at time.Time) Event {
	return Event{
		Type:           eventType,
		OrderID:        o.ID,
		UserID:         o.UserID,
		Status:         o.Status,
		PreviousStatus: previous,
		NetAmount:      o.NetAmount,
		OccurredAt:     at.UTC(),
	}
}
