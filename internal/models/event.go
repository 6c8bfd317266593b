package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderEvent is the notification emitted after an order is stored
type OrderEvent struct {
	ID            uuid.UUID              `json:"id"`
	AggregateID   int64                  `json:"aggregate_id"`
	AggregateType string                 `json:"aggregate_type"`
	EventType     string                 `json:"event_type"`
	EventPayload  map[string]interface{} `json:"event_payload"`
	CreatedAt     time.Time              `json:"created_at"`
}

// AggregateType constants
const (
	AggregateTypeOrder = "order"
)

// EventType constants
const (
	EventTypeOrderSubmitted = "order.submitted"
)

// NewOrderSubmittedEvent builds the event for a freshly stored order
func NewOrderSubmittedEvent(order *Order) *OrderEvent {
	return &OrderEvent{
		ID:            uuid.New(),
		AggregateID:   order.ID,
		AggregateType: AggregateTypeOrder,
		EventType:     EventTypeOrderSubmitted,
		EventPayload: map[string]interface{}{
			"order_id":    order.ID,
			"name":        order.Name,
			"description": order.Description,
			"is_invoiced": order.IsInvoiced,
			"entry_date":  order.EntryDate.Format(time.RFC3339Nano),
		},
		CreatedAt: order.EntryDate,
	}
}
