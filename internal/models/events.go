package models

import "time"

// Event types
const (
	EventTypeOrderCreated   = "ORDER_CREATED"
	EventTypeOrderCompleted = "ORDER_COMPLETED"
	EventTypeOrderCancelled = "ORDER_CANCELLED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when a checkout session has been created at the
// gateway and the pending order is recorded
type OrderCreatedEvent struct {
	BaseEvent
	ExternalReference string  `json:"external_reference"`
	PayerEmail        string  `json:"payer_email"`
	TotalPrice        float64 `json:"total_price"`
	PreferenceID      string  `json:"preference_id"`
}

// OrderCompletedEvent published when the gateway confirms an approved payment
type OrderCompletedEvent struct {
	BaseEvent
	ExternalReference string  `json:"external_reference"`
	PayerEmail        string  `json:"payer_email"`
	TotalPrice        float64 `json:"total_price"`
	PaymentID         string  `json:"payment_id"`
}

// OrderCancelledEvent published when the gateway reports a rejected or
// cancelled payment
type OrderCancelledEvent struct {
	BaseEvent
	ExternalReference string `json:"external_reference"`
	PayerEmail        string `json:"payer_email"`
	Reason            string `json:"reason"`
}
