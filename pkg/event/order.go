package event

import "time"

const (
	OrdersTopic             = "medmeal.orders"
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status.changed"
	EventOrderRated         = "order.rated"
)

// OrderEventMetadata is shared by every order event published on OrdersTopic.
type OrderEventMetadata struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id"`
	PatientID  string    `json:"patient_id"`

	// Denormalized data for kitchen and ward displays
	PatientName string `json:"patient_name,omitempty"`
	Room        string `json:"room,omitempty"`
	Bed         string `json:"bed,omitempty"`
}

type OrderLine struct {
	MenuItemID   string `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name,omitempty"`
	Quantity     int    `json:"quantity"`
}

type OrderPlacedEvent struct {
	OrderEventMetadata
	Lines  []OrderLine `json:"lines"`
	Total  int64       `json:"total"`
	Status string      `json:"status"`
	Note   string      `json:"note,omitempty"`
}

type OrderStatusChangedEvent struct {
	OrderEventMetadata
	NewStatus      string `json:"new_status"`
	PreviousStatus string `json:"previous_status"`
}

type OrderRatedEvent struct {
	OrderEventMetadata
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback,omitempty"`
}

// Envelope is decoded first so subscribers can dispatch on EventType.
type Envelope struct {
	EventType string `json:"event_type"`
}
