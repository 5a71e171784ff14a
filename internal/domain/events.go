package domain

import "time"

// Lifecycle event names broadcast to real-time observers.
const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderPaid          = "order_paid"
	EventOrderDeleted       = "order_deleted"
	EventTableStatusChanged = "table_status_changed"
	EventTableDeleted       = "table_deleted"
)

// Stream-only event names, emitted per connection rather than via the bus.
const (
	EventConnected = "connected"
	EventHeartbeat = "heartbeat"
)

// Event is the envelope delivered to bus subscribers. TS is stamped at
// publish time.
type Event struct {
	Name    string         `json:"event"`
	TS      time.Time      `json:"ts"`
	Payload map[string]any `json:"payload"`
}

// StreamData flattens the payload with the publish timestamp for the
// SSE data line, matching the shape dashboards consume.
func (e Event) StreamData() map[string]any {
	out := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		out[k] = v
	}
	out["ts"] = e.TS
	return out
}
