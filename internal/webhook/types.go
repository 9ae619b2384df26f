package webhook

import (
	"time"

	"github.com/feral-file/ff-smartdial/internal/domain"
)

// Event type constants
const (
	// EventTypeIndexChanged is fired after every completed sync pass
	EventTypeIndexChanged = "index.changed"

	// EventTypeWildcard is a special filter that matches all event types
	EventTypeWildcard = "*"
)

// WebhookEvent represents a webhook event to be delivered to clients
type WebhookEvent struct {
	// EventID is a unique identifier for this event (ULID)
	EventID string `json:"event_id"`
	// EventType is the type of event
	EventType string `json:"event_type"`
	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`
	// Data contains the event payload
	Data domain.IndexChanged `json:"data"`
}

// Endpoint is a webhook receiver
type Endpoint struct {
	URL string
	// Secret is the hex encoded HMAC key
	Secret string
	// EventFilters lists the event types delivered to this endpoint, empty means all
	EventFilters []string
}

// Accepts reports whether the endpoint subscribed to eventType
func (e Endpoint) Accepts(eventType string) bool {
	if len(e.EventFilters) == 0 {
		return true
	}
	for _, f := range e.EventFilters {
		if f == EventTypeWildcard || f == eventType {
			return true
		}
	}
	return false
}

// NewIndexChangedEvent wraps an index-changed notification, reusing its event id
func NewIndexChangedEvent(changed domain.IndexChanged) WebhookEvent {
	return WebhookEvent{
		EventID:   changed.EventID,
		EventType: EventTypeIndexChanged,
		Timestamp: changed.Timestamp,
		Data:      changed,
	}
}
