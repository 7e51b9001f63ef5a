package policies

import "context"

// Event is a reservation lifecycle fact emitted after a successful persist.
type Event struct {
	Type       string `json:"type"`
	PropertyID string `json:"property_id"`
	EntityID   string `json:"entity_id"`
	OccurredAt int64  `json:"occurred_at"`
}

// EventPublisher delivers events to an external stream. Publishing is
// best-effort: failures are logged by callers, never surfaced to the request.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
