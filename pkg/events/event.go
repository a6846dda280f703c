package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CANCELLATION_FINALIZED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation every outcome event embeds.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Outcome event codes published when a flow reaches an end state.
const (
	TypeCancellationFinalized = "CANCELLATION_FINALIZED"
	TypeDownsellAccepted      = "DOWNSELL_ACCEPTED"
	TypeSubscriptionContinued = "SUBSCRIPTION_CONTINUED"
)

// NewOutcomeEvent builds the event for one finalized flow.
func NewOutcomeEvent(eventType string, data map[string]interface{}) Event {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}
