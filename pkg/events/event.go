package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// StateChanged is emitted after every committed state transition.
const StateChanged = "state.changed"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "state.changed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
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

// NewStateChanged describes the transition named action that produced
// snapshot version.
func NewStateChanged(action string, version uint64) BaseEvent {
	return BaseEvent{
		Type: StateChanged,
		Data: map[string]interface{}{
			"action":  action,
			"version": version,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// Encode wraps an event in its JSON envelope.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

// Decode is the inverse of Encode.
func Decode(data []byte) (BaseEvent, error) {
	var e BaseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}

// Action returns the transition name carried by a StateChanged event.
func Action(e Event) string {
	if s, ok := e.Payload()["action"].(string); ok {
		return s
	}
	return ""
}
