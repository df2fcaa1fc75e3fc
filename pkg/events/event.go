package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "decrypt_success").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used for security event fan-out.
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

// SecurityEvent builds the event published for every audited action. The
// payload mirrors the durable audit row; the bus is a notification
// side-channel, never the system of record.
func SecurityEvent(action, sessionID, actorID string, details map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"action":     action,
		"session_id": sessionID,
		"actor_id":   actorID,
	}
	for k, v := range details {
		data[k] = v
	}
	return BaseEvent{
		Type:       action,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
