// Package events provides the in-process event bus used to republish library
// and playback changes, plus a SQLite-backed event log.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityType() string // "video", "session"
	EntityID() string
	OccurredAt() time.Time
}

// Transient marks events that are delivered to subscribers but never written
// to the event log (high-frequency playback progress, for example).
type Transient interface {
	Transient() bool
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        string    `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() string      { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, entityType, entityID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now().UTC(),
	}
}

func isTransient(e Event) bool {
	t, ok := e.(Transient)
	return ok && t.Transient()
}
