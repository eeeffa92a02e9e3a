package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned when a stored event type has no factory.
var ErrUnknownEvent = errors.New("unknown event type")

// EventFactory returns a zero value of one concrete event type.
type EventFactory func() Event

// Registry decodes stored events back into their concrete types.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register binds eventType to factory, replacing any earlier binding.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal decodes raw into the type registered for its event type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, raw.EventType)
	}

	e := factory()
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", raw.EventType, err)
	}
	return e, nil
}

// DefaultRegistry knows every library and playback event.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for eventType, factory := range map[string]EventFactory{
		EventVideoImported:      func() Event { return &VideoImported{} },
		EventVideoImportFailed:  func() Event { return &VideoImportFailed{} },
		EventVideoUpdated:       func() Event { return &VideoUpdated{} },
		EventVideoDeleted:       func() Event { return &VideoDeleted{} },
		EventVideoWatched:       func() Event { return &VideoWatched{} },
		EventPlaybackState:      func() Event { return &PlaybackStateChanged{} },
		EventPlaybackProgressed: func() Event { return &PlaybackProgressed{} },
		EventPlaybackDuration:   func() Event { return &PlaybackDurationResolved{} },
		EventPlaybackFinished:   func() Event { return &PlaybackFinished{} },
	} {
		r.Register(eventType, factory)
	}
	return r
}
