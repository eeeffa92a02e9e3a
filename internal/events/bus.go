package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// subscription is one subscriber channel and the events it wants.
type subscription struct {
	ch    chan Event
	match func(Event) bool
}

// Bus fans events out to subscribers and records durable ones in the
// EventLog. Delivery never blocks the publisher: a full subscriber misses
// the event.
type Bus struct {
	mu      sync.RWMutex
	subs    []*subscription
	log     *EventLog // nil disables persistence
	logger  *slog.Logger
	closed  bool
	dropped atomic.Int64
}

// NewBus creates a bus. log may be nil.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{log: log, logger: logger}
}

// Publish records e unless it is transient, then offers it to every
// matching subscriber. Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return nil
	}

	if b.log != nil && !isTransient(e) {
		if _, err := b.log.Append(e); err != nil {
			// Delivery still goes ahead.
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, s := range b.subs {
		if !s.match(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}
	return nil
}

func (b *Bus) subscribe(bufferSize int, match func(Event) bool) <-chan Event {
	ch := make(chan Event, bufferSize)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, &subscription{ch: ch, match: match})
	return ch
}

// Subscribe returns a channel for events of one type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.subscribe(bufferSize, func(e Event) bool { return e.EventType() == eventType })
}

// SubscribeAll returns a channel for every event.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.subscribe(bufferSize, func(Event) bool { return true })
}

// SubscribeEntity returns a channel for the events of one entity.
func (b *Bus) SubscribeEntity(entityType, entityID string, bufferSize int) <-chan Event {
	return b.subscribe(bufferSize, func(e Event) bool {
		return e.EntityType() == entityType && e.EntityID() == entityID
	})
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s *subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Dropped reports how many deliveries were skipped because a subscriber
// was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscription. It is safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}
