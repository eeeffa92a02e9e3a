package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventLog stores durable events in the events table. The Bus keeps
// transient events away from it.
type EventLog struct {
	db *sql.DB
}

// NewEventLog creates an event log over db.
func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// RawEvent is a stored event whose payload has not been decoded.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   string
	Payload    string // JSON of the concrete event
	OccurredAt time.Time
	CreatedAt  time.Time
}

const selectEvents = `
	SELECT id, event_type, entity_type, entity_id, payload, occurred_at, created_at
	FROM events`

// Append stores e and returns its row id.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal %s: %w", e.EventType(), err)
	}

	res, err := l.db.Exec(
		`INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", e.EventType(), err)
	}
	return res.LastInsertId()
}

// Since returns events that occurred at or after t, oldest first.
func (l *EventLog) Since(t time.Time) ([]RawEvent, error) {
	return l.query(selectEvents+` WHERE occurred_at >= ? ORDER BY id`, t.UTC())
}

// ForEntity returns the events of one entity, oldest first.
func (l *EventLog) ForEntity(entityType, entityID string) ([]RawEvent, error) {
	return l.query(selectEvents+` WHERE entity_type = ? AND entity_id = ? ORDER BY id`, entityType, entityID)
}

// Recent returns the newest n events, newest first.
func (l *EventLog) Recent(n int) ([]RawEvent, error) {
	return l.query(selectEvents+` ORDER BY id DESC LIMIT ?`, n)
}

// Prune deletes events older than olderThan and reports how many went.
func (l *EventLog) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := l.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

func (l *EventLog) query(q string, args ...any) ([]RawEvent, error) {
	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
