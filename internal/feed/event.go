package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/muurk/todolist/internal/collection"
)

// EventType names the mutation that produced an event
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is one change-feed message. It is sent as a JSON text frame.
type Event struct {
	Type   EventType         `json:"type"`
	Record collection.Record `json:"record"`
	At     time.Time         `json:"at"`
}

// NewEvent stamps an event with the current time
func NewEvent(t EventType, rec collection.Record) Event {
	return Event{Type: t, Record: rec, At: time.Now().UTC()}
}

// String returns a one-line description (e.g., "updated 2: B2")
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Record)
}

// DecodeEvent parses a text frame into an Event
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	switch e.Type {
	case EventCreated, EventUpdated, EventDeleted:
	default:
		return Event{}, fmt.Errorf("unknown event type %q", e.Type)
	}
	return e, nil
}
