package models

import (
	"encoding/json"
	"time"
)

// Event is a single tracked-object event as returned by GET /events.
type Event struct {
	ID         string          `json:"id"`
	ObjectType string          `json:"objectType"` // e.g. "beacon", "location"
	ObjectID   string          `json:"objectID"`
	Type       string          `json:"eventType"` // e.g. "OBJECT_ENTER", "OBJECT_EXIT"
	EdgeMAC    string          `json:"edgeMAC,omitempty"`
	Timestamp  string          `json:"timestamp"` // ISO 8601
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// PaginationKey is the continuation cursor: the last item of a page,
// identified by its key and timestamp. Feed it back as LastKeyID /
// LastKeyTimestamp on the next query to resume where the page ended.
type PaginationKey struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

// PaginatedEvents is one page of the event stream. LastKey is nil on the
// final page.
type PaginatedEvents struct {
	Events  []Event        `json:"events"`
	LastKey *PaginationKey `json:"lastKey,omitempty"`
}

// EventQuery groups the filter and pagination parameters of a paginated
// event read. ObjectType and ObjectID are mandatory; the zero value of every
// other field means "not set".
type EventQuery struct {
	ObjectType       string
	ObjectID         string
	EventType        string
	LastKeyID        string
	LastKeyTimestamp time.Time
	Limit            int
	// StartTime and EndTime bound the read to a time range. They only take
	// effect as a pair; a lone bound is ignored.
	StartTime time.Time
	EndTime   time.Time
}

// EventInfo carries one outbound event payload. The payload is opaque to the
// client: it is forwarded verbatim, never validated or mutated.
type EventInfo struct {
	Payload any
}

// EventBatch is the wire body for POST /events.
type EventBatch struct {
	EdgeMAC string `json:"edgeMAC"`
	Events  []any  `json:"events"`
}
