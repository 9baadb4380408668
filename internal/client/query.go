package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bluecats/bluecats-loop-api-client/pkg/models"
)

// Loop strict ISO 8601 format with milliseconds and Z suffix
const LoopTimeFormat = "2006-01-02T15:04:05.000Z"

// buildEventsQuery renders the relative request path for a paginated event
// read. Parameter order is fixed so request signatures stay reproducible.
func buildEventsQuery(q models.EventQuery) (string, error) {
	if q.ObjectType == "" {
		return "", &InvalidArgumentError{Param: "objectType"}
	}
	if q.ObjectID == "" {
		return "", &InvalidArgumentError{Param: "objectID"}
	}

	var sb strings.Builder
	sb.WriteString("events?objectType=")
	sb.WriteString(url.QueryEscape(q.ObjectType))
	sb.WriteString("&objectID=")
	sb.WriteString(url.QueryEscape(q.ObjectID))

	appendParam := func(name, value string) {
		sb.WriteByte('&')
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	}

	if q.EventType != "" {
		appendParam("eventType", q.EventType)
	}
	if q.LastKeyID != "" {
		appendParam("lastKeyID", q.LastKeyID)
	}
	if !q.LastKeyTimestamp.IsZero() {
		appendParam("lastKeyTS", q.LastKeyTimestamp.UTC().Format(LoopTimeFormat))
	}
	if q.Limit > 0 {
		appendParam("limit", strconv.Itoa(q.Limit))
	}
	// tsStart/tsEnd travel as a pair; a lone bound is not emitted.
	if !q.StartTime.IsZero() && !q.EndTime.IsZero() {
		appendParam("tsStart", q.StartTime.UTC().Format(LoopTimeFormat))
		appendParam("tsEnd", q.EndTime.UTC().Format(LoopTimeFormat))
	}

	return sb.String(), nil
}
