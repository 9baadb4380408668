package client

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bluecats/bluecats-loop-api-client/pkg/models"
)

func TestBuildEventsQueryRequiredOnly(t *testing.T) {
	got, err := buildEventsQuery(models.EventQuery{ObjectType: "loc", ObjectID: "42"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "events?objectType=loc&objectID=42" {
		t.Errorf("unexpected query: %s", got)
	}
}

func TestBuildEventsQueryAllParams(t *testing.T) {
	q := models.EventQuery{
		ObjectType:       "beacon",
		ObjectID:         "abc",
		EventType:        "OBJECT_ENTER",
		LastKeyID:        "evt-9",
		LastKeyTimestamp: time.Date(2024, 5, 1, 12, 30, 45, 123000000, time.UTC),
		Limit:            50,
		StartTime:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	got, err := buildEventsQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	want := "events?objectType=beacon&objectID=abc" +
		"&eventType=OBJECT_ENTER" +
		"&lastKeyID=evt-9" +
		"&lastKeyTS=2024-05-01T12%3A30%3A45.123Z" +
		"&limit=50" +
		"&tsStart=2024-05-01T00%3A00%3A00.000Z" +
		"&tsEnd=2024-05-02T00%3A00%3A00.000Z"
	if got != want {
		t.Errorf("unexpected query:\n got %s\nwant %s", got, want)
	}
}

func TestBuildEventsQueryLoneRangeBound(t *testing.T) {
	bound := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		query models.EventQuery
	}{
		{"startOnly", models.EventQuery{ObjectType: "loc", ObjectID: "42", StartTime: bound}},
		{"endOnly", models.EventQuery{ObjectType: "loc", ObjectID: "42", EndTime: bound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildEventsQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(got, "tsStart") || strings.Contains(got, "tsEnd") {
				t.Errorf("lone range bound must not be emitted: %s", got)
			}
		})
	}
}

func TestBuildEventsQueryTimestampsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	q := models.EventQuery{
		ObjectType: "loc",
		ObjectID:   "42",
		StartTime:  time.Date(2024, 5, 1, 14, 0, 0, 0, loc),
		EndTime:    time.Date(2024, 5, 1, 16, 0, 0, 0, loc),
	}
	got, err := buildEventsQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "tsStart=2024-05-01T12%3A00%3A00.000Z") {
		t.Errorf("tsStart not normalized to UTC: %s", got)
	}
	if !strings.Contains(got, "tsEnd=2024-05-01T14%3A00%3A00.000Z") {
		t.Errorf("tsEnd not normalized to UTC: %s", got)
	}
}

func TestBuildEventsQueryEscaping(t *testing.T) {
	got, err := buildEventsQuery(models.EventQuery{ObjectType: "loc", ObjectID: "a b&c"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "events?objectType=loc&objectID=a+b%26c" {
		t.Errorf("unexpected escaping: %s", got)
	}
}

func TestBuildEventsQueryMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		query models.EventQuery
		param string
	}{
		{"missingObjectType", models.EventQuery{ObjectID: "42"}, "objectType"},
		{"missingObjectID", models.EventQuery{ObjectType: "loc"}, "objectID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildEventsQuery(tt.query)
			var invalid *InvalidArgumentError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidArgumentError, got %v", err)
			}
			if invalid.Param != tt.param {
				t.Errorf("expected param %q, got %q", tt.param, invalid.Param)
			}
		})
	}
}
