package client

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/bluecats/bluecats-loop-api-client/pkg/models"
)

func TestNewEventBatchPreservesOrder(t *testing.T) {
	infos := []models.EventInfo{
		{Payload: map[string]any{"seq": 1}},
		{Payload: map[string]any{"seq": 2}},
		{Payload: map[string]any{"seq": 3}},
	}

	batch, err := newEventBatch("AA:BB:CC:DD:EE:FF", infos)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(batch)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"edgeMAC":"AA:BB:CC:DD:EE:FF","events":[{"seq":1},{"seq":2},{"seq":3}]}`
	if string(raw) != want {
		t.Errorf("unexpected wire body:\n got %s\nwant %s", raw, want)
	}
}

func TestNewEventBatchEmpty(t *testing.T) {
	batch, err := newEventBatch("AA:BB:CC:DD:EE:FF", []models.EventInfo{})
	if err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(batch)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"edgeMAC":"AA:BB:CC:DD:EE:FF","events":[]}`
	if string(raw) != want {
		t.Errorf("empty batch must encode events as []: %s", raw)
	}
}

func TestNewEventBatchInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		edgeMAC string
		infos   []models.EventInfo
		param   string
	}{
		{"missingEdgeMAC", "", []models.EventInfo{}, "edgeMAC"},
		{"nilEventInfos", "AA:BB:CC:DD:EE:FF", nil, "eventInfos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEventBatch(tt.edgeMAC, tt.infos)
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
