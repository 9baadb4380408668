package client

import "github.com/bluecats/bluecats-loop-api-client/pkg/models"

// newEventBatch builds the wire body for POST /events. Payloads are forwarded
// verbatim and in order; an empty batch encodes as "events": [].
func newEventBatch(edgeMAC string, eventInfos []models.EventInfo) (models.EventBatch, error) {
	if edgeMAC == "" {
		return models.EventBatch{}, &InvalidArgumentError{Param: "edgeMAC"}
	}
	if eventInfos == nil {
		return models.EventBatch{}, &InvalidArgumentError{Param: "eventInfos"}
	}

	events := make([]any, len(eventInfos))
	for i, info := range eventInfos {
		events[i] = info.Payload
	}

	return models.EventBatch{EdgeMAC: edgeMAC, Events: events}, nil
}
