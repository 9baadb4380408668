package client

import (
	"context"
	"encoding/json"

	"github.com/bluecats/bluecats-loop-api-client/pkg/models"
)

// GetPaginatedEvents fetches one page of the event stream for a tracked
// object. The returned LastKey, when non-nil, is the cursor for the next
// page.
func (c *LoopClient) GetPaginatedEvents(ctx context.Context, query models.EventQuery) (*models.PaginatedEvents, error) {
	if err := c.ensureAuthenticated(); err != nil {
		return nil, err
	}

	path, err := buildEventsQuery(query)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		Get(path)

	body, err := unwrap(resp, err)
	if err != nil {
		return nil, err
	}

	var page models.PaginatedEvents
	if jsonErr := json.Unmarshal([]byte(body), &page); jsonErr != nil {
		return nil, &DecodingError{Cause: jsonErr}
	}

	return &page, nil
}

// PostEvents submits a batch of events recorded by an edge relay and returns
// the raw response body.
func (c *LoopClient) PostEvents(ctx context.Context, edgeMAC string, eventInfos []models.EventInfo) (string, error) {
	if err := c.ensureAuthenticated(); err != nil {
		return "", err
	}

	batch, err := newEventBatch(edgeMAC, eventInfos)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(batch).
		Post("/events")

	return unwrap(resp, err)
}
