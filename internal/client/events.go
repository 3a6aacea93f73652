package client

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// EventsClient implements workos.EventsClient.
type EventsClient struct {
	httpClient *http.Client
}

// NewEventsClient creates a new events client.
func NewEventsClient(httpClient *http.Client) *EventsClient {
	return &EventsClient{
		httpClient: httpClient,
	}
}

// List implements workos.EventsClient.List.
func (c *EventsClient) List(ctx context.Context, params *workos.ListEventsParams) (*workos.List[workos.Event], error) {
	return listPage[workos.Event](ctx, c.httpClient, "/events", params, nil, "listing events")
}
