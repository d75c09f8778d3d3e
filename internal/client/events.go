package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// EventsClient implements vra.EventsClient.
type EventsClient struct {
	httpClient *http.Client
}

// NewEventsClient creates a new event broker client.
func NewEventsClient(httpClient *http.Client) *EventsClient {
	return &EventsClient{
		httpClient: httpClient,
	}
}

// List implements vra.EventsClient.List.
func (c *EventsClient) List(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.Event], error) {
	path := "/event-broker-service/api/events"

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var page vra.Page[vra.Event]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing events list: %w", err)
	}

	return &page, nil
}

// ListAll implements vra.EventsClient.ListAll.
func (c *EventsClient) ListAll(ctx context.Context, params *vra.QueryParams) ([]vra.Event, error) {
	return vra.FetchAllPages(ctx, c.List, params)
}
