package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// RequestsClient implements vra.RequestsClient.
type RequestsClient struct {
	httpClient   *http.Client
	logger       vra.Logger
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewRequestsClient creates a new requests client.
func NewRequestsClient(httpClient *http.Client, logger vra.Logger) *RequestsClient {
	return &RequestsClient{
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: constants.DefaultPollInterval,       // Default poll interval
		pollTimeout:  constants.DefaultRequestPollTimeout, // Default poll timeout
	}
}

// List implements vra.RequestsClient.List.
func (c *RequestsClient) List(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.Request], error) {
	path := "/catalog-service/api/consumer/requests"

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}

	var page vra.Page[vra.Request]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing requests list: %w", err)
	}

	return &page, nil
}

// ListAll implements vra.RequestsClient.ListAll.
func (c *RequestsClient) ListAll(ctx context.Context, params *vra.QueryParams) ([]vra.Request, error) {
	return vra.FetchAllPages(ctx, c.List, params)
}

// Get implements vra.RequestsClient.Get.
func (c *RequestsClient) Get(ctx context.Context, requestID string) (*vra.Request, error) {
	path := "/catalog-service/api/consumer/requests/" + requestID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}

	var request vra.Request

	err = json.Unmarshal(resp.Body, &request)
	if err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}

	return &request, nil
}

// GetResourceViews implements vra.RequestsClient.GetResourceViews. The views
// become available once provisioning has produced resources; before that the
// page is empty.
func (c *RequestsClient) GetResourceViews(ctx context.Context, requestID string) (*vra.Page[vra.ResourceView], error) {
	path := fmt.Sprintf("/catalog-service/api/consumer/requests/%s/resourceViews", requestID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting request resource views: %w", err)
	}

	var page vra.Page[vra.ResourceView]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing request resource views: %w", err)
	}

	return &page, nil
}

// PollUntilComplete implements vra.RequestsClient.PollUntilComplete.
// It polls the request until it reaches a terminal state. Failed requests
// return the final request body together with a *vra.ProvisioningError so
// callers can inspect the completion details.
func (c *RequestsClient) PollUntilComplete(ctx context.Context, requestID string) (*vra.Request, error) {
	// Create a timeout context if not already provided
	pollCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	// First check immediately
	request, err := c.Get(pollCtx, requestID)
	if err != nil {
		return nil, fmt.Errorf("getting request status: %w", err)
	}

	c.logRequestState(request)

	// Check if already in terminal state
	if isRequestComplete(request) {
		return c.completedRequest(request)
	}

	// Poll until complete or timeout
	for {
		select {
		case <-pollCtx.Done():
			// Return the last known state on timeout
			return request, fmt.Errorf("timeout waiting for request to complete: %w", pollCtx.Err())
		case <-ticker.C:
			request, err = c.Get(pollCtx, requestID)
			if err != nil {
				return nil, fmt.Errorf("getting request status: %w", err)
			}

			c.logRequestState(request)

			if isRequestComplete(request) {
				return c.completedRequest(request)
			}
		}
	}
}

func (c *RequestsClient) completedRequest(request *vra.Request) (*vra.Request, error) {
	if isRequestFailed(request) {
		return request, &vra.ProvisioningError{State: request.State, Request: request}
	}

	return request, nil
}

// logRequestState reports progress through the display state name and phase
// rather than the machine state.
func (c *RequestsClient) logRequestState(request *vra.Request) {
	if c.logger == nil {
		return
	}

	c.logger.Info("provisioning request state", map[string]interface{}{
		"request_id": request.ID,
		"state":      request.StateName,
		"phase":      request.Phase,
	})
}

// isRequestComplete checks if a request is in a terminal state.
func isRequestComplete(request *vra.Request) bool {
	return request.State == constants.RequestStateSuccessful || isRequestFailed(request)
}

// isRequestFailed checks if a request failed, either in the catalog service
// or in the provisioning provider.
func isRequestFailed(request *vra.Request) bool {
	return request.State == constants.RequestStateFailed ||
		request.State == constants.RequestStateProviderFailed
}
