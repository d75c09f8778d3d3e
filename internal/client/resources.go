package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// ResourcesClient implements vra.ResourcesClient.
type ResourcesClient struct {
	httpClient *http.Client
}

// NewResourcesClient creates a new resources client.
func NewResourcesClient(httpClient *http.Client) *ResourcesClient {
	return &ResourcesClient{
		httpClient: httpClient,
	}
}

// List implements vra.ResourcesClient.List.
func (c *ResourcesClient) List(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.Resource], error) {
	path := "/catalog-service/api/consumer/resources"

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}

	var page vra.Page[vra.Resource]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing resources list: %w", err)
	}

	return &page, nil
}

// ListAll implements vra.ResourcesClient.ListAll.
func (c *ResourcesClient) ListAll(ctx context.Context, params *vra.QueryParams) ([]vra.Resource, error) {
	return vra.FetchAllPages(ctx, c.List, params)
}

// Get implements vra.ResourcesClient.Get. The response includes the day-2
// operations the server currently allows on the resource.
func (c *ResourcesClient) Get(ctx context.Context, resourceID string) (*vra.Resource, error) {
	path := "/catalog-service/api/consumer/resources/" + resourceID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting resource: %w", err)
	}

	var resource vra.Resource

	err = json.Unmarshal(resp.Body, &resource)
	if err != nil {
		return nil, fmt.Errorf("parsing resource: %w", err)
	}

	return &resource, nil
}

// FindByName implements vra.ResourcesClient.FindByName. Matching is a
// case-insensitive substring comparison over the full listing.
func (c *ResourcesClient) FindByName(ctx context.Context, name string) ([]vra.Resource, error) {
	resources, err := c.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)

	var matches []vra.Resource

	for _, resource := range resources {
		if strings.Contains(strings.ToLower(resource.Name), needle) {
			matches = append(matches, resource)
		}
	}

	return matches, nil
}

// GetView implements vra.ResourcesClient.GetView. The resourceViews endpoint
// wraps even a single-resource lookup in a page envelope, so the one element
// is unwrapped here.
func (c *ResourcesClient) GetView(ctx context.Context, resourceID string) (*vra.ResourceView, error) {
	path := "/catalog-service/api/consumer/resourceViews/" + resourceID

	resp, err := c.httpClient.Get(ctx, path, resourceViewOptions())
	if err != nil {
		return nil, fmt.Errorf("getting resource view: %w", err)
	}

	var page vra.Page[vra.ResourceView]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing resource view: %w", err)
	}

	if len(page.Content) == 0 {
		return nil, &vra.NotFoundError{Kind: "resource view", Name: resourceID}
	}

	return &page.Content[0], nil
}

// ListChildViews implements vra.ResourcesClient.ListChildViews. Children are
// selected with a parentResource filter on the resourceViews collection.
func (c *ResourcesClient) ListChildViews(ctx context.Context, parentResourceID string) (*vra.Page[vra.ResourceView], error) {
	path := "/catalog-service/api/consumer/resourceViews"

	values := resourceViewOptions()
	values.Set("$filter", vra.FilterEq("parentResource", parentResourceID))

	resp, err := c.httpClient.Get(ctx, path, values)
	if err != nil {
		return nil, fmt.Errorf("listing child resource views: %w", err)
	}

	var page vra.Page[vra.ResourceView]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing child resource views: %w", err)
	}

	return &page, nil
}

// resourceViewOptions returns the query options that make resourceViews
// include unmanaged resources, extended data, and the operation links.
func resourceViewOptions() url.Values {
	values := url.Values{}
	values.Set("managedOnly", constants.BooleanFalse)
	values.Set("withExtendedData", constants.BooleanTrue)
	values.Set("withOperations", constants.BooleanTrue)

	return values
}
