package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// CatalogClient implements vra.CatalogClient.
//
// The serviceId, onBehalfOf, and subtenantId query parameters the catalog
// service accepts on its listing endpoints can be supplied through
// QueryParams.WithParam.
type CatalogClient struct {
	httpClient *http.Client
}

// NewCatalogClient creates a new catalog client.
func NewCatalogClient(httpClient *http.Client) *CatalogClient {
	return &CatalogClient{
		httpClient: httpClient,
	}
}

// ListEntitledItems implements vra.CatalogClient.ListEntitledItems.
func (c *CatalogClient) ListEntitledItems(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.EntitledCatalogItem], error) {
	path := "/catalog-service/api/consumer/entitledCatalogItems"

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing entitled catalog items: %w", err)
	}

	var page vra.Page[vra.EntitledCatalogItem]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing entitled catalog items list: %w", err)
	}

	return &page, nil
}

// ListAllEntitledItems implements vra.CatalogClient.ListAllEntitledItems.
func (c *CatalogClient) ListAllEntitledItems(ctx context.Context, params *vra.QueryParams) ([]vra.EntitledCatalogItem, error) {
	return vra.FetchAllPages(ctx, c.ListEntitledItems, params)
}

// ListEntitledItemViews implements vra.CatalogClient.ListEntitledItemViews.
func (c *CatalogClient) ListEntitledItemViews(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.CatalogItemView], error) {
	path := "/catalog-service/api/consumer/entitledCatalogItemViews"

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing entitled catalog item views: %w", err)
	}

	var page vra.Page[vra.CatalogItemView]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing entitled catalog item views list: %w", err)
	}

	return &page, nil
}

// ListAllEntitledItemViews implements vra.CatalogClient.ListAllEntitledItemViews.
func (c *CatalogClient) ListAllEntitledItemViews(ctx context.Context, params *vra.QueryParams) ([]vra.CatalogItemView, error) {
	return vra.FetchAllPages(ctx, c.ListEntitledItemViews, params)
}

// GetItem implements vra.CatalogClient.GetItem. The catalog service only
// exposes entitled items through the collection endpoint, so a single item
// is fetched with an id filter.
func (c *CatalogClient) GetItem(ctx context.Context, itemID string) (*vra.EntitledCatalogItem, error) {
	params := vra.NewQueryParams().WithFilter(vra.FilterEq("id", itemID))

	page, err := c.ListEntitledItems(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("getting catalog item: %w", err)
	}

	if len(page.Content) == 0 {
		return nil, &vra.NotFoundError{Kind: "catalog item", Name: itemID}
	}

	return &page.Content[0], nil
}

// FindItemsByName implements vra.CatalogClient.FindItemsByName. Matching is a
// case-insensitive substring comparison over the full listing.
func (c *CatalogClient) FindItemsByName(ctx context.Context, name string) ([]vra.EntitledCatalogItem, error) {
	items, err := c.ListAllEntitledItems(ctx, nil)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)

	var matches []vra.EntitledCatalogItem

	for _, item := range items {
		if strings.Contains(strings.ToLower(item.CatalogItem.Name), needle) {
			matches = append(matches, item)
		}
	}

	return matches, nil
}

// GetItemByName implements vra.CatalogClient.GetItemByName. An exact name
// match wins even when other items contain the name as a substring; the
// lookup is only ambiguous when several items match partially and none
// exactly.
func (c *CatalogClient) GetItemByName(ctx context.Context, name string) (*vra.EntitledCatalogItem, error) {
	matches, err := c.FindItemsByName(ctx, name)
	if err != nil {
		return nil, err
	}

	for i := range matches {
		if strings.EqualFold(matches[i].CatalogItem.Name, name) {
			return &matches[i], nil
		}
	}

	switch len(matches) {
	case 0:
		return nil, &vra.NotFoundError{Kind: "catalog item", Name: name}
	case 1:
		return &matches[0], nil
	default:
		return nil, &vra.AmbiguousMatchError{Kind: "catalog item", Name: name, Count: len(matches)}
	}
}

// GetRequestTemplate implements vra.CatalogClient.GetRequestTemplate. The
// returned template carries the server's defaults and should be patched
// rather than built from scratch.
func (c *CatalogClient) GetRequestTemplate(ctx context.Context, itemID string) (vra.Template, error) {
	resp, err := c.httpClient.Get(ctx, c.RequestTemplateURL(itemID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting request template: %w", err)
	}

	var template vra.Template

	err = json.Unmarshal(resp.Body, &template)
	if err != nil {
		return nil, fmt.Errorf("parsing request template: %w", err)
	}

	return template, nil
}

// SubmitRequest implements vra.CatalogClient.SubmitRequest. A nil payload
// submits the item's unmodified request template.
func (c *CatalogClient) SubmitRequest(ctx context.Context, itemID string, payload vra.Template) (*vra.Request, error) {
	if payload == nil {
		template, err := c.GetRequestTemplate(ctx, itemID)
		if err != nil {
			return nil, err
		}

		payload = template
	}

	resp, err := c.httpClient.Post(ctx, c.RequestURL(itemID), payload)
	if err != nil {
		return nil, fmt.Errorf("submitting catalog request: %w", err)
	}

	var request vra.Request

	err = json.Unmarshal(resp.Body, &request)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog request response: %w", err)
	}

	return &request, nil
}

// RequestTemplateURL implements vra.CatalogClient.RequestTemplateURL.
func (c *CatalogClient) RequestTemplateURL(itemID string) string {
	return fmt.Sprintf("/catalog-service/api/consumer/entitledCatalogItems/%s/requests/template", itemID)
}

// RequestURL implements vra.CatalogClient.RequestURL.
func (c *CatalogClient) RequestURL(itemID string) string {
	return fmt.Sprintf("/catalog-service/api/consumer/entitledCatalogItems/%s/requests", itemID)
}
