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

// BusinessGroupsClient implements vra.BusinessGroupsClient.
type BusinessGroupsClient struct {
	httpClient *http.Client
	tenant     string
}

// NewBusinessGroupsClient creates a new business groups client scoped to a
// tenant.
func NewBusinessGroupsClient(httpClient *http.Client, tenant string) *BusinessGroupsClient {
	return &BusinessGroupsClient{
		httpClient: httpClient,
		tenant:     tenant,
	}
}

// List implements vra.BusinessGroupsClient.List.
func (c *BusinessGroupsClient) List(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.BusinessGroup], error) {
	path := fmt.Sprintf("/identity/api/tenants/%s/subtenants", c.tenant)

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing business groups: %w", err)
	}

	var page vra.Page[vra.BusinessGroup]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing business groups list: %w", err)
	}

	return &page, nil
}

// ListAll implements vra.BusinessGroupsClient.ListAll.
func (c *BusinessGroupsClient) ListAll(ctx context.Context, params *vra.QueryParams) ([]vra.BusinessGroup, error) {
	return vra.FetchAllPages(ctx, c.List, params)
}

// ListByUser implements vra.BusinessGroupsClient.ListByUser. Role narrows the
// listing to groups where the user holds that role (see the constants.Role
// values); expandGroups resolves membership through directory groups as well
// as direct assignment.
func (c *BusinessGroupsClient) ListByUser(ctx context.Context, username, role string, expandGroups bool) ([]vra.BusinessGroup, error) {
	path := fmt.Sprintf("/identity/api/tenants/%s/principals/%s/subtenants", c.tenant, url.PathEscape(username))

	fetch := func(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.BusinessGroup], error) {
		values := params.ToValues()
		if role != "" {
			values.Set("role", role)
		}

		if expandGroups {
			values.Set("expandGroups", constants.BooleanTrue)
		}

		resp, err := c.httpClient.Get(ctx, path, values)
		if err != nil {
			return nil, fmt.Errorf("listing business groups for user: %w", err)
		}

		var page vra.Page[vra.BusinessGroup]

		err = json.Unmarshal(resp.Body, &page)
		if err != nil {
			return nil, fmt.Errorf("parsing business groups list: %w", err)
		}

		return &page, nil
	}

	return vra.FetchAllPages(ctx, fetch, nil)
}

// Get implements vra.BusinessGroupsClient.Get.
func (c *BusinessGroupsClient) Get(ctx context.Context, groupID string) (*vra.BusinessGroup, error) {
	path := fmt.Sprintf("/identity/api/tenants/%s/subtenants/%s", c.tenant, groupID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting business group: %w", err)
	}

	var group vra.BusinessGroup

	err = json.Unmarshal(resp.Body, &group)
	if err != nil {
		return nil, fmt.Errorf("parsing business group: %w", err)
	}

	return &group, nil
}

// Delete implements vra.BusinessGroupsClient.Delete. The server refuses to
// delete a group that still owns resources.
func (c *BusinessGroupsClient) Delete(ctx context.Context, groupID string) error {
	path := fmt.Sprintf("/identity/api/tenants/%s/subtenants/%s", c.tenant, groupID)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting business group: %w", err)
	}

	return nil
}

// FindByName implements vra.BusinessGroupsClient.FindByName. Matching is a
// case-insensitive substring comparison over the full listing.
func (c *BusinessGroupsClient) FindByName(ctx context.Context, name string) ([]vra.BusinessGroup, error) {
	groups, err := c.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)

	var matches []vra.BusinessGroup

	for _, group := range groups {
		if strings.Contains(strings.ToLower(group.Name), needle) {
			matches = append(matches, group)
		}
	}

	return matches, nil
}

// GetByName implements vra.BusinessGroupsClient.GetByName. An exact name
// match wins even when other groups contain the name as a substring; the
// lookup is only ambiguous when several groups match partially and none
// exactly. Subtenant names are unique within a tenant.
func (c *BusinessGroupsClient) GetByName(ctx context.Context, name string) (*vra.BusinessGroup, error) {
	matches, err := c.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	for i := range matches {
		if strings.EqualFold(matches[i].Name, name) {
			return &matches[i], nil
		}
	}

	switch len(matches) {
	case 0:
		return nil, &vra.NotFoundError{Kind: "business group", Name: name}
	case 1:
		return &matches[0], nil
	default:
		return nil, &vra.AmbiguousMatchError{Kind: "business group", Name: name, Count: len(matches)}
	}
}
