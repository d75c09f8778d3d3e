package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// resourceKinds maps server resource-type tags to deployment tree node
// kinds. Children carrying a tag outside this registry are skipped from the
// tree and recorded on the parent node.
var resourceKinds = map[string]vra.ResourceKind{
	constants.ResourceTypeDeployment:     vra.KindDeployment,
	constants.ResourceTypeVirtualMachine: vra.KindVirtualMachine,
	constants.ResourceTypeLoadBalancer:   vra.KindLoadBalancer,
	constants.ResourceTypeEdge:           vra.KindEdge,
	constants.ResourceTypeNetwork:        vra.KindNetwork,
}

// DeploymentsClient implements vra.DeploymentsClient.
type DeploymentsClient struct {
	httpClient *http.Client
	resources  *ResourcesClient
	baseURL    string
	logger     vra.Logger
}

// NewDeploymentsClient creates a new deployments client. baseURL is the
// scheme-qualified server address used to synthesize absolute operation
// URLs.
func NewDeploymentsClient(httpClient *http.Client, baseURL string, logger vra.Logger) *DeploymentsClient {
	return &DeploymentsClient{
		httpClient: httpClient,
		resources:  NewResourcesClient(httpClient),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
	}
}

// Get implements vra.DeploymentsClient.Get. It fetches the resource, builds
// its node, and descends into the children reported by the resource views.
// The tree is a snapshot assembled from several requests; a resource
// changing mid-traversal appears as it was when its request ran.
func (c *DeploymentsClient) Get(ctx context.Context, resourceID string) (*vra.Deployment, error) {
	resource, err := c.resources.Get(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("building deployment: %w", err)
	}

	deployment := c.buildNode(resource)

	if resource.HasChildren {
		err = c.attachChildren(ctx, deployment)
		if err != nil {
			return nil, err
		}
	}

	return deployment, nil
}

// attachChildren builds the child nodes of a deployment from its child
// resource views, recursing through Get for every known resource type.
func (c *DeploymentsClient) attachChildren(ctx context.Context, deployment *vra.Deployment) error {
	page, err := c.resources.ListChildViews(ctx, deployment.ID)
	if err != nil {
		return fmt.Errorf("listing deployment children: %w", err)
	}

	for _, child := range page.Content {
		_, known := resourceKinds[child.ResourceType]
		if !known {
			deployment.SkippedChildren = append(deployment.SkippedChildren, child.ResourceType)

			if c.logger != nil {
				c.logger.Warn("skipping child with unhandled resource type", map[string]interface{}{
					"parent_id":     deployment.ID,
					"resource_id":   child.ResourceID,
					"resource_type": child.ResourceType,
				})
			}

			continue
		}

		node, err := c.Get(ctx, child.ResourceID)
		if err != nil {
			return fmt.Errorf("building child %s: %w", child.ResourceID, err)
		}

		deployment.Children = append(deployment.Children, node)
	}

	return nil
}

func (c *DeploymentsClient) buildNode(resource *vra.Resource) *vra.Deployment {
	return &vra.Deployment{
		Kind:               resourceKind(resource.ResourceTypeRef.ID),
		ID:                 resource.ID,
		Name:               resource.Name,
		Description:        resource.Description,
		ResourceTypeRef:    resource.ResourceTypeRef,
		RequestID:          resource.RequestID,
		BusinessGroupID:    resource.Organization.SubtenantRef,
		BusinessGroupLabel: resource.Organization.SubtenantLabel,
		TenantID:           resource.Organization.TenantRef,
		DateCreated:        resource.DateCreated,
		Owners:             resource.Owners,
		Lease:              resource.Lease,
		ParentResourceRef:  resource.ParentResourceRef,
		Operations:         c.operationsForResource(resource),
	}
}

// resourceKind maps a server resource-type tag to a node kind. A root
// fetched with a tag outside the registry becomes a plain deployment node;
// child dispatch filters unknown tags before they reach this point.
func resourceKind(tag string) vra.ResourceKind {
	kind, ok := resourceKinds[tag]
	if !ok {
		return vra.KindDeployment
	}

	return kind
}

func (c *DeploymentsClient) operationsForResource(resource *vra.Resource) []vra.Operation {
	operations := make([]vra.Operation, 0, len(resource.Operations))
	for _, descriptor := range resource.Operations {
		operations = append(operations, c.synthesizeOperation(resource.ID, descriptor))
	}

	return operations
}

// synthesizeOperation builds the absolute template and request URLs for a
// day-2 action descriptor. The URLs are absolute so a node can be carried
// around and executed without its originating client.
func (c *DeploymentsClient) synthesizeOperation(resourceID string, descriptor vra.ResourceOperation) vra.Operation {
	requestURL := fmt.Sprintf("%s/catalog-service/api/consumer/resources/%s/actions/%s/requests",
		c.baseURL, resourceID, descriptor.ID)

	return vra.Operation{
		Name:        descriptor.Name,
		Description: descriptor.Description,
		ID:          descriptor.ID,
		TemplateURL: requestURL + "/template",
		RequestURL:  requestURL,
	}
}

// GetOperationTemplate implements vra.DeploymentsClient.GetOperationTemplate.
func (c *DeploymentsClient) GetOperationTemplate(ctx context.Context, deployment *vra.Deployment, operationName string) (vra.Template, error) {
	operation, err := deployment.Operation(operationName)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, operation.TemplateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("getting operation template: %w", err)
	}

	var template vra.Template

	err = json.Unmarshal(resp.Body, &template)
	if err != nil {
		return nil, fmt.Errorf("parsing operation template: %w", err)
	}

	return template, nil
}

// ExecuteOperation implements vra.DeploymentsClient.ExecuteOperation. Some
// actions respond with an empty body, which yields a nil template.
func (c *DeploymentsClient) ExecuteOperation(ctx context.Context, deployment *vra.Deployment, operationName string, payload vra.Template) (vra.Template, error) {
	operation, err := deployment.Operation(operationName)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, operation.RequestURL, payload)
	if err != nil {
		return nil, fmt.Errorf("executing operation %q: %w", operationName, err)
	}

	if len(resp.Body) == 0 {
		return nil, nil
	}

	var result vra.Template

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing operation response: %w", err)
	}

	return result, nil
}

// PowerOn implements vra.DeploymentsClient.PowerOn.
func (c *DeploymentsClient) PowerOn(ctx context.Context, deployment *vra.Deployment) (vra.Template, error) {
	return c.runTemplateOperation(ctx, deployment, constants.OperationPowerOn)
}

// PowerOff implements vra.DeploymentsClient.PowerOff.
func (c *DeploymentsClient) PowerOff(ctx context.Context, deployment *vra.Deployment) (vra.Template, error) {
	return c.runTemplateOperation(ctx, deployment, constants.OperationPowerOff)
}

// Reboot implements vra.DeploymentsClient.Reboot.
func (c *DeploymentsClient) Reboot(ctx context.Context, deployment *vra.Deployment) (vra.Template, error) {
	return c.runTemplateOperation(ctx, deployment, constants.OperationReboot)
}

// Destroy implements vra.DeploymentsClient.Destroy.
func (c *DeploymentsClient) Destroy(ctx context.Context, deployment *vra.Deployment) (vra.Template, error) {
	return c.runTemplateOperation(ctx, deployment, constants.OperationDestroy)
}

// runTemplateOperation fetches an operation's template and submits it
// unmodified.
func (c *DeploymentsClient) runTemplateOperation(ctx context.Context, deployment *vra.Deployment, operationName string) (vra.Template, error) {
	payload, err := c.GetOperationTemplate(ctx, deployment, operationName)
	if err != nil {
		return nil, err
	}

	return c.ExecuteOperation(ctx, deployment, operationName, payload)
}

// ScaleOut implements vra.DeploymentsClient.ScaleOut. Every component of
// every tier in the template receives the same target count; per-tier
// counts are not supported.
func (c *DeploymentsClient) ScaleOut(ctx context.Context, deployment *vra.Deployment, newValue int) (vra.Template, error) {
	template, err := c.GetOperationTemplate(ctx, deployment, constants.OperationScaleOut)
	if err != nil {
		return nil, err
	}

	return c.ExecuteOperation(ctx, deployment, constants.OperationScaleOut, scaleClusterValues(template, newValue))
}

// scaleClusterValues sets the _cluster count of every component in every
// tier of a Scale Out template. The template layout is
// data.{tier}.data.{component}.data._cluster; entries that do not follow it
// are left untouched.
func scaleClusterValues(template vra.Template, newValue int) vra.Template {
	patched := template.Clone()

	tiers, ok := patched["data"].(map[string]interface{})
	if !ok {
		return patched
	}

	for _, tierValue := range tiers {
		tier, ok := tierValue.(map[string]interface{})
		if !ok {
			continue
		}

		components, ok := tier["data"].(map[string]interface{})
		if !ok {
			continue
		}

		for _, componentValue := range components {
			component, ok := componentValue.(map[string]interface{})
			if !ok {
				continue
			}

			componentData, ok := component["data"].(map[string]interface{})
			if !ok {
				continue
			}

			componentData["_cluster"] = newValue
		}
	}

	return patched
}
