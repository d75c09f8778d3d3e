package vra

import (
	"time"
)

// LabelRef is a reference to another catalog entity by ID with a display
// label, e.g. resourceTypeRef or catalogItemRef.
type LabelRef struct {
	ID    string `json:"id"    yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Organization identifies the tenant and business group an entity belongs to.
type Organization struct {
	TenantRef      string `json:"tenantRef"      yaml:"tenantRef"`
	TenantLabel    string `json:"tenantLabel"    yaml:"tenantLabel"`
	SubtenantRef   string `json:"subtenantRef"   yaml:"subtenantRef"`
	SubtenantLabel string `json:"subtenantLabel" yaml:"subtenantLabel"`
}

// Principal identifies a user or group that owns a resource.
type Principal struct {
	TenantName string `json:"tenantName" yaml:"tenantName"`
	Ref        string `json:"ref"        yaml:"ref"`
	Type       string `json:"type"       yaml:"type"`
	Value      string `json:"value"      yaml:"value"`
}

// Lease is the validity window of a provisioned resource.
type Lease struct {
	Start time.Time  `json:"start"         yaml:"start"`
	End   *time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// Link is a hypermedia link attached to API responses.
type Link struct {
	Type string `json:"@type,omitempty" yaml:"type,omitempty"`
	Rel  string `json:"rel"             yaml:"rel"`
	Href string `json:"href"            yaml:"href"`
}

// PageMetadata describes one page of a collection response.
type PageMetadata struct {
	Size          int `json:"size"          yaml:"size"`
	TotalElements int `json:"totalElements" yaml:"totalElements"`
	TotalPages    int `json:"totalPages"    yaml:"totalPages"`
	Number        int `json:"number"        yaml:"number"`
	Offset        int `json:"offset"        yaml:"offset"`
}

// Page is the content/metadata envelope every collection endpoint returns.
type Page[T any] struct {
	Links    []Link       `json:"links,omitempty" yaml:"links,omitempty"`
	Content  []T          `json:"content"         yaml:"content"`
	Metadata PageMetadata `json:"metadata"        yaml:"metadata"`
}

// SubtenantRole is a role a principal holds on a business group.
type SubtenantRole struct {
	PrincipalID  string `json:"principalId"  yaml:"principalId"`
	ScopeRoleRef string `json:"scopeRoleRef" yaml:"scopeRoleRef"`
	State        string `json:"state"        yaml:"state"`
}

// BusinessGroup is an identity-service subtenant controlling entitlements
// and resource ownership.
type BusinessGroup struct {
	ID             string                 `json:"id"                       yaml:"id"`
	Name           string                 `json:"name"                     yaml:"name"`
	Description    string                 `json:"description"              yaml:"description"`
	Tenant         string                 `json:"tenant"                   yaml:"tenant"`
	SubtenantRoles []SubtenantRole        `json:"subtenantRoles,omitempty" yaml:"subtenantRoles,omitempty"`
	ExtensionData  map[string]interface{} `json:"extensionData,omitempty"  yaml:"extensionData,omitempty"`
}

// CatalogItem is a provisionable offering in the service catalog.
type CatalogItem struct {
	ID                    string       `json:"id"                    yaml:"id"`
	Name                  string       `json:"name"                  yaml:"name"`
	Description           string       `json:"description"           yaml:"description"`
	Status                string       `json:"status"                yaml:"status"`
	DateCreated           time.Time    `json:"dateCreated"           yaml:"dateCreated"`
	LastUpdatedDate       time.Time    `json:"lastUpdatedDate"       yaml:"lastUpdatedDate"`
	IconID                string       `json:"iconId"                yaml:"iconId"`
	Version               int          `json:"version"               yaml:"version"`
	Requestable           bool         `json:"requestable"           yaml:"requestable"`
	IsNoteworthy          bool         `json:"isNoteworthy"          yaml:"isNoteworthy"`
	CatalogItemTypeRef    LabelRef     `json:"catalogItemTypeRef"    yaml:"catalogItemTypeRef"`
	ServiceRef            LabelRef     `json:"serviceRef"            yaml:"serviceRef"`
	OutputResourceTypeRef LabelRef     `json:"outputResourceTypeRef" yaml:"outputResourceTypeRef"`
	Organization          Organization `json:"organization"          yaml:"organization"`
}

// EntitledCatalogItem wraps a catalog item the current user is entitled to
// consume, as returned by the entitledCatalogItems endpoint.
type EntitledCatalogItem struct {
	CatalogItem           CatalogItem    `json:"catalogItem"           yaml:"catalogItem"`
	EntitledOrganizations []Organization `json:"entitledOrganizations" yaml:"entitledOrganizations"`
}

// CatalogItemView is the flattened per-user view of an entitled catalog item,
// including the request links the server advertises for it.
type CatalogItemView struct {
	CatalogItemID         string         `json:"catalogItemId"         yaml:"catalogItemId"`
	Name                  string         `json:"name"                  yaml:"name"`
	Description           string         `json:"description"           yaml:"description"`
	DateCreated           time.Time      `json:"dateCreated"           yaml:"dateCreated"`
	LastUpdatedDate       time.Time      `json:"lastUpdatedDate"       yaml:"lastUpdatedDate"`
	IconID                string         `json:"iconId"                yaml:"iconId"`
	IsNoteworthy          bool           `json:"isNoteworthy"          yaml:"isNoteworthy"`
	CatalogItemTypeRef    LabelRef       `json:"catalogItemTypeRef"    yaml:"catalogItemTypeRef"`
	ServiceRef            LabelRef       `json:"serviceRef"            yaml:"serviceRef"`
	OutputResourceTypeRef LabelRef       `json:"outputResourceTypeRef" yaml:"outputResourceTypeRef"`
	EntitledOrganizations []Organization `json:"entitledOrganizations" yaml:"entitledOrganizations"`
	Links                 []Link         `json:"links"                 yaml:"links"`
}

// RequestCompletion reports the outcome details of a finished request.
type RequestCompletion struct {
	RequestCompletionState string `json:"requestCompletionState" yaml:"requestCompletionState"`
	CompletionDetails      string `json:"completionDetails"      yaml:"completionDetails"`
}

// Request is a catalog provisioning submission. State carries the
// server-defined lifecycle label; StateName and Phase are the display
// counterparts surfaced while polling.
type Request struct {
	ID                       string                 `json:"id"                          yaml:"id"`
	IconID                   string                 `json:"iconId"                      yaml:"iconId"`
	Version                  int                    `json:"version"                     yaml:"version"`
	RequestNumber            int                    `json:"requestNumber"               yaml:"requestNumber"`
	State                    string                 `json:"state"                       yaml:"state"`
	StateName                string                 `json:"stateName"                   yaml:"stateName"`
	Phase                    string                 `json:"phase"                       yaml:"phase"`
	Description              string                 `json:"description"                 yaml:"description"`
	Reasons                  string                 `json:"reasons"                     yaml:"reasons"`
	RequestedFor             string                 `json:"requestedFor"                yaml:"requestedFor"`
	RequestedBy              string                 `json:"requestedBy"                 yaml:"requestedBy"`
	Organization             Organization           `json:"organization"                yaml:"organization"`
	DateCreated              time.Time              `json:"dateCreated"                 yaml:"dateCreated"`
	LastUpdated              time.Time              `json:"lastUpdated"                 yaml:"lastUpdated"`
	DateSubmitted            time.Time              `json:"dateSubmitted"               yaml:"dateSubmitted"`
	DateApproved             *time.Time             `json:"dateApproved,omitempty"      yaml:"dateApproved,omitempty"`
	DateCompleted            *time.Time             `json:"dateCompleted,omitempty"     yaml:"dateCompleted,omitempty"`
	RequestedItemName        string                 `json:"requestedItemName"           yaml:"requestedItemName"`
	RequestedItemDescription string                 `json:"requestedItemDescription"    yaml:"requestedItemDescription"`
	ExecutionStatus          string                 `json:"executionStatus"             yaml:"executionStatus"`
	WaitingStatus            string                 `json:"waitingStatus"               yaml:"waitingStatus"`
	ApprovalStatus           string                 `json:"approvalStatus"              yaml:"approvalStatus"`
	RetriesRemaining         int                    `json:"retriesRemaining"            yaml:"retriesRemaining"`
	CatalogItemRef           LabelRef               `json:"catalogItemRef"              yaml:"catalogItemRef"`
	RequestCompletion        *RequestCompletion     `json:"requestCompletion,omitempty" yaml:"requestCompletion,omitempty"`
	RequestData              map[string]interface{} `json:"requestData,omitempty"       yaml:"requestData,omitempty"`
	Quote                    map[string]interface{} `json:"quote,omitempty"             yaml:"quote,omitempty"`
}

// ResourceOperation is a day-2 action descriptor the server reports on a
// provisioned resource.
type ResourceOperation struct {
	Name           string `json:"name"           yaml:"name"`
	Description    string `json:"description"    yaml:"description"`
	IconID         string `json:"iconId"         yaml:"iconId"`
	Type           string `json:"type"           yaml:"type"`
	ID             string `json:"id"             yaml:"id"`
	ExtensionID    string `json:"extensionId"    yaml:"extensionId"`
	ProviderTypeID string `json:"providerTypeId" yaml:"providerTypeId"`
	BindingID      string `json:"bindingId"      yaml:"bindingId"`
	HasForm        bool   `json:"hasForm"        yaml:"hasForm"`
}

// Resource is a provisioned consumer resource as reported by the catalog
// service.
type Resource struct {
	ID                string                 `json:"id"                          yaml:"id"`
	IconID            string                 `json:"iconId"                      yaml:"iconId"`
	ResourceTypeRef   LabelRef               `json:"resourceTypeRef"             yaml:"resourceTypeRef"`
	Name              string                 `json:"name"                        yaml:"name"`
	Description       string                 `json:"description"                 yaml:"description"`
	Status            string                 `json:"status"                      yaml:"status"`
	CatalogItemRef    *LabelRef              `json:"catalogItemRef,omitempty"    yaml:"catalogItemRef,omitempty"`
	RequestID         string                 `json:"requestId"                   yaml:"requestId"`
	Owners            []Principal            `json:"owners"                      yaml:"owners"`
	Organization      Organization           `json:"organization"                yaml:"organization"`
	DateCreated       time.Time              `json:"dateCreated"                 yaml:"dateCreated"`
	LastUpdated       time.Time              `json:"lastUpdated"                 yaml:"lastUpdated"`
	HasLease          bool                   `json:"hasLease"                    yaml:"hasLease"`
	Lease             *Lease                 `json:"lease,omitempty"             yaml:"lease,omitempty"`
	ParentResourceRef *LabelRef              `json:"parentResourceRef,omitempty" yaml:"parentResourceRef,omitempty"`
	HasChildren       bool                   `json:"hasChildren"                 yaml:"hasChildren"`
	Operations        []ResourceOperation    `json:"operations"                  yaml:"operations"`
	ResourceData      map[string]interface{} `json:"resourceData,omitempty"      yaml:"resourceData,omitempty"`
}

// ResourceView is the flattened view of a provisioned resource returned by
// the resourceViews endpoints; child discovery relies on its ResourceType
// tag and ParentResourceID filter.
type ResourceView struct {
	ResourceID       string                 `json:"resourceId"       yaml:"resourceId"`
	IconID           string                 `json:"iconId"           yaml:"iconId"`
	Name             string                 `json:"name"             yaml:"name"`
	Description      string                 `json:"description"      yaml:"description"`
	Status           string                 `json:"status"           yaml:"status"`
	CatalogItemID    string                 `json:"catalogItemId"    yaml:"catalogItemId"`
	CatalogItemLabel string                 `json:"catalogItemLabel" yaml:"catalogItemLabel"`
	RequestID        string                 `json:"requestId"        yaml:"requestId"`
	ResourceType     string                 `json:"resourceType"     yaml:"resourceType"`
	Owners           []string               `json:"owners"           yaml:"owners"`
	BusinessGroupID  string                 `json:"businessGroupId"  yaml:"businessGroupId"`
	TenantID         string                 `json:"tenantId"         yaml:"tenantId"`
	DateCreated      time.Time              `json:"dateCreated"      yaml:"dateCreated"`
	LastUpdated      time.Time              `json:"lastUpdated"      yaml:"lastUpdated"`
	Lease            *Lease                 `json:"lease,omitempty"  yaml:"lease,omitempty"`
	ParentResourceID string                 `json:"parentResourceId" yaml:"parentResourceId"`
	HasChildren      bool                   `json:"hasChildren"      yaml:"hasChildren"`
	Data             map[string]interface{} `json:"data,omitempty"   yaml:"data,omitempty"`
	Links            []Link                 `json:"links"            yaml:"links"`
}

// ResourceKind classifies a deployment tree node by its server-reported
// resource-type tag.
type ResourceKind string

// Deployment tree node kinds.
const (
	KindDeployment     ResourceKind = "Deployment"
	KindVirtualMachine ResourceKind = "VirtualMachine"
	KindLoadBalancer   ResourceKind = "LoadBalancer"
	KindEdge           ResourceKind = "Edge"
	KindNetwork        ResourceKind = "Network"
)

// Operation is a day-2 action on a specific resource instance, with the
// template and submission endpoints synthesized for it.
type Operation struct {
	Name        string `json:"name"         yaml:"name"`
	Description string `json:"description"  yaml:"description"`
	ID          string `json:"id"           yaml:"id"`
	TemplateURL string `json:"template_url" yaml:"template_url"`
	RequestURL  string `json:"request_url"  yaml:"request_url"`
}

// Deployment is one node of a provisioned resource tree: the resource's
// descriptive attributes, its day-2 operation set, and its child nodes. The
// tree is a snapshot of server state at fetch time and is never refreshed in
// place. Children reflect the server-reported resource-type tags; tags
// outside the known set are collected in SkippedChildren rather than built.
type Deployment struct {
	Kind               ResourceKind  `json:"kind"                        yaml:"kind"`
	ID                 string        `json:"id"                          yaml:"id"`
	Name               string        `json:"name"                        yaml:"name"`
	Description        string        `json:"description"                 yaml:"description"`
	ResourceTypeRef    LabelRef      `json:"resourceTypeRef"             yaml:"resourceTypeRef"`
	RequestID          string        `json:"requestId"                   yaml:"requestId"`
	BusinessGroupID    string        `json:"businessGroupId"             yaml:"businessGroupId"`
	BusinessGroupLabel string        `json:"businessGroupLabel"          yaml:"businessGroupLabel"`
	TenantID           string        `json:"tenantId"                    yaml:"tenantId"`
	DateCreated        time.Time     `json:"dateCreated"                 yaml:"dateCreated"`
	Owners             []Principal   `json:"owners"                      yaml:"owners"`
	Lease              *Lease        `json:"lease,omitempty"             yaml:"lease,omitempty"`
	ParentResourceRef  *LabelRef     `json:"parentResourceRef,omitempty" yaml:"parentResourceRef,omitempty"`
	Operations         []Operation   `json:"operations"                  yaml:"operations"`
	Children           []*Deployment `json:"children,omitempty"          yaml:"children,omitempty"`
	SkippedChildren    []string      `json:"skippedChildren,omitempty"   yaml:"skippedChildren,omitempty"`
}

// Operation returns the first operation whose name matches exactly, or a
// NotFoundError when the deployment exposes no operation by that name.
func (d *Deployment) Operation(name string) (*Operation, error) {
	for i := range d.Operations {
		if d.Operations[i].Name == name {
			return &d.Operations[i], nil
		}
	}

	return nil, &NotFoundError{Kind: "operation", Name: name}
}

// Walk visits the node and every descendant in depth-first order.
func (d *Deployment) Walk(visit func(node *Deployment, depth int)) {
	d.walk(visit, 0)
}

func (d *Deployment) walk(visit func(node *Deployment, depth int), depth int) {
	visit(d, depth)

	for _, child := range d.Children {
		child.walk(visit, depth+1)
	}
}

// Reservation is a reservation-service allocation of infrastructure capacity
// to a business group.
type Reservation struct {
	ID                string                 `json:"id"                      yaml:"id"`
	Name              string                 `json:"name"                    yaml:"name"`
	ReservationTypeID string                 `json:"reservationTypeId"       yaml:"reservationTypeId"`
	TenantID          string                 `json:"tenantId"                yaml:"tenantId"`
	SubTenantID       string                 `json:"subTenantId"             yaml:"subTenantId"`
	Enabled           bool                   `json:"enabled"                 yaml:"enabled"`
	Priority          int                    `json:"priority"                yaml:"priority"`
	CreatedDate       time.Time              `json:"createdDate"             yaml:"createdDate"`
	LastUpdated       time.Time              `json:"lastUpdated"             yaml:"lastUpdated"`
	AlertPolicy       map[string]interface{} `json:"alertPolicy,omitempty"   yaml:"alertPolicy,omitempty"`
	ExtensionData     map[string]interface{} `json:"extensionData,omitempty" yaml:"extensionData,omitempty"`
}

// Event is an event-broker-service event record.
type Event struct {
	ID             string                 `json:"id"             yaml:"id"`
	TimeStamp      time.Time              `json:"timeStamp"      yaml:"timeStamp"`
	EventTopicID   string                 `json:"eventTopicId"   yaml:"eventTopicId"`
	CorrelationID  string                 `json:"correlationId"  yaml:"correlationId"`
	SourceType     string                 `json:"sourceType"     yaml:"sourceType"`
	SourceIdentity string                 `json:"sourceIdentity" yaml:"sourceIdentity"`
	TargetType     string                 `json:"targetType"     yaml:"targetType"`
	TargetID       string                 `json:"targetId"       yaml:"targetId"`
	UserName       string                 `json:"userName"       yaml:"userName"`
	EventType      string                 `json:"eventType"      yaml:"eventType"`
	Data           map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// BusinessGroupList is one page of BusinessGroup resources.
type BusinessGroupList = Page[BusinessGroup]

// EntitledCatalogItemList is one page of EntitledCatalogItem resources.
type EntitledCatalogItemList = Page[EntitledCatalogItem]

// RequestList is one page of Request resources.
type RequestList = Page[Request]

// ResourceList is one page of Resource resources.
type ResourceList = Page[Resource]

// ResourceViewList is one page of ResourceView resources.
type ResourceViewList = Page[ResourceView]
