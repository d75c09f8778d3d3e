package vra

import (
	"context"
	"time"
)

// IdentityClients provides access to identity-service resource clients.
type IdentityClients interface {
	BusinessGroups() BusinessGroupsClient
}

// CatalogClients provides access to catalog-service resource clients.
type CatalogClients interface {
	Catalog() CatalogClient
	Requests() RequestsClient
	Resources() ResourcesClient
	Deployments() DeploymentsClient
}

// InfrastructureClients provides access to reservation and event-broker
// clients.
type InfrastructureClients interface {
	Reservations() ReservationsClient
	Events() EventsClient
}

// AboutClient provides access to server version information.
type AboutClient interface {
	About(ctx context.Context) (*About, error)
}

type Client interface {
	// Composite interfaces for related resource groups
	IdentityClients
	CatalogClients
	InfrastructureClients
	AboutClient
}

// BusinessGroupsClient manages identity-service subtenants.
type BusinessGroupsClient interface {
	List(ctx context.Context, params *QueryParams) (*Page[BusinessGroup], error)
	ListAll(ctx context.Context, params *QueryParams) ([]BusinessGroup, error)
	ListByUser(ctx context.Context, username, role string, expandGroups bool) ([]BusinessGroup, error)
	Get(ctx context.Context, groupID string) (*BusinessGroup, error)
	Delete(ctx context.Context, groupID string) error
	FindByName(ctx context.Context, name string) ([]BusinessGroup, error)
	GetByName(ctx context.Context, name string) (*BusinessGroup, error)
}

// CatalogClient reads the entitled service catalog and submits provisioning
// requests.
type CatalogClient interface {
	ListEntitledItems(ctx context.Context, params *QueryParams) (*Page[EntitledCatalogItem], error)
	ListAllEntitledItems(ctx context.Context, params *QueryParams) ([]EntitledCatalogItem, error)
	ListEntitledItemViews(ctx context.Context, params *QueryParams) (*Page[CatalogItemView], error)
	ListAllEntitledItemViews(ctx context.Context, params *QueryParams) ([]CatalogItemView, error)
	GetItem(ctx context.Context, itemID string) (*EntitledCatalogItem, error)
	FindItemsByName(ctx context.Context, name string) ([]EntitledCatalogItem, error)
	GetItemByName(ctx context.Context, name string) (*EntitledCatalogItem, error)
	GetRequestTemplate(ctx context.Context, itemID string) (Template, error)
	SubmitRequest(ctx context.Context, itemID string, payload Template) (*Request, error)
	RequestTemplateURL(itemID string) string
	RequestURL(itemID string) string
}

// RequestsClient observes catalog provisioning requests.
type RequestsClient interface {
	List(ctx context.Context, params *QueryParams) (*Page[Request], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Request, error)
	Get(ctx context.Context, requestID string) (*Request, error)
	GetResourceViews(ctx context.Context, requestID string) (*Page[ResourceView], error)
	PollUntilComplete(ctx context.Context, requestID string) (*Request, error)
}

// ResourcesClient reads provisioned consumer resources.
type ResourcesClient interface {
	List(ctx context.Context, params *QueryParams) (*Page[Resource], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Resource, error)
	Get(ctx context.Context, resourceID string) (*Resource, error)
	FindByName(ctx context.Context, name string) ([]Resource, error)
	GetView(ctx context.Context, resourceID string) (*ResourceView, error)
	ListChildViews(ctx context.Context, parentResourceID string) (*Page[ResourceView], error)
}

// DeploymentsClient builds deployment trees and runs day-2 operations on
// their nodes.
type DeploymentsClient interface {
	Get(ctx context.Context, resourceID string) (*Deployment, error)
	GetOperationTemplate(ctx context.Context, deployment *Deployment, operationName string) (Template, error)
	ExecuteOperation(ctx context.Context, deployment *Deployment, operationName string, payload Template) (Template, error)
	PowerOn(ctx context.Context, deployment *Deployment) (Template, error)
	PowerOff(ctx context.Context, deployment *Deployment) (Template, error)
	Reboot(ctx context.Context, deployment *Deployment) (Template, error)
	Destroy(ctx context.Context, deployment *Deployment) (Template, error)
	ScaleOut(ctx context.Context, deployment *Deployment, newValue int) (Template, error)
}

// ReservationsClient manages reservation-service allocations.
type ReservationsClient interface {
	List(ctx context.Context, params *QueryParams) (*Page[Reservation], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Reservation, error)
	ListInfo(ctx context.Context) (map[string]interface{}, error)
	Get(ctx context.Context, reservationID string) (*Reservation, error)
	CreateFromExisting(ctx context.Context, existingID, newName string) error
}

// EventsClient reads event-broker-service events.
type EventsClient interface {
	List(ctx context.Context, params *QueryParams) (*Page[Event], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Event, error)
}

// About represents the identity-service about response.
type About struct {
	BuildNumber    string `json:"buildNumber"    yaml:"buildNumber"`
	BuildDate      string `json:"buildDate"      yaml:"buildDate"`
	ProductVersion string `json:"productVersion" yaml:"productVersion"`
	APIVersion     string `json:"apiVersion"     yaml:"apiVersion"`
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a vra.Client.
//
// # Authentication precedence
//
// The following precedence is applied by the concrete client implementation
// (see pkg/vraclient and internal/client):
//  1. AccessToken + Username/Password: the token is tried first; if a request
//     fails with 401, the client obtains a fresh token through the identity
//     service password exchange (useful when resuming a saved session).
//  2. AccessToken: used directly as a static Bearer token.
//  3. Username/Password: exchanged for a token via POST /identity/api/tokens
//     on first use. The password is not retained anywhere else.
//  4. No credentials: requests are sent without authentication.
//
// # Timeouts, retries, and TLS
//
// Per-request timeouts should generally be controlled via context passed to
// client methods. Transport retries are disabled by default so that the
// provisioning poller remains the only repeat mechanism; set RetryMax to
// re-enable retrying of 5xx/429 responses. SkipTLSVerify disables
// certificate verification for lab servers with self-signed certificates;
// the client logs a single warning when it is set.
type Config struct {
	// Required fields
	// APIEndpoint: FQDN or base URL of the vRA server (e.g.,
	// "vra.example.com" or "https://vra.example.com"). vraclient.New
	// normalizes this value by trimming a trailing slash and adding
	// "https://" if no scheme is present.
	APIEndpoint string

	// Tenant: identity tenant to log into. Defaults to "vsphere.local"
	// when empty.
	Tenant string

	// Authentication options (provide one)
	// Username: account username for the identity password exchange,
	// usually user@domain.
	Username string
	// Password: account password for the identity password exchange.
	Password string
	// AccessToken: if set, used directly as a Bearer token. When combined
	// with Username/Password, the token is tried first and the client falls
	// back to the password exchange on 401.
	AccessToken string

	// Optional configurations
	// HTTPTimeout: optional default HTTP timeout where supported. Most
	// client calls should rely on context timeouts; this may be used by
	// helpers.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of transport retries for transient failures
	// (>=500, 429, and connection errors). 0 disables retrying.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer, the
	// provisioning poller, and the deployment tree builder.
	Logger Logger
	// SkipTLSVerify: if true, TLS certificate verification is disabled for
	// all requests. Intended for lab environments.
	SkipTLSVerify bool
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}
