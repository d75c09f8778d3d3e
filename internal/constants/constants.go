package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations.
	ExtendedHTTPTimeout = 45 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second

	// HTTPStatusBadRequest represents a client error.
	HTTPStatusBadRequest = 400
)

// Retry limits.
const (
	// DefaultRetryMax disables transport-level retries; the request poller
	// is the only repeat mechanism.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between retries when enabled.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between retries when enabled.
	DefaultRetryWaitMax = 10 * time.Second
)

// Identity service defaults.
const (
	// DefaultTenant is used when no tenant is supplied at login.
	DefaultTenant = "vsphere.local"

	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)

// Time intervals and delays.
const (
	// DefaultPollInterval is the wait between provisioning request polls.
	DefaultPollInterval = 5 * time.Second

	// QuickPollInterval is used for fast polling in tests.
	QuickPollInterval = 10 * time.Millisecond

	// DefaultRequestPollTimeout bounds how long a provisioning request is
	// polled before giving up.
	DefaultRequestPollTimeout = 30 * time.Minute
)

// Concurrency limits.
const (
	// DefaultConcurrencyLimit bounds concurrent API calls in batch helpers.
	DefaultConcurrencyLimit = 3

	// ExponentialBackoffBase is the multiplier base for retry backoff.
	ExponentialBackoffBase = 2

	// PercentageMultiplier converts a ratio to a percentage.
	PercentageMultiplier = 100
)

// Error codes carried in the API error envelope.
const (
	// ErrorCodeAuthentication is returned when the identity service rejects
	// credentials.
	ErrorCodeAuthentication = 10101

	// ErrorCodeSystemException is the generic server-side failure code.
	ErrorCodeSystemException = 50505
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 20

	// StandardPageSize is the common page size for API responses.
	StandardPageSize = 50

	// LargePageSize is used for efficient bulk operations.
	LargePageSize = 100

	// MaxPages is used to prevent runaway loops in pagination.
	MaxPages = 1000
)

// Catalog request states reported by the catalog service.
const (
	// RequestStateSubmitted is the initial state after submission.
	RequestStateSubmitted = "SUBMITTED"

	// RequestStateInProgress indicates the request is being fulfilled.
	RequestStateInProgress = "IN_PROGRESS"

	// RequestStateSuccessful is the terminal success state.
	RequestStateSuccessful = "SUCCESSFUL"

	// RequestStateFailed is the terminal failure state.
	RequestStateFailed = "FAILED"

	// RequestStateProviderFailed is the terminal state for provider-side
	// failures.
	RequestStateProviderFailed = "PROVIDER_FAILED"
)

// Resource type tags reported by the catalog service on deployment children.
const (
	// ResourceTypeDeployment tags a composite deployment.
	ResourceTypeDeployment = "composition.resource.type.deployment"

	// ResourceTypeVirtualMachine tags a virtual machine.
	ResourceTypeVirtualMachine = "Infrastructure.Virtual"

	// ResourceTypeLoadBalancer tags an NSX load balancer.
	ResourceTypeLoadBalancer = "Infrastructure.Network.LoadBalancer.NSX"

	// ResourceTypeEdge tags an NSX edge gateway.
	ResourceTypeEdge = "Infrastructure.Network.Gateway.NSX.Edge"

	// ResourceTypeNetwork tags an existing network.
	ResourceTypeNetwork = "Infrastructure.Network.Network.Existing"
)

// Day-2 operation names exposed on deployed resources.
const (
	// OperationPowerOn powers a machine on.
	OperationPowerOn = "Power On"

	// OperationPowerOff powers a machine off.
	OperationPowerOff = "Power Off"

	// OperationReboot reboots a machine.
	OperationReboot = "Reboot"

	// OperationDestroy tears a deployment down.
	OperationDestroy = "Destroy"

	// OperationScaleOut adds instances to a deployment tier.
	OperationScaleOut = "Scale Out"

	// OperationScaleIn removes instances from a deployment tier.
	OperationScaleIn = "Scale In"
)

// Business group roles accepted by the identity service.
const (
	// RoleGroupManager identifies a business group manager.
	RoleGroupManager = "CSP_SUBTENANT_MANAGER"

	// RoleSupport identifies a support user.
	RoleSupport = "CSP_SUPPORT"

	// RoleSharedAccess identifies a shared access user.
	RoleSharedAccess = "CSP_CONSUMER_WITH_SHARED_ACCESS"

	// RoleConsumer identifies a basic user.
	RoleConsumer = "CSP_CONSUMER"
)

// UI and display constants.
const (
	// CheckMarkSymbol is used to indicate current/active items.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// TreeIndentStep is the indentation added per deployment tree level.
	TreeIndentStep = 2

	// DescriptionDisplayLength is the default length for displaying
	// descriptions.
	DescriptionDisplayLength = 60
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Validation and limits.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// KeyValueSplitParts is the number of parts when splitting key=value
	// strings.
	KeyValueSplitParts = 2
)
