// Package client implements the vra.Client interface against a live
// vRealize Automation server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/auth"
	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Static errors for err113 compliance.
var (
	ErrAPIEndpointRequired      = errors.New("API endpoint is required")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
)

// Client implements the vra.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	tenant       string
	logger       vra.Logger

	// Resource clients
	businessGroups vra.BusinessGroupsClient
	catalog        vra.CatalogClient
	requests       vra.RequestsClient
	resources      vra.ResourcesClient
	deployments    vra.DeploymentsClient
	reservations   vra.ReservationsClient
	events         vra.EventsClient
}

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *vra.Config) auth.TokenManager {
	if config.AccessToken != "" && config.Username != "" && config.Password != "" {
		return createFallbackTokenManager(config)
	}

	if config.AccessToken != "" {
		return &staticTokenManager{token: config.AccessToken}
	}

	if config.Username != "" && config.Password != "" {
		return auth.NewIdentityTokenManager(identityConfig(config))
	}

	return nil // No authentication
}

// createFallbackTokenManager creates a fallback token manager that serves the
// saved access token until a refresh is demanded.
func createFallbackTokenManager(config *vra.Config) auth.TokenManager {
	return &fallbackTokenManager{
		staticToken:     config.AccessToken,
		identityManager: auth.NewIdentityTokenManager(identityConfig(config)),
	}
}

// identityConfig maps the client config onto the identity token exchange.
func identityConfig(config *vra.Config) *auth.IdentityConfig {
	return &auth.IdentityConfig{
		TokenURL:      tokenURL(config),
		Tenant:        config.Tenant,
		Username:      config.Username,
		Password:      config.Password,
		SkipTLSVerify: config.SkipTLSVerify,
		HTTPTimeout:   config.HTTPTimeout,
	}
}

// tokenURL returns the identity service token endpoint for the configured
// server.
func tokenURL(config *vra.Config) string {
	return strings.TrimSuffix(config.APIEndpoint, "/") + "/identity/api/tokens"
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *vra.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, http.WithSkipTLSVerify(true))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new vRA API client.
func New(config *vra.Config) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	// Create token manager based on available credentials
	tokenManager := createTokenManager(config)

	// Create HTTP client options
	httpOpts := createHTTPClientOptions(config)

	// Create HTTP client
	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	if config.SkipTLSVerify && config.Logger != nil {
		config.Logger.Warn("TLS certificate verification disabled", map[string]interface{}{
			"endpoint": config.APIEndpoint,
		})
	}

	tenant := config.Tenant
	if tenant == "" {
		tenant = constants.DefaultTenant
	}

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      strings.TrimSuffix(config.APIEndpoint, "/"),
		tenant:       tenant,
		logger:       config.Logger,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client, nil
}

// NewWithTokenManager creates a new vRA API client with a custom token
// manager.
func NewWithTokenManager(config *vra.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	tenant := config.Tenant
	if tenant == "" {
		tenant = constants.DefaultTenant
	}

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      strings.TrimSuffix(config.APIEndpoint, "/"),
		tenant:       tenant,
		logger:       config.Logger,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// About implements vra.Client.About.
func (c *Client) About(ctx context.Context) (*vra.About, error) {
	resp, err := c.httpClient.Get(ctx, "/identity/api/about", nil)
	if err != nil {
		return nil, fmt.Errorf("getting server version: %w", err)
	}

	var about vra.About

	err = json.Unmarshal(resp.Body, &about)
	if err != nil {
		return nil, fmt.Errorf("parsing about response: %w", err)
	}

	return &about, nil
}

// Resource client accessors

// BusinessGroups implements vra.Client.BusinessGroups.
func (c *Client) BusinessGroups() vra.BusinessGroupsClient {
	return c.businessGroups
}

// Catalog implements vra.Client.Catalog.
func (c *Client) Catalog() vra.CatalogClient {
	return c.catalog
}

// Requests implements vra.Client.Requests.
func (c *Client) Requests() vra.RequestsClient {
	return c.requests
}

// Resources implements vra.Client.Resources.
func (c *Client) Resources() vra.ResourcesClient {
	return c.resources
}

// Deployments implements vra.Client.Deployments.
func (c *Client) Deployments() vra.DeploymentsClient {
	return c.deployments
}

// Reservations implements vra.Client.Reservations.
func (c *Client) Reservations() vra.ReservationsClient {
	return c.reservations
}

// Events implements vra.Client.Events.
func (c *Client) Events() vra.EventsClient {
	return c.events
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.businessGroups = NewBusinessGroupsClient(c.httpClient, c.tenant)
	c.catalog = NewCatalogClient(c.httpClient)
	c.requests = NewRequestsClient(c.httpClient, c.logger)
	c.resources = NewResourcesClient(c.httpClient)
	c.deployments = NewDeploymentsClient(c.httpClient, c.baseURL, c.logger)
	c.reservations = NewReservationsClient(c.httpClient)
	c.events = NewEventsClient(c.httpClient)
}

// staticTokenManager provides a static token.
type staticTokenManager struct {
	token string
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// loggerAdapter adapts vra.Logger to http.Logger.
type loggerAdapter struct {
	logger vra.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

// fallbackTokenManager serves a saved token until a refresh is demanded,
// then switches to the identity exchange for good. The transport forces a
// refresh when a request comes back 401, so a stale saved token hands over
// to the password exchange transparently.
type fallbackTokenManager struct {
	staticToken     string
	identityManager auth.TokenManager
	usingIdentity   bool
	mutex           sync.Mutex
}

func (m *fallbackTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.usingIdentity && m.staticToken != "" {
		return m.staticToken, nil
	}

	m.usingIdentity = true

	token, err := m.identityManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get identity token: %w", err)
	}

	return token, nil
}

func (m *fallbackTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.usingIdentity = true

	err := m.identityManager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh identity token: %w", err)
	}

	return nil
}

func (m *fallbackTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.usingIdentity {
		m.identityManager.SetToken(token, expiresAt)
	} else {
		m.staticToken = token
	}
}
