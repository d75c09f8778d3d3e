// Package vraclient provides the main entry point for creating vRealize Automation API clients
package vraclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/client"
	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// New creates a new vRealize Automation API client.
func New(config *vra.Config) (vra.Client, error) {
	if config == nil {
		return nil, vra.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, vra.ErrEndpointRequired
	}

	if hasPartialCredentials(config) {
		return nil, vra.ErrCredentialsRequired
	}

	// Normalize API endpoint
	apiEndpoint := strings.TrimSuffix(config.APIEndpoint, "/")
	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "https://" + apiEndpoint
	}

	config.APIEndpoint = apiEndpoint

	// The identity service lives on the same host as the rest of the API, so
	// unlike platforms with a separate authority there is nothing to discover
	if config.Tenant == "" {
		config.Tenant = constants.DefaultTenant
	}

	vraClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return vraClient, nil
}

// hasPartialCredentials reports whether exactly one of username and password
// is set.
func hasPartialCredentials(config *vra.Config) bool {
	return (config.Username == "") != (config.Password == "")
}

// NewWithEndpoint creates a new client with just an API endpoint (no auth).
func NewWithEndpoint(endpoint string) (vra.Client, error) {
	return New(&vra.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithToken creates a new client with an API endpoint and a bearer token.
func NewWithToken(endpoint, token string) (vra.Client, error) {
	return New(&vra.Config{
		APIEndpoint: endpoint,
		AccessToken: token,
	})
}

// NewWithPassword creates a new client using tenant username/password
// authentication.
func NewWithPassword(endpoint, tenant, username, password string) (vra.Client, error) {
	return New(&vra.Config{
		APIEndpoint: endpoint,
		Tenant:      tenant,
		Username:    username,
		Password:    password,
	})
}
