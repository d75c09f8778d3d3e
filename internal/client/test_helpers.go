package client

import (
	"github.com/fivetwenty-io/vra-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// NewTestClient creates a new test client against the given base URL.
func NewTestClient(baseURL string) *Client {
	// Create HTTP client without token manager for testing
	httpClient := internalhttp.NewClient(baseURL, nil)

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		tenant:     constants.DefaultTenant,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

// singlePage wraps content in a one-page collection envelope.
func singlePage[T any](content []T) vra.Page[T] {
	return vra.Page[T]{
		Content: content,
		Metadata: vra.PageMetadata{
			Size:          len(content),
			TotalElements: len(content),
			TotalPages:    1,
			Number:        1,
		},
	}
}

// pageOf wraps content in one page of a larger collection.
func pageOf[T any](content []T, number, totalPages, totalElements int) vra.Page[T] {
	return vra.Page[T]{
		Content: content,
		Metadata: vra.PageMetadata{
			Size:          len(content),
			TotalElements: totalElements,
			TotalPages:    totalPages,
			Number:        number,
		},
	}
}
