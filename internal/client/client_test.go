package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/fivetwenty-io/vra-client/internal/client"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires API endpoint", func(t *testing.T) {
		t.Parallel()

		config := &vra.Config{}
		_, err := New(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API endpoint is required")
	})

	t.Run("creates client with access token", func(t *testing.T) {
		t.Parallel()

		config := &vra.Config{
			APIEndpoint: "https://vra.example.com",
			AccessToken: "test-token",
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("creates client with username/password", func(t *testing.T) {
		t.Parallel()

		config := &vra.Config{
			APIEndpoint: "https://vra.example.com",
			Tenant:      "vsphere.local",
			Username:    "jason@vsphere.local",
			Password:    "password",
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("creates client with saved token and password fallback", func(t *testing.T) {
		t.Parallel()

		config := &vra.Config{
			APIEndpoint: "https://vra.example.com",
			AccessToken: "saved-token",
			Username:    "jason@vsphere.local",
			Password:    "password",
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)

		// The saved token is served until a refresh is demanded
		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "saved-token", token)
	})

	t.Run("creates client without authentication", func(t *testing.T) {
		t.Parallel()

		config := &vra.Config{
			APIEndpoint: "https://vra.example.com",
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)

		_, err = client.GetToken(context.Background())
		require.Error(t, err)
	})
}

func TestClient_About(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/identity/api/about", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		about := vra.About{
			BuildNumber:    "5619559",
			BuildDate:      "2017-05-02T12:13:33.000Z",
			ProductVersion: "7.3.0.0",
			APIVersion:     "7.3",
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(about)
	}))
	defer server.Close()

	config := &vra.Config{
		APIEndpoint: server.URL,
	}

	client, err := New(config)
	require.NoError(t, err)

	about, err := client.About(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, about)
	assert.Equal(t, "7.3.0.0", about.ProductVersion)
	assert.Equal(t, "7.3", about.APIVersion)
	assert.Equal(t, "5619559", about.BuildNumber)
}

func TestClient_ResourceAccessors(t *testing.T) {
	t.Parallel()

	config := &vra.Config{
		APIEndpoint: "https://vra.example.com",
	}

	client, err := New(config)
	require.NoError(t, err)

	assert.NotNil(t, client.BusinessGroups())
	assert.NotNil(t, client.Catalog())
	assert.NotNil(t, client.Requests())
	assert.NotNil(t, client.Resources())
	assert.NotNil(t, client.Deployments())
	assert.NotNil(t, client.Reservations())
	assert.NotNil(t, client.Events())
}
