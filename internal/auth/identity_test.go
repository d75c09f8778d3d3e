package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTokenManager_GetToken(t *testing.T) {
	t.Run("returns existing valid token", func(t *testing.T) {
		manager := NewIdentityTokenManager(&IdentityConfig{})
		manager.SetToken("existing-token", time.Now().Add(1*time.Hour))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "existing-token", token)
	})

	t.Run("exchanges credentials for token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/identity/api/tokens", r.URL.Path)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload map[string]string
			err := json.NewDecoder(r.Body).Decode(&payload)
			require.NoError(t, err)
			assert.Equal(t, "jason@vsphere.local", payload["username"])
			assert.Equal(t, "VMware1!", payload["password"])
			assert.Equal(t, "vsphere.local", payload["tenant"])

			response := Token{
				AccessToken: "MTQ4NzMyNTYzMzYxNzo0ZDEy",
				Tenant:      "vsphere.local",
				ExpiresAt:   time.Now().Add(24 * time.Hour),
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		manager := NewIdentityTokenManager(&IdentityConfig{
			TokenURL: server.URL + "/identity/api/tokens",
			Username: "jason@vsphere.local",
			Password: "VMware1!",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "MTQ4NzMyNTYzMzYxNzo0ZDEy", token)
	})

	t.Run("re-exchanges expired token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			response := Token{
				AccessToken: "fresh-token",
				Tenant:      "vsphere.local",
				ExpiresAt:   time.Now().Add(24 * time.Hour),
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		manager := NewIdentityTokenManager(&IdentityConfig{
			TokenURL: server.URL + "/identity/api/tokens",
			Username: "jason@vsphere.local",
			Password: "VMware1!",
		})

		// Set expired token
		manager.store.Set(&Token{
			AccessToken: "expired-token",
			ExpiresAt:   time.Now().Add(-1 * time.Hour),
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	})

	t.Run("handles token request error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"code":90135,"message":"Unable to authenticate user jason@vsphere.local in tenant vsphere.local."}]}`))
		}))
		defer server.Close()

		manager := NewIdentityTokenManager(&IdentityConfig{
			TokenURL: server.URL + "/identity/api/tokens",
			Username: "jason@vsphere.local",
			Password: "wrong-password",
		})

		token, err := manager.GetToken(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unable to authenticate user")
		assert.True(t, vra.IsAuthenticationFailed(err))
		assert.Equal(t, "", token)
	})

	t.Run("rejects response without token id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tenant":"vsphere.local"}`))
		}))
		defer server.Close()

		manager := NewIdentityTokenManager(&IdentityConfig{
			TokenURL: server.URL + "/identity/api/tokens",
			Username: "jason@vsphere.local",
			Password: "VMware1!",
		})

		token, err := manager.GetToken(context.Background())
		assert.Error(t, err)
		assert.True(t, vra.IsAuthenticationFailed(err))
		assert.Equal(t, "", token)
	})

	t.Run("no credentials available", func(t *testing.T) {
		manager := NewIdentityTokenManager(&IdentityConfig{
			TokenURL: "https://vra.example.com/identity/api/tokens",
		})

		token, err := manager.GetToken(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no valid credentials available")
		assert.Equal(t, "", token)
	})
}

func TestIdentityTokenManager_SetToken(t *testing.T) {
	manager := NewIdentityTokenManager(&IdentityConfig{Tenant: "qe"})

	expiresAt := time.Now().Add(1 * time.Hour)
	manager.SetToken("manual-token", expiresAt)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)

	storedToken := manager.store.Get()
	assert.Equal(t, "manual-token", storedToken.AccessToken)
	assert.Equal(t, "qe", storedToken.Tenant)
	assert.Equal(t, expiresAt.Unix(), storedToken.ExpiresAt.Unix())
}

func TestIdentityTokenManager_RefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := Token{
			AccessToken: "renewed-token",
			Tenant:      "vsphere.local",
			ExpiresAt:   time.Now().Add(24 * time.Hour),
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	manager := NewIdentityTokenManager(&IdentityConfig{
		TokenURL: server.URL + "/identity/api/tokens",
		Username: "jason@vsphere.local",
		Password: "VMware1!",
	})

	// Set a valid token
	manager.SetToken("current-token", time.Now().Add(1*time.Hour))

	// Force a fresh exchange
	err := manager.RefreshToken(context.Background())
	require.NoError(t, err)

	// Should have new token
	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "renewed-token", token)
}

func TestNewIdentityTokenManager(t *testing.T) {
	t.Run("defaults tenant", func(t *testing.T) {
		manager := NewIdentityTokenManager(&IdentityConfig{
			TokenURL: "https://vra.example.com/identity/api/tokens",
		})
		assert.NotNil(t, manager)
		assert.Equal(t, "vsphere.local", manager.config.Tenant)
	})

	t.Run("keeps explicit tenant", func(t *testing.T) {
		manager := NewIdentityTokenManager(&IdentityConfig{
			TokenURL: "https://vra.example.com/identity/api/tokens",
			Tenant:   "engineering",
		})
		assert.Equal(t, "engineering", manager.config.Tenant)
	})
}
