package auth_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/auth"
	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    *auth.Token
		expected bool
	}{
		{
			name:     "nil token",
			token:    nil,
			expected: false,
		},
		{
			name:     "identity rejected the login, no id in response",
			token:    &auth.Token{Tenant: "vsphere.local"},
			expected: false,
		},
		{
			// The identity service dates expiry server-side; a token
			// restored from the CLI config carries none
			name:     "token without expiry never goes stale locally",
			token:    &auth.Token{AccessToken: "MTQ4NzMyNTYzMzYxNzo0ZDEy"},
			expected: true,
		},
		{
			name: "token well before expiry",
			token: &auth.Token{
				AccessToken: "MTQ4NzMyNTYzMzYxNzo0ZDEy",
				Tenant:      "vsphere.local",
				ExpiresAt:   time.Now().Add(24 * time.Hour),
			},
			expected: true,
		},
		{
			name: "token past expiry",
			token: &auth.Token{
				AccessToken: "MTQ4NzMyNTYzMzYxNzo0ZDEy",
				ExpiresAt:   time.Now().Add(-time.Minute),
			},
			expected: false,
		},
		{
			// A token this close to the cutoff would expire mid-request, so
			// it counts as invalid and triggers a fresh exchange
			name: "token inside the expiration buffer",
			token: &auth.Token{
				AccessToken: "MTQ4NzMyNTYzMzYxNzo0ZDEy",
				ExpiresAt:   time.Now().Add(constants.TokenExpirationBuffer / 2),
			},
			expected: false,
		},
		{
			name: "token just past the expiration buffer",
			token: &auth.Token{
				AccessToken: "MTQ4NzMyNTYzMzYxNzo0ZDEy",
				ExpiresAt:   time.Now().Add(constants.TokenExpirationBuffer + 5*time.Second),
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.token.Valid())
		})
	}
}

func TestToken_DecodesIdentityResponse(t *testing.T) {
	t.Parallel()

	// The identity service calls the bearer token "id" on the wire
	body := `{"expires":"2026-09-01T12:00:00.000Z","id":"MTQ4NzMyNTYzMzYxNzo0ZDEy","tenant":"vsphere.local"}`

	var token auth.Token

	require.NoError(t, json.Unmarshal([]byte(body), &token))
	assert.Equal(t, "MTQ4NzMyNTYzMzYxNzo0ZDEy", token.AccessToken)
	assert.Equal(t, "vsphere.local", token.Tenant)
	assert.Equal(t, 2026, token.ExpiresAt.Year())
	assert.True(t, token.Valid())
}

func TestTokenStore(t *testing.T) {
	t.Parallel()
	t.Run("empty before the first login", func(t *testing.T) {
		t.Parallel()

		store := auth.NewTokenStore()
		assert.Nil(t, store.Get())
	})

	t.Run("re-login replaces the stored token", func(t *testing.T) {
		t.Parallel()

		store := auth.NewTokenStore()
		store.Set(&auth.Token{AccessToken: "first-session", Tenant: "vsphere.local"})
		store.Set(&auth.Token{AccessToken: "second-session", Tenant: "engineering"})

		retrieved := store.Get()
		require.NotNil(t, retrieved)
		assert.Equal(t, "second-session", retrieved.AccessToken)
		assert.Equal(t, "engineering", retrieved.Tenant)
	})

	t.Run("logout clears the token", func(t *testing.T) {
		t.Parallel()

		store := auth.NewTokenStore()
		store.Set(&auth.Token{AccessToken: "session-token"})
		require.NotNil(t, store.Get())

		store.Clear()
		assert.Nil(t, store.Get())
	})

	t.Run("safe under concurrent refresh and reads", func(t *testing.T) {
		t.Parallel()

		// A 401 refresh can race in-flight requests reading the token; the
		// store must never tear between the two sessions
		store := auth.NewTokenStore()
		store.Set(&auth.Token{AccessToken: "stale-session"})

		var waitGroup sync.WaitGroup

		waitGroup.Add(2)

		go func() {
			defer waitGroup.Done()

			for i := 0; i < 100; i++ {
				store.Set(&auth.Token{AccessToken: "fresh-session", Tenant: "vsphere.local"})
			}
		}()

		go func() {
			defer waitGroup.Done()

			for i := 0; i < 100; i++ {
				if token := store.Get(); token != nil {
					assert.Contains(t, []string{"stale-session", "fresh-session"}, token.AccessToken)
				}
			}
		}()

		waitGroup.Wait()

		final := store.Get()
		require.NotNil(t, final)
		assert.Equal(t, "fresh-session", final.AccessToken)
	})
}
