package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ConfigPersister defines the interface for persisting config changes.
// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

type ConfigPersister interface {
	UpdateAPIToken(apiDomain, token string, expiresAt time.Time) error
}

// ConfigTokenManager wraps IdentityTokenManager and automatically persists
// tokens to config.
type ConfigTokenManager struct {
	identityManager *IdentityTokenManager
	configPersister ConfigPersister
	apiDomain       string
	mutex           sync.RWMutex
	initialToken    string
	initialExpiry   time.Time
}

// NewConfigTokenManager creates a new config-persisting token manager.
func NewConfigTokenManager(config *IdentityConfig, configPersister ConfigPersister, apiDomain string, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	identityManager := NewIdentityTokenManager(config)

	// If we have an initial token, set it in the identity manager
	if initialToken != "" {
		identityManager.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		identityManager: identityManager,
		configPersister: configPersister,
		apiDomain:       apiDomain,
		initialToken:    initialToken,
		initialExpiry:   initialExpiry,
	}
}

// GetToken returns a valid access token, exchanging credentials if necessary.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	token, err := m.identityManager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	// Check if the token was renewed and persist it
	currentToken := m.identityManager.store.Get()
	if currentToken != nil && (currentToken.AccessToken != m.initialToken || !currentToken.ExpiresAt.Equal(m.initialExpiry)) {
		// Token was renewed, persist it
		go func() {
			persistErr := m.persistToken(currentToken)
			if persistErr != nil {
				// Log error but don't fail the request
				_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist renewed token: %v\n", persistErr)
			}
		}()

		// Update our cached values
		m.initialToken = currentToken.AccessToken
		m.initialExpiry = currentToken.ExpiresAt
	}

	return token, nil
}

// RefreshToken forces a fresh credential exchange.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.identityManager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	// Persist the renewed token
	currentToken := m.identityManager.store.Get()
	if currentToken != nil {
		persistErr := m.persistToken(currentToken)
		if persistErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist renewed token: %v\n", persistErr)
		}

		// Update our cached values
		m.initialToken = currentToken.AccessToken
		m.initialExpiry = currentToken.ExpiresAt
	}

	return nil
}

// SetToken manually sets the access token.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.identityManager.SetToken(token, expiresAt)
	m.initialToken = token
	m.initialExpiry = expiresAt
}

// IsTokenExpiringSoon returns true if the token expires within the given duration.
func (m *ConfigTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	token := m.identityManager.store.Get()
	if token == nil {
		return true
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

// GetTokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	token := m.identityManager.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// persistToken saves the token to config.
func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateAPIToken(m.apiDomain, token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
