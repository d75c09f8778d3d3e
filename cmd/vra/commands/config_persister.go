package commands

import (
	"fmt"
	"sync"
	"time"
)

// ConfigPersister implements the auth.ConfigPersister interface so renewed
// identity tokens survive across CLI invocations.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAPIToken updates the stored token for a specific API domain.
func (p *ConfigPersister) UpdateAPIToken(apiDomain, token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	apiConfig, exists := config.APIs[apiDomain]
	if !exists {
		return fmt.Errorf("%w: '%s'", ErrAPINotFound, apiDomain)
	}

	now := time.Now()
	apiConfig.Token = token
	apiConfig.LastRefreshed = &now

	if !expiresAt.IsZero() {
		apiConfig.TokenExpiresAt = &expiresAt
	} else {
		apiConfig.TokenExpiresAt = nil
	}

	config.APIs[apiDomain] = apiConfig

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to persist token update: %w", err)
	}

	return nil
}
