// Package auth provides token management for the vRealize Automation
// identity service.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/constants"
)

// TokenManager handles bearer token lifecycle.
type TokenManager interface {
	// GetToken returns a valid access token, requesting a new one if necessary.
	GetToken(ctx context.Context) (string, error)

	// RefreshToken forces a new token exchange.
	RefreshToken(ctx context.Context) error

	// SetToken manually sets the access token.
	SetToken(token string, expiresAt time.Time)
}

// Token represents a bearer token issued by the identity service.
type Token struct {
	AccessToken string    `json:"id"`
	Tenant      string    `json:"tenant"`
	ExpiresAt   time.Time `json:"expires"`
}

// Valid returns true if the token exists and has not expired. A token
// within the expiration buffer counts as expired so that requests in
// flight do not race the server-side cutoff.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore provides thread-safe token storage.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates a new token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token, or nil when none is set.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set stores a token.
func (s *TokenStore) Set(token *Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}
