package auth

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available")
)

// IdentityConfig configures the credential exchange against the identity
// service token endpoint.
type IdentityConfig struct {
	// TokenURL is the full token endpoint URL, for example
	// https://vra.example.com/identity/api/tokens.
	TokenURL string

	// Tenant scopes issued tokens. Empty means the default tenant.
	Tenant string

	Username string
	Password string

	// SkipTLSVerify disables certificate verification for the exchange.
	// Appliances commonly run self-signed certificates.
	SkipTLSVerify bool

	// HTTPTimeout bounds the token exchange round trip.
	HTTPTimeout time.Duration
}

// IdentityTokenManager exchanges tenant credentials for bearer tokens.
// The identity service has no refresh grant, so a refresh presents the
// credentials again.
type IdentityTokenManager struct {
	config     *IdentityConfig
	store      *TokenStore
	httpClient *http.Client
	mutex      sync.Mutex
}

// NewIdentityTokenManager creates a token manager for the identity service.
func NewIdentityTokenManager(config *IdentityConfig) *IdentityTokenManager {
	if config.Tenant == "" {
		config.Tenant = constants.DefaultTenant
	}

	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	var transport *http.Transport
	if config.SkipTLSVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402 -- Self-signed appliance certificates are opted into explicitly
				MinVersion:         tls.VersionTLS12,
			},
		}
	} else {
		transport = &http.Transport{}
	}

	return &IdentityTokenManager{
		config: config,
		store:  NewTokenStore(),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// GetToken returns a valid access token, exchanging credentials when the
// stored token is missing or expired.
func (m *IdentityTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Another caller may have completed the exchange while we waited.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	if m.config.Username == "" || m.config.Password == "" {
		return "", ErrNoValidCredentials
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.AccessToken, nil
}

// RefreshToken discards the stored token and performs a fresh exchange.
func (m *IdentityTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.config.Username == "" || m.config.Password == "" {
		return ErrNoValidCredentials
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken manually sets the access token.
func (m *IdentityTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		Tenant:      m.config.Tenant,
		ExpiresAt:   expiresAt,
	})
}

// GetTokenExpiry returns the stored token's expiration time, or the zero
// time when no token is held.
func (m *IdentityTokenManager) GetTokenExpiry() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// tokenRequest is the payload accepted by the token endpoint.
type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Tenant   string `json:"tenant"`
}

func (m *IdentityTokenManager) requestToken(ctx context.Context) (*Token, error) {
	payload, err := json.Marshal(tokenRequest{
		Username: m.config.Username,
		Password: m.config.Password,
		Tenant:   m.config.Tenant,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed: %w", vra.ParseResponseError(resp.StatusCode, body))
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if token.AccessToken == "" {
		return nil, &vra.AuthenticationError{Body: body}
	}

	return &token, nil
}
