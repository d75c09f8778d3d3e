package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/auth"
	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/fivetwenty-io/vra-client/pkg/vraclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		tenant      string
		username    string
		password    string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to vRealize Automation",
		Long:  "Authenticate with a vRealize Automation API endpoint using tenant credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, originalInput, err := resolveLoginEndpoint(apiEndpoint)
			if err != nil {
				return err
			}

			loginTenant := resolveLoginTenant(tenant, originalInput)
			skipSSL := resolveLoginSkipSSL(originalInput)

			username, password, err = promptForCredentials(username, password)
			if err != nil {
				return err
			}

			vraClient, err := vraclient.New(&vra.Config{
				APIEndpoint:   endpoint,
				Tenant:        loginTenant,
				Username:      username,
				Password:      password,
				SkipTLSVerify: skipSSL,
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := commandContext()

			// The about endpoint is unauthenticated, so force a token
			// exchange first to surface bad credentials here instead of on
			// the first real command.
			token, tokenExpiry, err := exchangeLoginToken(ctx, vraClient)
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			about, err := vraClient.About(ctx)
			if err != nil {
				return fmt.Errorf("failed to connect to API: %w", err)
			}

			configKey, err := persistLogin(originalInput, endpoint, loginTenant, username, skipSSL, token, tokenExpiry)
			if err != nil {
				return err
			}

			fmt.Printf("Successfully logged in to %s (tenant %s)\n", endpoint, loginTenant)
			fmt.Printf("Product version: %s (API %s)\n", about.ProductVersion, about.APIVersion)

			config := loadConfig()
			if config.CurrentAPI == configKey && len(config.APIs) == 1 {
				fmt.Printf("API '%s' set as current target\n", configKey)
			}

			showAvailableBusinessGroups(ctx, vraClient, configKey)

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL or short name from config")
	cmd.Flags().StringVar(&tenant, "tenant", "", "identity tenant (defaults to "+constants.DefaultTenant+")")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication")

	return cmd
}

// resolveLoginEndpoint works out which endpoint to log into, preferring the
// flag, then the global api setting, then the current API, then a prompt.
// It returns the resolved endpoint along with the raw input so short names
// keep their config key.
func resolveLoginEndpoint(apiEndpoint string) (string, string, error) {
	if apiEndpoint == "" {
		apiEndpoint = viper.GetString("api")
	}

	if apiEndpoint == "" {
		config := loadConfig()
		if config.CurrentAPI != "" {
			if _, exists := config.APIs[config.CurrentAPI]; exists {
				apiEndpoint = config.CurrentAPI
			}
		}
	}

	if apiEndpoint == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("API endpoint (or short name): ")

		apiEndpoint, _ = reader.ReadString('\n')
		apiEndpoint = strings.TrimSpace(apiEndpoint)
	}

	if apiEndpoint == "" {
		return "", "", ErrAPIEndpointRequired
	}

	originalInput := apiEndpoint

	resolvedEndpoint, err := ResolveAPIEndpoint(apiEndpoint)
	if err != nil {
		return "", "", err
	}

	return resolvedEndpoint, originalInput, nil
}

// resolveLoginTenant picks the tenant from the flag, the global setting, the
// stored API configuration, or the default tenant, in that order.
func resolveLoginTenant(tenant, originalInput string) string {
	if tenant == "" {
		tenant = viper.GetString("tenant")
	}

	if tenant == "" {
		config := loadConfig()
		if apiConfig, exists := config.APIs[originalInput]; exists {
			tenant = apiConfig.Tenant
		}
	}

	if tenant == "" {
		tenant = constants.DefaultTenant
	}

	return tenant
}

// resolveLoginSkipSSL picks the skip-SSL setting from the global setting or
// the stored API configuration, in that order.
func resolveLoginSkipSSL(originalInput string) bool {
	if viper.IsSet("skip-ssl-validation") && viper.GetBool("skip-ssl-validation") {
		return true
	}

	config := loadConfig()
	if apiConfig, exists := config.APIs[originalInput]; exists {
		return apiConfig.SkipSSLValidation
	}

	return false
}

func promptForCredentials(username, password string) (string, string, error) {
	if username == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Username: ")

		username, _ = reader.ReadString('\n')
		username = strings.TrimSpace(username)
	}

	if username == "" {
		return "", "", constants.ErrUsernameRequired
	}

	if password == "" {
		fmt.Print("Password: ")

		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}

		password = string(bytePassword)

		fmt.Println()
	}

	if password == "" {
		return "", "", constants.ErrPasswordRequired
	}

	return username, password, nil
}

// exchangeLoginToken runs the credential exchange and reports the issued
// token with its expiry when the client exposes them.
func exchangeLoginToken(ctx context.Context, vraClient vra.Client) (string, time.Time, error) {
	tokenGetter, ok := vraClient.(interface {
		GetToken(context.Context) (string, error)
	})
	if !ok {
		return "", time.Time{}, nil
	}

	token, err := tokenGetter.GetToken(ctx)
	if err != nil {
		return "", time.Time{}, err
	}

	var expiry time.Time

	if provider, ok := vraClient.(interface {
		GetTokenManager() auth.TokenManager
	}); ok {
		if expirer, ok := provider.GetTokenManager().(interface {
			GetTokenExpiry() time.Time
		}); ok {
			expiry = expirer.GetTokenExpiry()
		}
	}

	return token, expiry, nil
}

// persistLogin writes the session to the configuration. Only the issued
// token is stored, never the password.
func persistLogin(originalInput, endpoint, tenant, username string, skipSSL bool, token string, tokenExpiry time.Time) (string, error) {
	normalizedEndpoint, err := normalizeEndpoint(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid API endpoint: %w", err)
	}

	config := loadConfig()

	if config.APIs == nil {
		config.APIs = make(map[string]*APIConfig)
	}

	// Short names that already exist in config keep their key
	configKey := originalInput
	if _, exists := config.APIs[originalInput]; !exists {
		configKey = extractDomainFromEndpoint(normalizedEndpoint)
	}

	apiConfig, exists := config.APIs[configKey]
	if !exists {
		apiConfig = &APIConfig{Endpoint: normalizedEndpoint}
		config.APIs[configKey] = apiConfig
	}

	apiConfig.Tenant = tenant
	apiConfig.Username = username
	apiConfig.SkipSSLValidation = skipSSL

	if token != "" {
		apiConfig.Token = token
		now := time.Now()
		apiConfig.LastRefreshed = &now

		if !tokenExpiry.IsZero() {
			apiConfig.TokenExpiresAt = &tokenExpiry
		} else {
			apiConfig.TokenExpiresAt = nil
		}
	}

	if config.CurrentAPI == "" || len(config.APIs) == 1 {
		config.CurrentAPI = configKey
	}

	err = saveConfigStruct(config)
	if err != nil {
		return "", fmt.Errorf("failed to save configuration: %w", err)
	}

	return configKey, nil
}

func showAvailableBusinessGroups(ctx context.Context, vraClient vra.Client, configKey string) {
	groups, err := vraClient.BusinessGroups().List(ctx, nil)
	if err != nil || len(groups.Content) == 0 {
		return
	}

	fmt.Println("\nAvailable business groups:")

	for _, group := range groups.Content {
		fmt.Printf("  - %s\n", group.Name)
	}

	fmt.Printf("\nUse 'vra config set business_group <name> --api %s' to set a default\n", configKey)
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout from vRealize Automation",
		Long:  "Discard the stored token for the targeted vRealize Automation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiConfig, err := getAPIConfigByFlag(apiFlag)
			if err != nil {
				return err
			}

			domain, err := findAPIDomain(apiConfig)
			if err != nil {
				return err
			}

			config := loadConfig()

			apiConfig = config.APIs[domain]
			apiConfig.Token = ""
			apiConfig.TokenExpiresAt = nil
			apiConfig.LastRefreshed = nil

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully logged out from '%s'\n", domain)

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiFlag, "api", "a", "", "API endpoint or short name to log out from")

	return cmd
}
