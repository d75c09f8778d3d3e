package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/auth"
	"github.com/fivetwenty-io/vra-client/internal/client"
	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/fivetwenty-io/vra-client/pkg/vraclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// Multi-API configuration
	APIs       map[string]*APIConfig `json:"apis,omitempty"        yaml:"apis,omitempty"`
	CurrentAPI string                `json:"current_api,omitempty" yaml:"current_api,omitempty"`

	// Global settings
	Output  string `json:"output"   yaml:"output"`
	NoColor bool   `json:"no_color" yaml:"no_color"`
}

// APIConfig represents configuration for a single vRA endpoint.
type APIConfig struct {
	Endpoint          string     `json:"endpoint"                    yaml:"endpoint"`
	Tenant            string     `json:"tenant,omitempty"            yaml:"tenant,omitempty"`
	Token             string     `json:"token,omitempty"             yaml:"token,omitempty"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"  yaml:"token_expires_at,omitempty"`
	LastRefreshed     *time.Time `json:"last_refreshed,omitempty"    yaml:"last_refreshed,omitempty"`
	Username          string     `json:"username,omitempty"          yaml:"username,omitempty"`
	BusinessGroup     string     `json:"business_group,omitempty"    yaml:"business_group,omitempty"`
	BusinessGroupID   string     `json:"business_group_id,omitempty" yaml:"business_group_id,omitempty"`
	SkipSSLValidation bool       `json:"skip_ssl_validation"         yaml:"skip_ssl_validation"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage vra CLI configuration including endpoints and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration (global or API-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// If --api flag is provided, show only that API's configuration
			if apiFlag != "" {
				return showAPISpecificConfig(config, apiFlag)
			}

			handled, err := renderStructured(config)
			if handled {
				return err
			}

			return displayConfigTable(config)
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "show configuration for specific API")

	return cmd
}

func newConfigSetCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value (global or API-specific)",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			// If --api flag is provided, set API-specific configuration
			if apiFlag != "" {
				return setAPISpecificConfig(config, apiFlag, key, value)
			}

			// Otherwise set global configuration
			return setGlobalConfig(config, key, value)
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "target specific API for configuration")

	return cmd
}

func newConfigUnsetCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value (global or API-specific)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			// If --api flag is provided, unset API-specific configuration
			if apiFlag != "" {
				return unsetAPISpecificConfig(config, apiFlag, key)
			}

			// Otherwise unset global configuration
			return unsetGlobalConfig(config, key)
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "target specific API for configuration")

	return cmd
}

func newConfigClearCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings (global or API-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// If --api flag is provided, clear only that API's configuration
			if apiFlag != "" {
				return clearAPISpecificConfig(config, apiFlag)
			}

			// Otherwise clear all configuration
			configFile := viper.ConfigFileUsed()
			if configFile == "" {
				home, _ := os.UserHomeDir()
				configFile = filepath.Join(home, ".vra", "config.yml")
			}

			err := os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult("Cleared", "all configuration", "", "")
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "clear configuration for specific API only")

	return cmd
}

func loadConfig() *Config {
	config := &Config{
		Output:  viper.GetString("output"),
		NoColor: viper.GetBool("no_color"),
		APIs:    make(map[string]*APIConfig),
	}

	loadAPIConfigurations(config)

	return config
}

// loadAPIConfigurations loads multi-API configuration from viper.
func loadAPIConfigurations(config *Config) {
	config.CurrentAPI = viper.GetString("current_api")

	apisRaw := viper.GetStringMap("apis")
	if apisRaw == nil {
		return
	}

	for domain, apiRaw := range apisRaw {
		if apiMap, ok := apiRaw.(map[string]interface{}); ok {
			config.APIs[domain] = parseAPIConfig(apiMap)
		}
	}
}

// parseAPIConfig parses API configuration from a map.
func parseAPIConfig(apiMap map[string]interface{}) *APIConfig {
	apiConfig := &APIConfig{}

	stringFields := map[string]*string{
		"endpoint":          &apiConfig.Endpoint,
		"tenant":            &apiConfig.Tenant,
		"token":             &apiConfig.Token,
		"username":          &apiConfig.Username,
		"business_group":    &apiConfig.BusinessGroup,
		"business_group_id": &apiConfig.BusinessGroupID,
	}

	for key, field := range stringFields {
		if value, ok := apiMap[key].(string); ok {
			*field = value
		}
	}

	if skipSSL, ok := apiMap["skip_ssl_validation"].(bool); ok {
		apiConfig.SkipSSLValidation = skipSSL
	}

	parseAPITimestampFields(apiConfig, apiMap)

	return apiConfig
}

// parseAPITimestampFields parses timestamp fields in API configuration.
func parseAPITimestampFields(apiConfig *APIConfig, apiMap map[string]interface{}) {
	if tokenExpiresAtStr, ok := apiMap["token_expires_at"].(string); ok && tokenExpiresAtStr != "" {
		t, err := time.Parse(time.RFC3339, tokenExpiresAtStr)
		if err == nil {
			apiConfig.TokenExpiresAt = &t
		}
	}

	if lastRefreshedStr, ok := apiMap["last_refreshed"].(string); ok && lastRefreshedStr != "" {
		t, err := time.Parse(time.RFC3339, lastRefreshedStr)
		if err == nil {
			apiConfig.LastRefreshed = &t
		}
	}
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".vra")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// extractDomainFromEndpoint extracts the domain portion from a vRA endpoint.
func extractDomainFromEndpoint(endpoint string) string {
	// Remove protocol if present
	domain := endpoint
	if strings.HasPrefix(domain, "https://") {
		domain = strings.TrimPrefix(domain, "https://")
	} else if strings.HasPrefix(domain, "http://") {
		domain = strings.TrimPrefix(domain, "http://")
	}

	// Remove path if present
	if idx := strings.Index(domain, "/"); idx != -1 {
		domain = domain[:idx]
	}

	// Remove port if present
	if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}

	return domain
}

// getCurrentAPIConfig returns the configuration for the currently targeted API.
func getCurrentAPIConfig() (*APIConfig, error) {
	config := loadConfig()

	if config.CurrentAPI == "" {
		if len(config.APIs) == 0 {
			return nil, constants.ErrNoAPIsConfigured
		}
		// If no current API set but APIs exist, use the first one
		for domain := range config.APIs {
			config.CurrentAPI = domain

			break
		}
	}

	apiConfig, exists := config.APIs[config.CurrentAPI]
	if !exists {
		return nil, fmt.Errorf("%w in configuration: '%s'", constants.ErrAPIConfigNotFound, config.CurrentAPI)
	}

	return apiConfig, nil
}

// getAPIConfigByFlag returns API config based on command line flag or current API.
func getAPIConfigByFlag(apiFlag string) (*APIConfig, error) {
	config := loadConfig()

	// If --api flag is provided, use that specific API
	if apiFlag != "" {
		// Check if the flag is a short name in our config
		if apiConfig, exists := config.APIs[apiFlag]; exists {
			return apiConfig, nil
		}

		resolvedEndpoint, err := ResolveAPIEndpoint(apiFlag)
		if err != nil {
			return nil, err
		}

		// Otherwise look for it by resolved endpoint
		for _, apiConfig := range config.APIs {
			if apiConfig.Endpoint == resolvedEndpoint {
				return apiConfig, nil
			}
		}

		return nil, fmt.Errorf("%w in configuration, use 'vra apis list' to see available APIs: '%s'", ErrAPINotFound, apiFlag)
	}

	// Otherwise use current API
	return getCurrentAPIConfig()
}

// ResolveAPIEndpoint resolves a short name or returns the endpoint if it's already a URL.
func ResolveAPIEndpoint(apiNameOrEndpoint string) (string, error) {
	if apiNameOrEndpoint == "" {
		return "", ErrAPINameOrEndpointRequired
	}

	config := loadConfig()

	// Check if it's a short name in the APIs map
	if apiConfig, exists := config.APIs[apiNameOrEndpoint]; exists {
		return apiConfig.Endpoint, nil
	}

	// If not found in config, treat as direct endpoint URL
	return apiNameOrEndpoint, nil
}

// CreateClientWithAPI creates a vRA client using the specified API or current API.
func CreateClientWithAPI(apiFlag string) (vra.Client, error) {
	apiConfig, apiDomain, err := prepareClientConfig(apiFlag)
	if err != nil {
		return nil, err
	}

	tokenManager := createTokenManager(apiConfig, apiDomain)
	vraConfig := buildVRAConfig(apiConfig)

	return createFinalClient(vraConfig, tokenManager, apiConfig)
}

func prepareClientConfig(apiFlag string) (*APIConfig, string, error) {
	apiConfig, err := getAPIConfigByFlag(apiFlag)
	if err != nil {
		return nil, "", err
	}

	if apiConfig.Endpoint == "" {
		return nil, "", fmt.Errorf("%w, use 'vra apis add' first", ErrAPIEndpointRequired)
	}

	apiDomain, err := findAPIDomain(apiConfig)
	if err != nil {
		return nil, "", err
	}

	return apiConfig, apiDomain, nil
}

func findAPIDomain(apiConfig *APIConfig) (string, error) {
	config := loadConfig()

	for domain, cfg := range config.APIs {
		if cfg.Endpoint == apiConfig.Endpoint {
			return domain, nil
		}
	}

	return "", constants.ErrNoDomainForAPI
}

func createTokenManager(apiConfig *APIConfig, apiDomain string) auth.TokenManager {
	if apiConfig.Token == "" {
		return nil
	}

	identityConfig := &auth.IdentityConfig{
		TokenURL:      strings.TrimSuffix(apiConfig.Endpoint, "/") + "/identity/api/tokens",
		Tenant:        apiConfig.Tenant,
		Username:      apiConfig.Username,
		SkipTLSVerify: apiConfig.SkipSSLValidation,
	}

	configPersister := NewConfigPersister()
	initialExpiry := getInitialTokenExpiry(apiConfig)

	// The identity service has no refresh grant and the password is never
	// persisted, so once the stored token expires the exchange fails and
	// the user has to log in again.
	return auth.NewConfigTokenManager(identityConfig, configPersister, apiDomain, apiConfig.Token, initialExpiry)
}

func getInitialTokenExpiry(apiConfig *APIConfig) time.Time {
	if apiConfig.TokenExpiresAt != nil {
		return *apiConfig.TokenExpiresAt
	}

	return time.Time{}
}

func buildVRAConfig(apiConfig *APIConfig) *vra.Config {
	return &vra.Config{
		APIEndpoint:   apiConfig.Endpoint,
		Tenant:        apiConfig.Tenant,
		SkipTLSVerify: apiConfig.SkipSSLValidation,
	}
}

func createFinalClient(vraConfig *vra.Config, tokenManager auth.TokenManager, apiConfig *APIConfig) (vra.Client, error) {
	if tokenManager != nil {
		vraClient, err := client.NewWithTokenManager(vraConfig, tokenManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create client with token manager: %w", err)
		}

		return vraClient, nil
	}

	if apiConfig.Token != "" {
		vraConfig.AccessToken = apiConfig.Token

		vraClient, err := vraclient.New(vraConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create vRA client: %w", err)
		}

		return vraClient, nil
	}

	return nil, constants.ErrNotAuthenticated
}

// setGlobalConfig sets a global configuration value.
func setGlobalConfig(config *Config, key, value string) error {
	switch key {
	case "output":
		config.Output = value
	case "no_color":
		config.NoColor = parseBoolValue(value)
	default:
		return fmt.Errorf("%w: %s. Use --api flag for API-specific settings", constants.ErrUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Set global", key, value, "")
}

// setAPISpecificConfig sets configuration for a specific API.
func setAPISpecificConfig(config *Config, apiDomain, key, value string) error {
	apiConfig, err := validateAPIExists(config, apiDomain)
	if err != nil {
		return err
	}

	err = setAPIConfigValue(apiConfig, key, value)
	if err != nil {
		return err
	}

	config.APIs[apiDomain] = apiConfig

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Set", key, value, apiDomain)
}

// validateAPIExists validates that an API exists in the configuration.
func validateAPIExists(config *Config, apiDomain string) (*APIConfig, error) {
	apiConfig, exists := config.APIs[apiDomain]
	if !exists {
		return nil, fmt.Errorf("%w. Use 'vra apis list' to see available APIs: '%s'", ErrAPINotFound, apiDomain)
	}

	return apiConfig, nil
}

// setAPIConfigValue sets a specific configuration value for an API.
func setAPIConfigValue(apiConfig *APIConfig, key, value string) error {
	switch key {
	case "tenant":
		apiConfig.Tenant = value
	case "username":
		apiConfig.Username = value
	case "business_group":
		apiConfig.BusinessGroup = value
	case "business_group_id":
		apiConfig.BusinessGroupID = value
	case "skip_ssl_validation":
		apiConfig.SkipSSLValidation = parseBoolValue(value)
	case "token":
		return constants.ErrTokenFieldsCannotSet
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// parseBoolValue parses a boolean value from string.
func parseBoolValue(value string) bool {
	return value == constants.BooleanTrue || value == "1"
}

// unsetGlobalConfig unsets a global configuration value.
func unsetGlobalConfig(config *Config, key string) error {
	switch key {
	case "output":
		config.Output = constants.FormatTable
	case "no_color":
		config.NoColor = false
	default:
		return fmt.Errorf("%w: %s. Use --api flag for API-specific settings", constants.ErrUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset global", key, "", "")
}

// unsetAPISpecificConfig unsets configuration for a specific API.
func unsetAPISpecificConfig(config *Config, apiDomain, key string) error {
	apiConfig, err := validateAPIExists(config, apiDomain)
	if err != nil {
		return err
	}

	switch key {
	case "tenant":
		apiConfig.Tenant = ""
	case "username":
		apiConfig.Username = ""
	case "business_group":
		apiConfig.BusinessGroup = ""
	case "business_group_id":
		apiConfig.BusinessGroupID = ""
	case "skip_ssl_validation":
		apiConfig.SkipSSLValidation = false
	// Token fields should not be unset via config command for security
	case "token":
		return fmt.Errorf("%w. Use 'vra logout' instead", constants.ErrTokenFieldsCannotSet)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	// Update the API config in the main config
	config.APIs[apiDomain] = apiConfig

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset", key, "", apiDomain)
}

// showAPISpecificConfig shows configuration for a specific API.
func showAPISpecificConfig(config *Config, apiDomain string) error {
	apiConfig, err := validateAPIExists(config, apiDomain)
	if err != nil {
		return err
	}

	handled, err := renderStructured(apiConfig)
	if handled {
		return err
	}

	return displayAPISpecificConfigTable(config, apiDomain, apiConfig)
}

// clearAPISpecificConfig clears configuration for a specific API.
func clearAPISpecificConfig(config *Config, apiDomain string) error {
	apiConfig, err := validateAPIExists(config, apiDomain)
	if err != nil {
		return err
	}

	// Clear all configuration except the endpoint
	apiConfig.Tenant = ""
	apiConfig.Token = ""
	apiConfig.TokenExpiresAt = nil
	apiConfig.LastRefreshed = nil
	apiConfig.Username = ""
	apiConfig.BusinessGroup = ""
	apiConfig.BusinessGroupID = ""
	apiConfig.SkipSSLValidation = false

	// Update the API config in the main config
	config.APIs[apiDomain] = apiConfig

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Cleared configuration for API", apiDomain, "", "")
}

// displayConfigTable displays configuration in a table format.
func displayConfigTable(config *Config) error {
	err := displayGlobalConfigTable(config)
	if err != nil {
		return err
	}

	return displayAPIsConfigTable(config)
}

func displayGlobalConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Output", config.Output})
	_ = table.Append([]string{"No Color", strconv.FormatBool(config.NoColor)})

	if config.CurrentAPI != "" {
		_ = table.Append([]string{"Current API", config.CurrentAPI})
	}

	_, _ = os.Stdout.WriteString("Global Configuration:\n")

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func displayAPIsConfigTable(config *Config) error {
	if len(config.APIs) == 0 {
		_, _ = os.Stdout.WriteString("\nNo APIs configured. Use 'vra apis add' to add one.\n")

		return nil
	}

	_, _ = os.Stdout.WriteString("\nConfigured APIs:\n")

	apiTable := tablewriter.NewWriter(os.Stdout)
	apiTable.Header("Domain", "Endpoint", "Tenant", "Username", "Business Group", "Current")

	for domain, apiConfig := range config.APIs {
		current := ""
		if domain == config.CurrentAPI {
			current = constants.CheckMarkSymbol
		}

		_ = apiTable.Append([]string{
			domain,
			apiConfig.Endpoint,
			formatConfigValue(apiConfig.Tenant),
			formatConfigValue(apiConfig.Username),
			formatConfigValue(apiConfig.BusinessGroup),
			current,
		})
	}

	err := apiTable.Render()
	if err != nil {
		return fmt.Errorf("failed to render API config table: %w", err)
	}

	return nil
}

// displayAPISpecificConfigTable displays configuration for a specific API in table format.
func displayAPISpecificConfigTable(config *Config, apiDomain string, apiConfig *APIConfig) error {
	current := ""
	if apiDomain == config.CurrentAPI {
		current = " (current)"
	}

	_, _ = fmt.Fprintf(os.Stdout, "Configuration for API '%s'%s:\n", apiDomain, current)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Endpoint", apiConfig.Endpoint})

	optionalRows := [][2]string{
		{"Tenant", apiConfig.Tenant},
		{"Username", apiConfig.Username},
		{"Business Group", apiConfig.BusinessGroup},
		{"Business Group ID", apiConfig.BusinessGroupID},
	}

	for _, row := range optionalRows {
		if row[1] != "" {
			_ = table.Append([]string{row[0], row[1]})
		}
	}

	if apiConfig.SkipSSLValidation {
		_ = table.Append([]string{"Skip SSL", strconv.FormatBool(apiConfig.SkipSSLValidation)})
	}

	// Token values are redacted for security
	if apiConfig.Token != "" {
		_ = table.Append([]string{"Token", "[REDACTED]"})
	}

	if apiConfig.TokenExpiresAt != nil {
		_ = table.Append([]string{"Token Expires", formatTime(*apiConfig.TokenExpiresAt)})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render API config table: %w", err)
	}

	return nil
}

// outputConfigUpdateResult outputs configuration update results in the requested format.
func outputConfigUpdateResult(action, key, value, apiDomain string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	if apiDomain != "" {
		result["api_domain"] = apiDomain
	}

	handled, err := renderStructured(result)
	if handled {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Action", action})
	_ = table.Append([]string{"Key", key})

	if value != "" {
		_ = table.Append([]string{"Value", value})
	}

	if apiDomain != "" {
		_ = table.Append([]string{"API Domain", apiDomain})
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render update results table: %w", err)
	}

	return nil
}
