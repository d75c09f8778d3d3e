package commands

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewAPIsCommand creates the apis command group.
func NewAPIsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apis",
		Aliases: []string{"api"},
		Short:   "Manage vRealize Automation API endpoints",
		Long:    "Add, list, delete, and target vRealize Automation API endpoints",
	}

	cmd.AddCommand(newAPIsAddCommand())
	cmd.AddCommand(newAPIsListCommand())
	cmd.AddCommand(newAPIsDeleteCommand())
	cmd.AddCommand(newAPIsTargetCommand())

	return cmd
}

func newAPIsAddCommand() *cobra.Command {
	var (
		tenant            string
		skipSSLValidation bool
	)

	cmd := &cobra.Command{
		Use:   "add NAME ENDPOINT",
		Short: "Add a new vRA API endpoint",
		Long:  "Add a new vRealize Automation API endpoint to the configuration",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			endpoint := args[1]

			normalizedEndpoint, err := normalizeEndpoint(endpoint)
			if err != nil {
				return fmt.Errorf("invalid endpoint: %w", err)
			}

			config := loadConfig()

			if config.APIs == nil {
				config.APIs = make(map[string]*APIConfig)
			}

			domain := extractDomainFromEndpoint(normalizedEndpoint)

			if _, exists := config.APIs[domain]; exists {
				return fmt.Errorf("%w for domain '%s': '%s'", ErrAPIAlreadyExists, domain, name)
			}

			config.APIs[domain] = &APIConfig{
				Endpoint:          normalizedEndpoint,
				Tenant:            tenant,
				SkipSSLValidation: skipSSLValidation,
			}

			// The first API becomes the current target
			if config.CurrentAPI == "" {
				config.CurrentAPI = domain
				fmt.Printf("API '%s' (%s) added and set as current target\n", name, normalizedEndpoint)
			} else {
				fmt.Printf("API '%s' (%s) added\n", name, normalizedEndpoint)
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "identity tenant for this endpoint")
	cmd.Flags().BoolVar(&skipSSLValidation, "skip-ssl-validation", false, "Skip SSL certificate validation")

	return cmd
}

func newAPIsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all vRA API endpoints",
		Long:  "Display all configured vRealize Automation API endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if len(config.APIs) == 0 {
				fmt.Println("No APIs configured. Use 'vra apis add' to add one.")

				return nil
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				type APIInfo struct {
					Domain            string `json:"domain"`
					Endpoint          string `json:"endpoint"`
					Tenant            string `json:"tenant,omitempty"`
					Username          string `json:"username,omitempty"`
					BusinessGroup     string `json:"business_group,omitempty"`
					SkipSSLValidation bool   `json:"skip_ssl_validation"`
					Current           bool   `json:"current"`
				}

				apis := make([]APIInfo, 0, len(config.APIs))
				for domain, apiConfig := range config.APIs {
					apis = append(apis, APIInfo{
						Domain:            domain,
						Endpoint:          apiConfig.Endpoint,
						Tenant:            apiConfig.Tenant,
						Username:          apiConfig.Username,
						BusinessGroup:     apiConfig.BusinessGroup,
						SkipSSLValidation: apiConfig.SkipSSLValidation,
						Current:           domain == config.CurrentAPI,
					})
				}

				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(apis)

			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(config.APIs)

			default:
				fmt.Println("Configured APIs:")

				for domain, apiConfig := range config.APIs {
					current := ""
					if domain == config.CurrentAPI {
						current = " (current)"
					}

					fmt.Printf("  %s%s\n", domain, current)
					fmt.Printf("    Endpoint: %s\n", apiConfig.Endpoint)

					if apiConfig.Tenant != "" {
						fmt.Printf("    Tenant:   %s\n", apiConfig.Tenant)
					}

					if apiConfig.Username != "" {
						fmt.Printf("    User:     %s\n", apiConfig.Username)
					}

					if apiConfig.BusinessGroup != "" {
						fmt.Printf("    Group:    %s\n", apiConfig.BusinessGroup)
					}

					if apiConfig.SkipSSLValidation {
						fmt.Printf("    Skip SSL: %v\n", apiConfig.SkipSSLValidation)
					}

					fmt.Println()
				}
			}

			return nil
		},
	}
}

func newAPIsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DOMAIN",
		Short: "Delete a vRA API endpoint",
		Long:  "Remove a vRealize Automation API endpoint from the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]

			config := loadConfig()

			if _, exists := config.APIs[domain]; !exists {
				return fmt.Errorf("%w: '%s'", ErrAPINotFound, domain)
			}

			delete(config.APIs, domain)

			// When the current target goes away, fall over to any remaining API
			if config.CurrentAPI == domain {
				config.CurrentAPI = ""

				for newDomain := range config.APIs {
					config.CurrentAPI = newDomain

					break
				}

				if config.CurrentAPI != "" {
					fmt.Printf("API '%s' deleted. Current API switched to '%s'\n", domain, config.CurrentAPI)
				} else {
					fmt.Printf("API '%s' deleted. No APIs remaining.\n", domain)
				}
			} else {
				fmt.Printf("API '%s' deleted\n", domain)
			}

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}
}

func newAPIsTargetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "target DOMAIN",
		Short: "Target a vRA API endpoint",
		Long:  "Set a vRealize Automation API endpoint as the current target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]

			config := loadConfig()

			if _, exists := config.APIs[domain]; !exists {
				return fmt.Errorf("%w. Use 'vra apis list' to see available APIs: '%s'", ErrAPINotFound, domain)
			}

			config.CurrentAPI = domain

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("API '%s' is now the current target\n", domain)

			return nil
		},
	}
}

// normalizeEndpoint validates and normalizes a vRA API endpoint URL.
func normalizeEndpoint(endpoint string) (string, error) {
	// Add https:// if no protocol is specified
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Host == "" {
		return "", ErrNoHostInURL
	}

	// Remove trailing slash and path for consistency
	normalizedURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	return normalizedURL, nil
}
