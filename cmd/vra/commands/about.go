package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/fivetwenty-io/vra-client/pkg/vraclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewAboutCommand creates the about command.
func NewAboutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Display server version information",
		Long:  "Display build and API version information reported by the targeted vRA server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createAboutClient(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			about, err := client.About(commandContext())
			if err != nil {
				return fmt.Errorf("failed to get server information: %w", err)
			}

			handled, err := renderStructured(about)
			if handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Product Version", about.ProductVersion)
			_ = table.Append("API Version", about.APIVersion)
			_ = table.Append("Build Number", about.BuildNumber)
			_ = table.Append("Build Date", about.BuildDate)

			err = table.Render()
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

// createAboutClient builds a client for the about endpoint. The endpoint is
// unauthenticated, so a configured API without a stored token still works.
func createAboutClient(apiFlag string) (vra.Client, error) {
	client, err := CreateClientWithAPI(apiFlag)
	if err == nil {
		return client, nil
	}

	if !errors.Is(err, constants.ErrNotAuthenticated) {
		return nil, err
	}

	apiConfig, cfgErr := getAPIConfigByFlag(apiFlag)
	if cfgErr != nil {
		return nil, cfgErr
	}

	client, cfgErr = vraclient.New(&vra.Config{
		APIEndpoint:   apiConfig.Endpoint,
		Tenant:        apiConfig.Tenant,
		SkipTLSVerify: apiConfig.SkipSSLValidation,
	})
	if cfgErr != nil {
		return nil, fmt.Errorf("failed to create vRA client: %w", cfgErr)
	}

	return client, nil
}
