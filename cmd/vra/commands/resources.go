package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewResourcesCommand creates the resources command group.
func NewResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"resource", "res"},
		Short:   "Manage provisioned resources",
		Long:    "List and inspect provisioned consumer resources",
	}

	cmd.AddCommand(newResourcesListCommand())
	cmd.AddCommand(newResourcesGetCommand())
	cmd.AddCommand(newResourcesViewCommand())
	cmd.AddCommand(newResourcesChildrenCommand())

	return cmd
}

func newResourcesListCommand() *cobra.Command {
	var (
		allPages    bool
		pageSize    int
		filter      string
		managedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List provisioned resources",
		Long:  "List the consumer resources visible to the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourcesListCommand(cmd, allPages, pageSize, filter, managedOnly)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&filter, "filter", "", "OData $filter expression")
	cmd.Flags().BoolVar(&managedOnly, "managed-only", false, "only resources managed by the catalog")

	return cmd
}

func runResourcesListCommand(cmd *cobra.Command, allPages bool, pageSize int, filter string, managedOnly bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	params := vra.NewQueryParams().WithLimit(pageSize)
	if filter != "" {
		params.WithFilter(filter)
	}

	if managedOnly {
		params.WithParam("managedOnly", constants.BooleanTrue)
	}

	if allPages {
		resources, err := client.Resources().ListAll(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list resources: %w", err)
		}

		return outputResources(resources, vra.PageMetadata{TotalPages: 1}, true)
	}

	resources, err := client.Resources().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}

	return outputResources(resources.Content, resources.Metadata, allPages)
}

func outputResources(resources []vra.Resource, metadata vra.PageMetadata, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(resources)
	case OutputFormatYAML:
		return StandardYAMLRenderer(resources)
	default:
		return renderResourcesTable(resources, metadata, allPages)
	}
}

func renderResourcesTable(resources []vra.Resource, metadata vra.PageMetadata, allPages bool) error {
	if len(resources) == 0 {
		_, _ = os.Stdout.WriteString("No resources found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "ID", "Type", "Status", "Owner", "Created")

	for _, resource := range resources {
		_ = table.Append(resource.Name, resource.ID,
			resource.ResourceTypeRef.Label, resource.Status,
			firstOwner(resource.Owners), formatDate(resource.DateCreated))
	}

	_ = table.Render()

	if !allPages && metadata.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", metadata.TotalPages)
	}

	return nil
}

func newResourcesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get RESOURCE_NAME_OR_ID",
		Short: "Get resource details",
		Long:  "Display detailed information about a specific provisioned resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourcesGetCommand(cmd, args[0])
		},
	}
}

func runResourcesGetCommand(cmd *cobra.Command, nameOrID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	resource, err := findResourceByNameOrID(ctx, client, nameOrID)
	if err != nil {
		return err
	}

	handled, err := renderStructured(resource)
	if handled {
		return err
	}

	return renderResourceDetailsTable(resource)
}

func findResourceByNameOrID(ctx context.Context, client vra.Client, nameOrID string) (*vra.Resource, error) {
	resourcesClient := client.Resources()

	resource, err := resourcesClient.Get(ctx, nameOrID)
	if err == nil {
		return resource, nil
	}

	matches, err := resourcesClient.FindByName(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("failed to find resource '%s': %w", nameOrID, err)
	}

	if len(matches) == 0 {
		return nil, &vra.NotFoundError{Kind: "resource", Name: nameOrID}
	}

	return &matches[0], nil
}

func renderResourceDetailsTable(resource *vra.Resource) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", resource.Name)
	_ = table.Append("ID", resource.ID)
	_ = table.Append("Type", resource.ResourceTypeRef.Label)
	_ = table.Append("Status", resource.Status)
	_ = table.Append("Description", formatConfigValue(resource.Description))
	_ = table.Append("Request", formatConfigValue(resource.RequestID))
	_ = table.Append("Owner", firstOwner(resource.Owners))
	_ = table.Append("Business Group", formatConfigValue(resource.Organization.SubtenantLabel))
	_ = table.Append("Created", formatTime(resource.DateCreated))
	_ = table.Append("Has Children", fmt.Sprintf("%v", resource.HasChildren))

	if resource.Lease != nil && resource.Lease.End != nil {
		_ = table.Append("Lease Ends", formatTime(*resource.Lease.End))
	}

	_, _ = os.Stdout.WriteString("Resource details:\n\n")

	_ = table.Render()

	if len(resource.Operations) > 0 {
		_, _ = os.Stdout.WriteString("\nAvailable operations:\n")

		opTable := tablewriter.NewWriter(os.Stdout)
		opTable.Header("Name", "ID", "Type")

		for _, operation := range resource.Operations {
			_ = opTable.Append(operation.Name, operation.ID, operation.Type)
		}

		_ = opTable.Render()
	}

	return nil
}

func newResourcesViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view RESOURCE_ID",
		Short: "Get the flattened resource view",
		Long:  "Display the resourceViews record for a specific resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourcesViewCommand(cmd, args[0])
		},
	}
}

func runResourcesViewCommand(cmd *cobra.Command, resourceID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	view, err := client.Resources().GetView(commandContext(), resourceID)
	if err != nil {
		return fmt.Errorf("failed to get resource view: %w", err)
	}

	handled, err := renderStructured(view)
	if handled {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", view.Name)
	_ = table.Append("Resource ID", view.ResourceID)
	_ = table.Append("Type", view.ResourceType)
	_ = table.Append("Status", view.Status)
	_ = table.Append("Catalog Item", formatConfigValue(view.CatalogItemLabel))
	_ = table.Append("Request", formatConfigValue(view.RequestID))
	_ = table.Append("Owners", strings.Join(view.Owners, ", "))
	_ = table.Append("Business Group", formatConfigValue(view.BusinessGroupID))
	_ = table.Append("Tenant", formatConfigValue(view.TenantID))
	_ = table.Append("Parent", formatConfigValue(view.ParentResourceID))
	_ = table.Append("Has Children", fmt.Sprintf("%v", view.HasChildren))
	_ = table.Append("Created", formatTime(view.DateCreated))

	_, _ = os.Stdout.WriteString("Resource view:\n\n")

	_ = table.Render()

	return nil
}

func newResourcesChildrenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "children RESOURCE_ID",
		Short: "List child resources",
		Long:  "Display the child resource views of a deployment resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourcesChildrenCommand(cmd, args[0])
		},
	}
}

func runResourcesChildrenCommand(cmd *cobra.Command, resourceID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	children, err := client.Resources().ListChildViews(commandContext(), resourceID)
	if err != nil {
		return fmt.Errorf("failed to list child resources: %w", err)
	}

	handled, err := renderStructured(children.Content)
	if handled {
		return err
	}

	return renderResourceViewsTable(children.Content)
}
