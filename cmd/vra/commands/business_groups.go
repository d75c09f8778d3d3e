package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewBusinessGroupsCommand creates the business groups command group.
func NewBusinessGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "business-groups",
		Aliases: []string{"groups", "bg"},
		Short:   "Manage business groups",
		Long:    "List, inspect, and delete business groups (identity-service subtenants)",
	}

	cmd.AddCommand(newBusinessGroupsListCommand())
	cmd.AddCommand(newBusinessGroupsGetCommand())
	cmd.AddCommand(newBusinessGroupsDeleteCommand())

	return cmd
}

func newBusinessGroupsListCommand() *cobra.Command {
	var (
		allPages     bool
		pageSize     int
		userName     string
		role         string
		expandGroups bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List business groups",
		Long:  "List all business groups visible in the tenant, optionally filtered by member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBusinessGroupsListCommand(cmd, allPages, pageSize, userName, role, expandGroups)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&userName, "user", "", "only groups the given user belongs to")
	cmd.Flags().StringVar(&role, "role", constants.RoleConsumer, "membership role to match when --user is set")
	cmd.Flags().BoolVar(&expandGroups, "expand-groups", false, "resolve directory group membership when --user is set")

	return cmd
}

func runBusinessGroupsListCommand(cmd *cobra.Command, allPages bool, pageSize int, userName, role string, expandGroups bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	if userName != "" {
		groups, err := client.BusinessGroups().ListByUser(ctx, userName, role, expandGroups)
		if err != nil {
			return fmt.Errorf("failed to list business groups for user: %w", err)
		}

		return outputBusinessGroups(groups, vra.PageMetadata{TotalPages: 1}, true)
	}

	params := vra.NewQueryParams().WithLimit(pageSize)

	if allPages {
		groups, err := client.BusinessGroups().ListAll(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list business groups: %w", err)
		}

		return outputBusinessGroups(groups, vra.PageMetadata{TotalPages: 1}, true)
	}

	groups, err := client.BusinessGroups().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list business groups: %w", err)
	}

	return outputBusinessGroups(groups.Content, groups.Metadata, allPages)
}

func outputBusinessGroups(groups []vra.BusinessGroup, metadata vra.PageMetadata, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(groups)
	case OutputFormatYAML:
		return StandardYAMLRenderer(groups)
	default:
		return renderBusinessGroupsTable(groups, metadata, allPages)
	}
}

func renderBusinessGroupsTable(groups []vra.BusinessGroup, metadata vra.PageMetadata, allPages bool) error {
	if len(groups) == 0 {
		_, _ = os.Stdout.WriteString("No business groups found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "ID", "Tenant", "Description")

	for _, group := range groups {
		_ = table.Append(group.Name, group.ID, group.Tenant, group.Description)
	}

	_ = table.Render()

	if !allPages && metadata.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", metadata.TotalPages)
	}

	return nil
}

func newBusinessGroupsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get GROUP_NAME_OR_ID",
		Short: "Get business group details",
		Long:  "Display detailed information about a specific business group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBusinessGroupsGetCommand(cmd, args[0])
		},
	}
}

func runBusinessGroupsGetCommand(cmd *cobra.Command, nameOrID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	group, err := findBusinessGroupByNameOrID(ctx, client, nameOrID)
	if err != nil {
		return err
	}

	handled, err := renderStructured(group)
	if handled {
		return err
	}

	return renderBusinessGroupDetailsTable(group)
}

func findBusinessGroupByNameOrID(ctx context.Context, client vra.Client, nameOrID string) (*vra.BusinessGroup, error) {
	groupsClient := client.BusinessGroups()

	group, err := groupsClient.Get(ctx, nameOrID)
	if err == nil {
		return group, nil
	}

	group, err = groupsClient.GetByName(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("failed to find business group '%s': %w", nameOrID, err)
	}

	return group, nil
}

func renderBusinessGroupDetailsTable(group *vra.BusinessGroup) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", group.Name)
	_ = table.Append("ID", group.ID)
	_ = table.Append("Tenant", group.Tenant)
	_ = table.Append("Description", formatConfigValue(group.Description))

	_, _ = os.Stdout.WriteString("Business group details:\n\n")

	_ = table.Render()

	if len(group.SubtenantRoles) > 0 {
		_, _ = os.Stdout.WriteString("\nRoles:\n")

		roleTable := tablewriter.NewWriter(os.Stdout)
		roleTable.Header("Principal", "Role", "State")

		for _, role := range group.SubtenantRoles {
			_ = roleTable.Append(role.PrincipalID, role.ScopeRoleRef, role.State)
		}

		_ = roleTable.Render()
	}

	return nil
}

func newBusinessGroupsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete GROUP_NAME_OR_ID",
		Short: "Delete a business group",
		Long:  "Delete a business group from the tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBusinessGroupsDeleteCommand(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runBusinessGroupsDeleteCommand(cmd *cobra.Command, nameOrID string, force bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	group, err := findBusinessGroupByNameOrID(ctx, client, nameOrID)
	if err != nil {
		return err
	}

	err = confirmDeletion(fmt.Sprintf("Really delete business group '%s'?", group.Name), force)
	if err != nil {
		return err
	}

	err = client.BusinessGroups().Delete(ctx, group.ID)
	if err != nil {
		return fmt.Errorf("failed to delete business group: %w", err)
	}

	fmt.Printf("Successfully deleted business group '%s'\n", group.Name)

	return nil
}
