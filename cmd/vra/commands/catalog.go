package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the entitled service catalog",
		Long:  "List entitled catalog items, inspect request templates, and submit provisioning requests",
	}

	cmd.AddCommand(newCatalogItemsCommand())
	cmd.AddCommand(newCatalogViewsCommand())
	cmd.AddCommand(newCatalogGetCommand())
	cmd.AddCommand(newCatalogTemplateCommand())
	cmd.AddCommand(newCatalogRequestCommand())

	return cmd
}

func newCatalogItemsCommand() *cobra.Command {
	var (
		allPages    bool
		pageSize    int
		serviceID   string
		onBehalfOf  string
		subtenantID string
	)

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List entitled catalog items",
		Long:  "List the catalog items the current user is entitled to request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogItemsCommand(cmd, allPages, pageSize, serviceID, onBehalfOf, subtenantID)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&serviceID, "service", "", "only items published by the given service ID")
	cmd.Flags().StringVar(&onBehalfOf, "on-behalf-of", "", "list the catalog as the given user")
	cmd.Flags().StringVar(&subtenantID, "subtenant", "", "only items requestable in the given business group ID")

	return cmd
}

func runCatalogItemsCommand(cmd *cobra.Command, allPages bool, pageSize int, serviceID, onBehalfOf, subtenantID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	params := vra.NewQueryParams().WithLimit(pageSize)
	applyCatalogScope(params, serviceID, onBehalfOf, subtenantID)

	if allPages {
		items, err := client.Catalog().ListAllEntitledItems(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list catalog items: %w", err)
		}

		return outputCatalogItems(items, vra.PageMetadata{TotalPages: 1}, true)
	}

	items, err := client.Catalog().ListEntitledItems(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list catalog items: %w", err)
	}

	return outputCatalogItems(items.Content, items.Metadata, allPages)
}

func outputCatalogItems(items []vra.EntitledCatalogItem, metadata vra.PageMetadata, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(items)
	case OutputFormatYAML:
		return StandardYAMLRenderer(items)
	default:
		return renderCatalogItemsTable(items, metadata, allPages)
	}
}

func renderCatalogItemsTable(items []vra.EntitledCatalogItem, metadata vra.PageMetadata, allPages bool) error {
	if len(items) == 0 {
		_, _ = os.Stdout.WriteString("No entitled catalog items found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "ID", "Type", "Service", "Status")

	for _, item := range items {
		_ = table.Append(item.CatalogItem.Name, item.CatalogItem.ID,
			item.CatalogItem.CatalogItemTypeRef.Label,
			item.CatalogItem.ServiceRef.Label,
			item.CatalogItem.Status)
	}

	_ = table.Render()

	if !allPages && metadata.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", metadata.TotalPages)
	}

	return nil
}

func newCatalogViewsCommand() *cobra.Command {
	var (
		allPages    bool
		pageSize    int
		serviceID   string
		onBehalfOf  string
		subtenantID string
	)

	cmd := &cobra.Command{
		Use:   "views",
		Short: "List entitled catalog item views",
		Long:  "List the flattened per-user catalog item views with their request links",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogViewsCommand(cmd, allPages, pageSize, serviceID, onBehalfOf, subtenantID)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&serviceID, "service", "", "only items published by the given service ID")
	cmd.Flags().StringVar(&onBehalfOf, "on-behalf-of", "", "list the catalog as the given user")
	cmd.Flags().StringVar(&subtenantID, "subtenant", "", "only items requestable in the given business group ID")

	return cmd
}

func runCatalogViewsCommand(cmd *cobra.Command, allPages bool, pageSize int, serviceID, onBehalfOf, subtenantID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	params := vra.NewQueryParams().WithLimit(pageSize)
	applyCatalogScope(params, serviceID, onBehalfOf, subtenantID)

	if allPages {
		views, err := client.Catalog().ListAllEntitledItemViews(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list catalog item views: %w", err)
		}

		return outputCatalogViews(views, vra.PageMetadata{TotalPages: 1}, true)
	}

	views, err := client.Catalog().ListEntitledItemViews(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list catalog item views: %w", err)
	}

	return outputCatalogViews(views.Content, views.Metadata, allPages)
}

func outputCatalogViews(views []vra.CatalogItemView, metadata vra.PageMetadata, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(views)
	case OutputFormatYAML:
		return StandardYAMLRenderer(views)
	default:
		return renderCatalogViewsTable(views, metadata, allPages)
	}
}

func renderCatalogViewsTable(views []vra.CatalogItemView, metadata vra.PageMetadata, allPages bool) error {
	if len(views) == 0 {
		_, _ = os.Stdout.WriteString("No entitled catalog item views found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Catalog Item ID", "Type", "Service")

	for _, view := range views {
		_ = table.Append(view.Name, view.CatalogItemID,
			view.CatalogItemTypeRef.Label, view.ServiceRef.Label)
	}

	_ = table.Render()

	if !allPages && metadata.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", metadata.TotalPages)
	}

	return nil
}

func newCatalogGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ITEM_NAME_OR_ID",
		Short: "Get catalog item details",
		Long:  "Display detailed information about a specific entitled catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogGetCommand(cmd, args[0])
		},
	}
}

func runCatalogGetCommand(cmd *cobra.Command, nameOrID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	item, err := findCatalogItemByNameOrID(ctx, client, nameOrID)
	if err != nil {
		return err
	}

	handled, err := renderStructured(item)
	if handled {
		return err
	}

	return renderCatalogItemDetailsTable(item)
}

func findCatalogItemByNameOrID(ctx context.Context, client vra.Client, nameOrID string) (*vra.EntitledCatalogItem, error) {
	catalogClient := client.Catalog()

	item, err := catalogClient.GetItem(ctx, nameOrID)
	if err == nil {
		return item, nil
	}

	item, err = catalogClient.GetItemByName(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog item '%s': %w", nameOrID, err)
	}

	return item, nil
}

func renderCatalogItemDetailsTable(item *vra.EntitledCatalogItem) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", item.CatalogItem.Name)
	_ = table.Append("ID", item.CatalogItem.ID)
	_ = table.Append("Description", formatConfigValue(item.CatalogItem.Description))
	_ = table.Append("Type", item.CatalogItem.CatalogItemTypeRef.Label)
	_ = table.Append("Service", item.CatalogItem.ServiceRef.Label)
	_ = table.Append("Output Type", item.CatalogItem.OutputResourceTypeRef.Label)
	_ = table.Append("Status", item.CatalogItem.Status)
	_ = table.Append("Requestable", fmt.Sprintf("%v", item.CatalogItem.Requestable))
	_ = table.Append("Created", formatTime(item.CatalogItem.DateCreated))
	_ = table.Append("Updated", formatTime(item.CatalogItem.LastUpdatedDate))

	_, _ = os.Stdout.WriteString("Catalog item details:\n\n")

	_ = table.Render()

	return nil
}

func newCatalogTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template ITEM_NAME_OR_ID",
		Short: "Show a catalog item request template",
		Long:  "Fetch the server-generated request template for an entitled catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogTemplateCommand(cmd, args[0])
		},
	}
}

func runCatalogTemplateCommand(cmd *cobra.Command, nameOrID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	item, err := findCatalogItemByNameOrID(ctx, client, nameOrID)
	if err != nil {
		return err
	}

	template, err := client.Catalog().GetRequestTemplate(ctx, item.CatalogItem.ID)
	if err != nil {
		return fmt.Errorf("failed to get request template: %w", err)
	}

	handled, err := renderStructured(template)
	if handled {
		return err
	}

	// Templates are free-form documents, so the table format falls back to
	// indented JSON.
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(template)
}

func newCatalogRequestCommand() *cobra.Command {
	var (
		parametersJSON string
		businessGroup  string
		requestedFor   string
		description    string
		reasons        string
		wait           bool
	)

	cmd := &cobra.Command{
		Use:   "request ITEM_NAME_OR_ID",
		Short: "Request a catalog item",
		Long:  "Fetch the request template for a catalog item, apply overrides, and submit it for provisioning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogRequestCommand(cmd, args[0], parametersJSON, businessGroup, requestedFor, description, reasons, wait)
		},
	}

	cmd.Flags().StringVar(&parametersJSON, "parameters", "", "JSON document merged into the request template")
	cmd.Flags().StringVar(&businessGroup, "business-group", "", "business group to provision into (name or ID, defaults to the configured business_group)")
	cmd.Flags().StringVar(&requestedFor, "requested-for", "", "user the request is made on behalf of")
	cmd.Flags().StringVar(&description, "description", "", "request description")
	cmd.Flags().StringVar(&reasons, "reasons", "", "request justification")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the request reaches a terminal state")

	return cmd
}

func runCatalogRequestCommand(cmd *cobra.Command, nameOrID, parametersJSON, businessGroup, requestedFor, description, reasons string, wait bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	item, err := findCatalogItemByNameOrID(ctx, client, nameOrID)
	if err != nil {
		return err
	}

	template, err := client.Catalog().GetRequestTemplate(ctx, item.CatalogItem.ID)
	if err != nil {
		return fmt.Errorf("failed to get request template: %w", err)
	}

	parameters, err := parseParametersJSON(parametersJSON)
	if err != nil {
		return err
	}

	if template == nil {
		template = vra.Template{}
	}

	// A partial override keeps the template's remaining defaults; keys the
	// server did not offer are dropped.
	template = template.ApplyPatch(parameters)

	// The server template carries the requesting user's default group. The
	// flag always replaces it; the configured default only applies when
	// --parameters did not set a group either.
	groupRef := businessGroup
	if groupRef == "" {
		if _, overridden := parameters["businessGroupId"]; !overridden {
			groupRef = defaultBusinessGroupRef(cmd.Flag("api").Value.String())
		}
	}

	if groupRef != "" {
		group, err := findBusinessGroupByNameOrID(ctx, client, groupRef)
		if err != nil {
			return err
		}

		template["businessGroupId"] = group.ID
	}

	if requestedFor != "" {
		template["requestedFor"] = requestedFor
	}

	if description != "" {
		template["description"] = description
	}

	if reasons != "" {
		template["reasons"] = reasons
	}

	request, err := client.Catalog().SubmitRequest(ctx, item.CatalogItem.ID, template)
	if err != nil {
		return fmt.Errorf("failed to submit request: %w", err)
	}

	fmt.Printf("Request %s submitted for '%s' (state %s)\n", request.ID, item.CatalogItem.Name, request.State)

	if !wait {
		return nil
	}

	return waitForRequest(ctx, client, request.ID)
}

// applyCatalogScope adds the optional scoping parameters the entitled
// catalog endpoints accept.
func applyCatalogScope(params *vra.QueryParams, serviceID, onBehalfOf, subtenantID string) {
	if serviceID != "" {
		params.WithParam("serviceId", serviceID)
	}

	if onBehalfOf != "" {
		params.WithParam("onBehalfOf", onBehalfOf)
	}

	if subtenantID != "" {
		params.WithParam("subtenantId", subtenantID)
	}
}

// defaultBusinessGroupRef returns the configured default business group for
// the targeted API, preferring the stored ID over the stored name.
func defaultBusinessGroupRef(apiFlag string) string {
	apiConfig, err := getAPIConfigByFlag(apiFlag)
	if err != nil {
		return ""
	}

	if apiConfig.BusinessGroupID != "" {
		return apiConfig.BusinessGroupID
	}

	return apiConfig.BusinessGroup
}

func waitForRequest(ctx context.Context, client vra.Client, requestID string) error {
	fmt.Printf("Waiting for request %s to complete...\n", requestID)

	request, err := client.Requests().PollUntilComplete(ctx, requestID)
	if err != nil {
		return fmt.Errorf("request did not complete: %w", err)
	}

	fmt.Printf("Request %s finished with state %s\n", request.ID, request.State)

	if request.RequestCompletion != nil && request.RequestCompletion.CompletionDetails != "" {
		fmt.Printf("Completion details: %s\n", request.RequestCompletion.CompletionDetails)
	}

	return nil
}
