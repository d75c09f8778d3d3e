package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRequestsCommand creates the requests command group.
func NewRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"request", "reqs"},
		Short:   "Manage provisioning requests",
		Long:    "List, inspect, and watch catalog provisioning requests",
	}

	cmd.AddCommand(newRequestsListCommand())
	cmd.AddCommand(newRequestsGetCommand())
	cmd.AddCommand(newRequestsWatchCommand())
	cmd.AddCommand(newRequestsResourceViewsCommand())

	return cmd
}

func newRequestsListCommand() *cobra.Command {
	var (
		allPages bool
		pageSize int
		filter   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List provisioning requests",
		Long:  "List catalog requests visible to the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestsListCommand(cmd, allPages, pageSize, filter)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&filter, "filter", "", "OData $filter expression, e.g. \"state eq 'SUCCESSFUL'\"")

	return cmd
}

func runRequestsListCommand(cmd *cobra.Command, allPages bool, pageSize int, filter string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	params := vra.NewQueryParams().WithLimit(pageSize)
	if filter != "" {
		params.WithFilter(filter)
	}

	if allPages {
		requests, err := client.Requests().ListAll(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list requests: %w", err)
		}

		return outputRequests(requests, vra.PageMetadata{TotalPages: 1}, true)
	}

	requests, err := client.Requests().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	return outputRequests(requests.Content, requests.Metadata, allPages)
}

func outputRequests(requests []vra.Request, metadata vra.PageMetadata, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(requests)
	case OutputFormatYAML:
		return StandardYAMLRenderer(requests)
	default:
		return renderRequestsTable(requests, metadata, allPages)
	}
}

func renderRequestsTable(requests []vra.Request, metadata vra.PageMetadata, allPages bool) error {
	if len(requests) == 0 {
		_, _ = os.Stdout.WriteString("No requests found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Number", "ID", "Item", "State", "Requested By", "Created")

	for _, request := range requests {
		_ = table.Append(strconv.Itoa(request.RequestNumber), request.ID,
			request.RequestedItemName, request.State,
			request.RequestedBy, formatDate(request.DateCreated))
	}

	_ = table.Render()

	if !allPages && metadata.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", metadata.TotalPages)
	}

	return nil
}

func newRequestsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REQUEST_ID",
		Short: "Get request details",
		Long:  "Display detailed information about a specific provisioning request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestsGetCommand(cmd, args[0])
		},
	}
}

func runRequestsGetCommand(cmd *cobra.Command, requestID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	request, err := client.Requests().Get(commandContext(), requestID)
	if err != nil {
		return fmt.Errorf("failed to get request: %w", err)
	}

	handled, err := renderStructured(request)
	if handled {
		return err
	}

	return renderRequestDetailsTable(request)
}

func renderRequestDetailsTable(request *vra.Request) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", request.ID)
	_ = table.Append("Number", strconv.Itoa(request.RequestNumber))
	_ = table.Append("Item", request.RequestedItemName)
	_ = table.Append("State", request.State)
	_ = table.Append("Phase", formatConfigValue(request.Phase))
	_ = table.Append("Requested By", request.RequestedBy)
	_ = table.Append("Requested For", request.RequestedFor)
	_ = table.Append("Business Group", formatConfigValue(request.Organization.SubtenantLabel))
	_ = table.Append("Submitted", formatTime(request.DateSubmitted))

	if request.DateCompleted != nil {
		_ = table.Append("Completed", formatTime(*request.DateCompleted))
	}

	if request.RequestCompletion != nil {
		_ = table.Append("Completion State", request.RequestCompletion.RequestCompletionState)

		if request.RequestCompletion.CompletionDetails != "" {
			_ = table.Append("Completion Details", request.RequestCompletion.CompletionDetails)
		}
	}

	if request.Reasons != "" {
		_ = table.Append("Reasons", request.Reasons)
	}

	_, _ = os.Stdout.WriteString("Request details:\n\n")

	_ = table.Render()

	return nil
}

func newRequestsWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch REQUEST_ID",
		Short: "Watch a request until it completes",
		Long:  "Poll a provisioning request until it reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			return waitForRequest(commandContext(), client, args[0])
		},
	}
}

func newRequestsResourceViewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resource-views REQUEST_ID",
		Short: "List resources provisioned by a request",
		Long:  "Display the resource views recorded for a provisioning request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestsResourceViewsCommand(cmd, args[0])
		},
	}
}

func runRequestsResourceViewsCommand(cmd *cobra.Command, requestID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	views, err := client.Requests().GetResourceViews(commandContext(), requestID)
	if err != nil {
		return fmt.Errorf("failed to get resource views: %w", err)
	}

	handled, err := renderStructured(views.Content)
	if handled {
		return err
	}

	return renderResourceViewsTable(views.Content)
}

func renderResourceViewsTable(views []vra.ResourceView) error {
	if len(views) == 0 {
		_, _ = os.Stdout.WriteString("No resource views found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Resource ID", "Type", "Status", "Parent")

	for _, view := range views {
		_ = table.Append(view.Name, view.ResourceID, view.ResourceType,
			view.Status, formatConfigValue(view.ParentResourceID))
	}

	_ = table.Render()

	return nil
}
