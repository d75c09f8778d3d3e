package commands

import (
	"fmt"
	"os"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewEventsCommand creates the events command group.
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse event broker events",
		Long:  "List events recorded by the event broker service",
	}

	cmd.AddCommand(newEventsListCommand())

	return cmd
}

func newEventsListCommand() *cobra.Command {
	var (
		allPages bool
		pageSize int
		topicID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Long:  "List event broker events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventsListCommand(cmd, allPages, pageSize, topicID)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&topicID, "topic", "", "only events published on the given topic ID")

	return cmd
}

func runEventsListCommand(cmd *cobra.Command, allPages bool, pageSize int, topicID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	params := vra.NewQueryParams().WithLimit(pageSize)
	if topicID != "" {
		params.WithFilter(vra.FilterEq("eventTopicId", topicID))
	}

	if allPages {
		events, err := client.Events().ListAll(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		return outputEvents(events, vra.PageMetadata{TotalPages: 1}, true)
	}

	events, err := client.Events().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	return outputEvents(events.Content, events.Metadata, allPages)
}

func outputEvents(events []vra.Event, metadata vra.PageMetadata, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(events)
	case OutputFormatYAML:
		return StandardYAMLRenderer(events)
	default:
		return renderEventsTable(events, metadata, allPages)
	}
}

func renderEventsTable(events []vra.Event, metadata vra.PageMetadata, allPages bool) error {
	if len(events) == 0 {
		_, _ = os.Stdout.WriteString("No events found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Timestamp", "Topic", "Type", "User", "Target")

	for _, event := range events {
		target := event.TargetID
		if event.TargetType != "" {
			target = event.TargetType + "/" + event.TargetID
		}

		_ = table.Append(formatTime(event.TimeStamp), event.EventTopicID,
			formatConfigValue(event.EventType), event.UserName, formatConfigValue(target))
	}

	_ = table.Render()

	if !allPages && metadata.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", metadata.TotalPages)
	}

	return nil
}
