package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewReservationsCommand creates the reservations command group.
func NewReservationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reservations",
		Aliases: []string{"reservation"},
		Short:   "Manage reservations",
		Long:    "List, inspect, and clone reservation-service allocations",
	}

	cmd.AddCommand(newReservationsListCommand())
	cmd.AddCommand(newReservationsInfoCommand())
	cmd.AddCommand(newReservationsGetCommand())
	cmd.AddCommand(newReservationsCloneCommand())

	return cmd
}

func newReservationsListCommand() *cobra.Command {
	var (
		allPages bool
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reservations",
		Long:  "List the reservations configured in the tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReservationsListCommand(cmd, allPages, pageSize)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.StandardPageSize, "results per page")

	return cmd
}

func runReservationsListCommand(cmd *cobra.Command, allPages bool, pageSize int) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	params := vra.NewQueryParams().WithLimit(pageSize)

	if allPages {
		reservations, err := client.Reservations().ListAll(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list reservations: %w", err)
		}

		return outputReservations(reservations, vra.PageMetadata{TotalPages: 1}, true)
	}

	reservations, err := client.Reservations().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list reservations: %w", err)
	}

	return outputReservations(reservations.Content, reservations.Metadata, allPages)
}

func outputReservations(reservations []vra.Reservation, metadata vra.PageMetadata, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(reservations)
	case OutputFormatYAML:
		return StandardYAMLRenderer(reservations)
	default:
		return renderReservationsTable(reservations, metadata, allPages)
	}
}

func renderReservationsTable(reservations []vra.Reservation, metadata vra.PageMetadata, allPages bool) error {
	if len(reservations) == 0 {
		_, _ = os.Stdout.WriteString("No reservations found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "ID", "Type", "Business Group", "Enabled", "Priority")

	for _, reservation := range reservations {
		_ = table.Append(reservation.Name, reservation.ID,
			reservation.ReservationTypeID, reservation.SubTenantID,
			strconv.FormatBool(reservation.Enabled),
			strconv.Itoa(reservation.Priority))
	}

	_ = table.Render()

	if !allPages && metadata.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page 1 of %d. Use --all to fetch all pages.\n", metadata.TotalPages)
	}

	return nil
}

func newReservationsInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show raw reservation listing",
		Long:  "Display the unparsed reservation documents the reservation service returns",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			info, err := client.Reservations().ListInfo(commandContext())
			if err != nil {
				return fmt.Errorf("failed to get reservation info: %w", err)
			}

			handled, err := renderStructured(info)
			if handled {
				return err
			}

			// Raw documents have no stable columns, so the table format
			// falls back to indented JSON.
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return encoder.Encode(info)
		},
	}
}

func newReservationsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get RESERVATION_ID",
		Short: "Get reservation details",
		Long:  "Display detailed information about a specific reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReservationsGetCommand(cmd, args[0])
		},
	}
}

func runReservationsGetCommand(cmd *cobra.Command, reservationID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	reservation, err := client.Reservations().Get(commandContext(), reservationID)
	if err != nil {
		return fmt.Errorf("failed to get reservation: %w", err)
	}

	handled, err := renderStructured(reservation)
	if handled {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", reservation.Name)
	_ = table.Append("ID", reservation.ID)
	_ = table.Append("Type", reservation.ReservationTypeID)
	_ = table.Append("Tenant", reservation.TenantID)
	_ = table.Append("Business Group", reservation.SubTenantID)
	_ = table.Append("Enabled", strconv.FormatBool(reservation.Enabled))
	_ = table.Append("Priority", strconv.Itoa(reservation.Priority))
	_ = table.Append("Created", formatTime(reservation.CreatedDate))
	_ = table.Append("Updated", formatTime(reservation.LastUpdated))

	_, _ = os.Stdout.WriteString("Reservation details:\n\n")

	_ = table.Render()

	return nil
}

func newReservationsCloneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clone SOURCE_RESERVATION_ID NEW_NAME",
		Short: "Clone a reservation",
		Long:  "Create a new reservation by copying an existing one under a new name",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReservationsCloneCommand(cmd, args[0], args[1])
		},
	}
}

func runReservationsCloneCommand(cmd *cobra.Command, sourceID, newName string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	err = client.Reservations().CreateFromExisting(commandContext(), sourceID, newName)
	if err != nil {
		return fmt.Errorf("failed to clone reservation: %w", err)
	}

	fmt.Printf("Successfully created reservation '%s' from '%s'\n", newName, sourceID)

	return nil
}
