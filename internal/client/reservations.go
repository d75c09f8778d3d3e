package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// ReservationsClient implements vra.ReservationsClient.
type ReservationsClient struct {
	httpClient *http.Client
}

// NewReservationsClient creates a new reservations client.
func NewReservationsClient(httpClient *http.Client) *ReservationsClient {
	return &ReservationsClient{
		httpClient: httpClient,
	}
}

// List implements vra.ReservationsClient.List.
func (c *ReservationsClient) List(ctx context.Context, params *vra.QueryParams) (*vra.Page[vra.Reservation], error) {
	path := "/reservation-service/api/reservations"

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	var page vra.Page[vra.Reservation]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing reservations list: %w", err)
	}

	return &page, nil
}

// ListAll implements vra.ReservationsClient.ListAll.
func (c *ReservationsClient) ListAll(ctx context.Context, params *vra.QueryParams) ([]vra.Reservation, error) {
	return vra.FetchAllPages(ctx, c.List, params)
}

// ListInfo implements vra.ReservationsClient.ListInfo. The info endpoint
// reports capacity and allocation percentages in a provider-specific shape,
// so the document is returned undecoded.
func (c *ReservationsClient) ListInfo(ctx context.Context) (map[string]interface{}, error) {
	path := "/reservation-service/api/reservations/info"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing reservations info: %w", err)
	}

	var info map[string]interface{}

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing reservations info: %w", err)
	}

	return info, nil
}

// Get implements vra.ReservationsClient.Get.
func (c *ReservationsClient) Get(ctx context.Context, reservationID string) (*vra.Reservation, error) {
	path := "/reservation-service/api/reservations/" + reservationID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting reservation: %w", err)
	}

	var reservation vra.Reservation

	err = json.Unmarshal(resp.Body, &reservation)
	if err != nil {
		return nil, fmt.Errorf("parsing reservation: %w", err)
	}

	return &reservation, nil
}

// CreateFromExisting implements vra.ReservationsClient.CreateFromExisting.
// The source reservation is fetched as a raw document so every
// provider-specific field round-trips, its id is cleared, the name is
// replaced, and the result is posted back to the collection. The business
// group assignment stays whatever the source carried. The server responds
// with an empty body on success.
func (c *ReservationsClient) CreateFromExisting(ctx context.Context, existingID, newName string) error {
	resp, err := c.httpClient.Get(ctx, "/reservation-service/api/reservations/"+existingID, nil)
	if err != nil {
		return fmt.Errorf("getting source reservation: %w", err)
	}

	var document map[string]interface{}

	err = json.Unmarshal(resp.Body, &document)
	if err != nil {
		return fmt.Errorf("parsing source reservation: %w", err)
	}

	document["id"] = nil
	document["name"] = newName

	_, err = c.httpClient.Post(ctx, "/reservation-service/api/reservations", document)
	if err != nil {
		return fmt.Errorf("creating reservation: %w", err)
	}

	return nil
}
