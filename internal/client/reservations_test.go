package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	internalhttp "github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reservation-service/api/reservations", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		page := singlePage([]vra.Reservation{
			{
				ID:                "reservation-dev-guid",
				Name:              "Dev-Cluster01",
				ReservationTypeID: "Infrastructure.Reservation.Virtual.vSphere",
				TenantID:          "vsphere.local",
				SubTenantID:       "group-dev-guid",
				Enabled:           true,
				Priority:          1,
			},
			{
				ID:          "reservation-prod-guid",
				Name:        "Prod-Cluster01",
				TenantID:    "vsphere.local",
				SubTenantID: "group-prod-guid",
				Enabled:     true,
				Priority:    2,
			},
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	reservations := NewReservationsClient(internalhttp.NewClient(server.URL, nil))

	page, err := reservations.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, "Dev-Cluster01", page.Content[0].Name)
	assert.Equal(t, "group-dev-guid", page.Content[0].SubTenantID)
	assert.True(t, page.Content[0].Enabled)
}

func TestReservationsClient_ListInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reservation-service/api/reservations/info", r.URL.Path)

		info := map[string]interface{}{
			"links": []interface{}{},
			"content": []interface{}{
				map[string]interface{}{
					"reservationTypeId": "Infrastructure.Reservation.Virtual.vSphere",
					"schemaClassId":     "Infrastructure.Reservation.Virtual.vSphere",
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	}))
	defer server.Close()

	reservations := NewReservationsClient(internalhttp.NewClient(server.URL, nil))

	info, err := reservations.ListInfo(context.Background())
	require.NoError(t, err)

	content := info["content"].([]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "Infrastructure.Reservation.Virtual.vSphere", content[0].(map[string]interface{})["reservationTypeId"])
}

func TestReservationsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reservation-service/api/reservations/reservation-dev-guid", r.URL.Path)

		reservation := vra.Reservation{
			ID:          "reservation-dev-guid",
			Name:        "Dev-Cluster01",
			TenantID:    "vsphere.local",
			SubTenantID: "group-dev-guid",
			Enabled:     true,
			ExtensionData: map[string]interface{}{
				"computeResource": map[string]interface{}{"id": "cluster01-guid", "label": "Cluster01"},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reservation)
	}))
	defer server.Close()

	reservations := NewReservationsClient(internalhttp.NewClient(server.URL, nil))

	reservation, err := reservations.Get(context.Background(), "reservation-dev-guid")
	require.NoError(t, err)
	assert.Equal(t, "Dev-Cluster01", reservation.Name)
	assert.NotNil(t, reservation.ExtensionData["computeResource"])
}

func TestReservationsClient_CreateFromExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case "GET":
			assert.Equal(t, "/reservation-service/api/reservations/reservation-dev-guid", r.URL.Path)

			document := map[string]interface{}{
				"id":          "reservation-dev-guid",
				"name":        "Dev-Cluster01",
				"tenantId":    "vsphere.local",
				"subTenantId": "group-dev-guid",
				"enabled":     true,
				"priority":    1,
				"extensionData": map[string]interface{}{
					"computeResource": map[string]interface{}{"id": "cluster01-guid"},
				},
			}
			_ = json.NewEncoder(w).Encode(document)

		case "POST":
			assert.Equal(t, "/reservation-service/api/reservations", r.URL.Path)

			var document map[string]interface{}

			err := json.NewDecoder(r.Body).Decode(&document)
			require.NoError(t, err)

			// The source id must be nulled out so the server assigns a new one
			value, present := document["id"]
			assert.True(t, present)
			assert.Nil(t, value)
			assert.Equal(t, "Dev-Cluster02", document["name"])
			assert.Equal(t, "group-dev-guid", document["subTenantId"])
			assert.NotNil(t, document["extensionData"])

			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	reservations := NewReservationsClient(internalhttp.NewClient(server.URL, nil))

	err := reservations.CreateFromExisting(context.Background(), "reservation-dev-guid", "Dev-Cluster02")
	require.NoError(t, err)
}

func TestReservationsClient_CreateFromExisting_SourceMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"code":10101,"message":"Reservation not found."}]}`))
	}))
	defer server.Close()

	reservations := NewReservationsClient(internalhttp.NewClient(server.URL, nil))

	err := reservations.CreateFromExisting(context.Background(), "missing-guid", "Dev-Cluster02")
	require.Error(t, err)
	assert.True(t, vra.IsNotFound(err))
}
