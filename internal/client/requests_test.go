package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	internalhttp "github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog-service/api/consumer/requests", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))

		page := singlePage([]vra.Request{
			{ID: "request-1-guid", State: "SUCCESSFUL", RequestNumber: 41},
			{ID: "request-2-guid", State: "IN_PROGRESS", RequestNumber: 42},
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), nil)

	page, err := requests.List(context.Background(), vra.NewQueryParams().WithLimit(20))
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 42, page.Content[1].RequestNumber)
}

func TestRequestsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog-service/api/consumer/requests/request-guid", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		request := vra.Request{
			ID:                "request-guid",
			State:             "IN_PROGRESS",
			StateName:         "In Progress",
			Phase:             "IN_PROGRESS",
			RequestedItemName: "CentOS 7",
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(request)
	}))
	defer server.Close()

	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), nil)

	request, err := requests.Get(context.Background(), "request-guid")
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", request.State)
	assert.Equal(t, "In Progress", request.StateName)
	assert.Equal(t, "CentOS 7", request.RequestedItemName)
}

func TestRequestsClient_GetResourceViews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog-service/api/consumer/requests/request-guid/resourceViews", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		page := singlePage([]vra.ResourceView{
			{
				ResourceID:   "resource-deployment-guid",
				Name:         "CentOS 7-90125",
				ResourceType: "composition.resource.type.deployment",
				RequestID:    "request-guid",
			},
			{
				ResourceID:       "resource-vm-guid",
				Name:             "machine-0001",
				ResourceType:     "Infrastructure.Virtual",
				ParentResourceID: "resource-deployment-guid",
			},
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), nil)

	page, err := requests.GetResourceViews(context.Background(), "request-guid")
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, "composition.resource.type.deployment", page.Content[0].ResourceType)
	assert.Equal(t, "resource-deployment-guid", page.Content[1].ParentResourceID)
}

func TestRequestsClient_PollUntilComplete_Success(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog-service/api/consumer/requests/request-guid", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		attempts++

		request := vra.Request{ID: "request-guid"}

		// Simulate the request moving through the provisioning lifecycle
		switch {
		case attempts == 1:
			request.State = "SUBMITTED"
			request.StateName = "Submitted"
		case attempts <= 3:
			request.State = "IN_PROGRESS"
			request.StateName = "In Progress"
			request.Phase = "IN_PROGRESS"
		default:
			request.State = "SUCCESSFUL"
			request.StateName = "Successful"
			request.Phase = "SUCCESSFUL"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(request)
	}))
	defer server.Close()

	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), nil)

	// Use a shorter poll interval for testing
	requests.pollInterval = 10 * time.Millisecond

	request, err := requests.PollUntilComplete(context.Background(), "request-guid")
	require.NoError(t, err)
	assert.NotNil(t, request)
	assert.Equal(t, "SUCCESSFUL", request.State)
	assert.Equal(t, 4, attempts)
}

func TestRequestsClient_PollUntilComplete_ProviderFailed(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++

		request := vra.Request{ID: "request-guid"}

		if attempts <= 1 {
			request.State = "IN_PROGRESS"
			request.StateName = "In Progress"
		} else {
			request.State = "PROVIDER_FAILED"
			request.StateName = "Failed"
			request.RequestCompletion = &vra.RequestCompletion{
				RequestCompletionState: "FAILED",
				CompletionDetails:      "No reservation available to allocate the machine.",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(request)
	}))
	defer server.Close()

	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), nil)

	// Use a shorter poll interval for testing
	requests.pollInterval = 10 * time.Millisecond

	request, err := requests.PollUntilComplete(context.Background(), "request-guid")
	require.Error(t, err)
	assert.True(t, vra.IsProvisioningFailed(err))
	assert.Contains(t, err.Error(), "request entered state PROVIDER_FAILED")

	provisioningErr := &vra.ProvisioningError{}
	require.True(t, errors.As(err, &provisioningErr))
	assert.Equal(t, "PROVIDER_FAILED", provisioningErr.State)
	assert.Equal(t, "No reservation available to allocate the machine.",
		provisioningErr.Request.RequestCompletion.CompletionDetails)

	// The last body comes back alongside the error
	assert.NotNil(t, request)
	assert.Equal(t, "PROVIDER_FAILED", request.State)
}

func TestRequestsClient_PollUntilComplete_AlreadyComplete(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++

		request := vra.Request{ID: "request-guid", State: "SUCCESSFUL", StateName: "Successful"}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(request)
	}))
	defer server.Close()

	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), nil)

	request, err := requests.PollUntilComplete(context.Background(), "request-guid")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESSFUL", request.State)
	assert.Equal(t, 1, attempts)
}

func TestRequestsClient_PollUntilComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always return IN_PROGRESS
		request := vra.Request{ID: "request-guid", State: "IN_PROGRESS", StateName: "In Progress"}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(request)
	}))
	defer server.Close()

	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), nil)

	// Use a shorter poll interval and timeout for testing
	requests.pollInterval = 10 * time.Millisecond
	requests.pollTimeout = 50 * time.Millisecond

	request, err := requests.PollUntilComplete(context.Background(), "request-guid")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context deadline exceeded"),
		"Expected timeout error, got: %v", err)

	if request != nil {
		assert.Equal(t, "IN_PROGRESS", request.State)
	}
}

func TestRequestsClient_PollUntilComplete_LogsEveryPoll(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++

		request := vra.Request{ID: "request-guid"}

		switch {
		case attempts <= 3:
			request.State = "IN_PROGRESS"
			request.StateName = "In Progress"
			request.Phase = "IN_PROGRESS"
		default:
			request.State = "SUCCESSFUL"
			request.StateName = "Successful"
			request.Phase = "SUCCESSFUL"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(request)
	}))
	defer server.Close()

	logger := &recordingLogger{}
	requests := NewRequestsClient(internalhttp.NewClient(server.URL, nil), logger)
	requests.pollInterval = 10 * time.Millisecond

	_, err := requests.PollUntilComplete(context.Background(), "request-guid")
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)

	// Every poll reports state and phase, repeated states included
	require.Len(t, logger.entries, 4)
	assert.Equal(t, "In Progress", logger.entries[0].fields["state"])
	assert.Equal(t, "In Progress", logger.entries[2].fields["state"])
	assert.Equal(t, "IN_PROGRESS", logger.entries[2].fields["phase"])
	assert.Equal(t, "Successful", logger.entries[3].fields["state"])
}

type loggedEntry struct {
	msg    string
	fields map[string]interface{}
}

// recordingLogger captures log entries for assertions.
type recordingLogger struct {
	entries []loggedEntry
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record(msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record(msg, fields) }

func (l *recordingLogger) record(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, loggedEntry{msg: msg, fields: fields})
}
