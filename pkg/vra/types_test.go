package vra_test

import (
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_JSONUnmarshaling(t *testing.T) {
	t.Parallel()

	body := `{
		"links": [
			{"@type": "link", "rel": "next", "href": "https://vra.example.com/identity/api/tenants/vsphere.local/subtenants?page=2"}
		],
		"content": [
			{"id": "group-1", "name": "Development", "description": "Dev group", "tenant": "vsphere.local"},
			{"id": "group-2", "name": "Operations", "description": "", "tenant": "vsphere.local"}
		],
		"metadata": {"size": 20, "totalElements": 42, "totalPages": 3, "number": 1, "offset": 0}
	}`

	var page vra.Page[vra.BusinessGroup]

	err := json.Unmarshal([]byte(body), &page)
	require.NoError(t, err)

	require.Len(t, page.Content, 2)
	assert.Equal(t, "group-1", page.Content[0].ID)
	assert.Equal(t, "Development", page.Content[0].Name)
	assert.Equal(t, "vsphere.local", page.Content[1].Tenant)

	assert.Equal(t, 42, page.Metadata.TotalElements)
	assert.Equal(t, 3, page.Metadata.TotalPages)
	assert.Equal(t, 1, page.Metadata.Number)

	require.Len(t, page.Links, 1)
	assert.Equal(t, "next", page.Links[0].Rel)
}

func TestDeployment_Operation(t *testing.T) {
	t.Parallel()

	deployment := &vra.Deployment{
		Kind: vra.KindDeployment,
		Name: "web-cluster",
		Operations: []vra.Operation{
			{Name: "Destroy", ID: "op-1"},
			{Name: "Scale Out", ID: "op-2"},
		},
	}

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		operation, err := deployment.Operation("Scale Out")
		require.NoError(t, err)
		assert.Equal(t, "op-2", operation.ID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := deployment.Operation("Power On")
		require.Error(t, err)
		assert.True(t, vra.IsNotFound(err))
		assert.Contains(t, err.Error(), "Power On")
	})

	t.Run("names match exactly", func(t *testing.T) {
		t.Parallel()

		_, err := deployment.Operation("scale out")
		assert.Error(t, err)
	})
}

func TestDeployment_Walk(t *testing.T) {
	t.Parallel()

	tree := &vra.Deployment{
		Kind: vra.KindDeployment,
		Name: "deployment",
		Children: []*vra.Deployment{
			{
				Kind: vra.KindVirtualMachine,
				Name: "vm-1",
				Children: []*vra.Deployment{
					{Kind: vra.KindNetwork, Name: "net-1"},
				},
			},
			{Kind: vra.KindLoadBalancer, Name: "lb-1"},
		},
	}

	var names []string

	var depths []int

	tree.Walk(func(node *vra.Deployment, depth int) {
		names = append(names, node.Name)
		depths = append(depths, depth)
	})

	// Depth-first: each child subtree is finished before its sibling starts
	assert.Equal(t, []string{"deployment", "vm-1", "net-1", "lb-1"}, names)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestDeployment_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	deployment := &vra.Deployment{
		Kind:            vra.KindDeployment,
		ID:              "res-1",
		Name:            "web-cluster",
		BusinessGroupID: "group-1",
		Operations: []vra.Operation{
			{Name: "Destroy", ID: "op-1", TemplateURL: "/catalog-service/api/consumer/resources/res-1/actions/op-1/requests/template"},
		},
		Children: []*vra.Deployment{
			{Kind: vra.KindVirtualMachine, ID: "res-2", Name: "vm-1"},
		},
		SkippedChildren: []string{"Infrastructure.Network.LoadBalancer.F5"},
	}

	data, err := json.Marshal(deployment)
	require.NoError(t, err)

	var decoded vra.Deployment

	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, vra.KindDeployment, decoded.Kind)
	require.Len(t, decoded.Children, 1)
	assert.Equal(t, vra.KindVirtualMachine, decoded.Children[0].Kind)
	assert.Equal(t, []string{"Infrastructure.Network.LoadBalancer.F5"}, decoded.SkippedChildren)
}

func TestLease_JSONUnmarshaling(t *testing.T) {
	t.Parallel()

	t.Run("with end date", func(t *testing.T) {
		t.Parallel()

		var lease vra.Lease

		err := json.Unmarshal([]byte(`{"start": "2024-01-01T00:00:00Z", "end": "2024-01-08T00:00:00Z"}`), &lease)
		require.NoError(t, err)
		require.NotNil(t, lease.End)
		assert.Equal(t, 7*24.0, lease.End.Sub(lease.Start).Hours())
	})

	t.Run("without end date", func(t *testing.T) {
		t.Parallel()

		var lease vra.Lease

		err := json.Unmarshal([]byte(`{"start": "2024-01-01T00:00:00Z"}`), &lease)
		require.NoError(t, err)
		assert.Nil(t, lease.End)
	})
}
