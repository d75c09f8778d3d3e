package vra_test

import (
	"net/url"
	"testing"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *vra.QueryParams
		expected url.Values
	}{
		{
			name:     "empty params",
			params:   vra.NewQueryParams(),
			expected: url.Values{},
		},
		{
			name: "with pagination",
			params: &vra.QueryParams{
				Page:  2,
				Limit: 50,
			},
			expected: url.Values{
				"page":  []string{"2"},
				"limit": []string{"50"},
			},
		},
		{
			name: "with filter",
			params: &vra.QueryParams{
				Filter: "state eq 'SUCCESSFUL'",
			},
			expected: url.Values{
				"$filter": []string{"state eq 'SUCCESSFUL'"},
			},
		},
		{
			name: "with extra params",
			params: &vra.QueryParams{
				Extra: map[string]string{
					"serviceId":   "service-1",
					"managedOnly": "true",
				},
			},
			expected: url.Values{
				"serviceId":   []string{"service-1"},
				"managedOnly": []string{"true"},
			},
		},
		{
			name: "with all options",
			params: &vra.QueryParams{
				Page:   3,
				Limit:  25,
				Filter: "name eq 'web'",
				Extra: map[string]string{
					"withExtendedData": "true",
				},
			},
			expected: url.Values{
				"page":             []string{"3"},
				"limit":            []string{"25"},
				"$filter":          []string{"name eq 'web'"},
				"withExtendedData": []string{"true"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tt.params.ToValues()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestQueryParams_Builders(t *testing.T) {
	t.Parallel()
	t.Run("chaining methods", func(t *testing.T) {
		t.Parallel()

		params := vra.NewQueryParams().
			WithPage(2).
			WithLimit(100).
			WithFilter(vra.FilterEq("status", "ACTIVE")).
			WithParam("role", "CSP_CONSUMER").
			WithParam("expandGroups", "true")

		values := params.ToValues()

		assert.Equal(t, "2", values.Get("page"))
		assert.Equal(t, "100", values.Get("limit"))
		assert.Equal(t, "status eq 'ACTIVE'", values.Get("$filter"))
		assert.Equal(t, "CSP_CONSUMER", values.Get("role"))
		assert.Equal(t, "true", values.Get("expandGroups"))
	})

	t.Run("WithParam initializes the map", func(t *testing.T) {
		t.Parallel()

		params := &vra.QueryParams{}
		params.WithParam("serviceId", "service-1")

		assert.Equal(t, "service-1", params.Extra["serviceId"])
	})

	t.Run("WithParam replaces", func(t *testing.T) {
		t.Parallel()

		params := vra.NewQueryParams().
			WithParam("role", "CSP_CONSUMER").
			WithParam("role", "CSP_SUBTENANT_MANAGER")

		assert.Equal(t, "CSP_SUBTENANT_MANAGER", params.Extra["role"])
	})

	t.Run("zero values are omitted", func(t *testing.T) {
		t.Parallel()

		params := vra.NewQueryParams().WithPage(0).WithLimit(0).WithFilter("")

		assert.Empty(t, params.ToValues())
	})
}

func TestNewQueryParams(t *testing.T) {
	t.Parallel()

	params := vra.NewQueryParams()

	assert.NotNil(t, params)
	assert.NotNil(t, params.Extra)
	assert.Equal(t, 0, params.Page)
	assert.Equal(t, 0, params.Limit)
	assert.Empty(t, params.Filter)
}

func TestFilterEq(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id eq 'abc'", vra.FilterEq("id", "abc"))
	assert.Equal(t, "organization/subTenant/id eq 'group-1'", vra.FilterEq("organization/subTenant/id", "group-1"))
	assert.Equal(t, "name eq ''", vra.FilterEq("name", ""))
}
