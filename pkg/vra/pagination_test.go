package vra_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestResource struct {
	ID   string
	Name string
}

// makePageFetcher returns a PageFunc serving the given pages, mirroring the
// content/metadata envelope collection endpoints return.
func makePageFetcher(pages map[int]*vra.Page[TestResource]) vra.PageFunc[TestResource] {
	return func(_ context.Context, params *vra.QueryParams) (*vra.Page[TestResource], error) {
		page := 1
		if params != nil && params.Page > 0 {
			page = params.Page
		}

		response, ok := pages[page]
		if !ok {
			return &vra.Page[TestResource]{
				Content:  []TestResource{},
				Metadata: vra.PageMetadata{},
			}, nil
		}

		return response, nil
	}
}

func threePages() map[int]*vra.Page[TestResource] {
	return map[int]*vra.Page[TestResource]{
		1: {
			Content: []TestResource{
				{ID: "1", Name: "Resource 1"},
				{ID: "2", Name: "Resource 2"},
			},
			Metadata: vra.PageMetadata{TotalElements: 5, TotalPages: 3, Number: 1},
		},
		2: {
			Content: []TestResource{
				{ID: "3", Name: "Resource 3"},
				{ID: "4", Name: "Resource 4"},
			},
			Metadata: vra.PageMetadata{TotalElements: 5, TotalPages: 3, Number: 2},
		},
		3: {
			Content: []TestResource{
				{ID: "5", Name: "Resource 5"},
			},
			Metadata: vra.PageMetadata{TotalElements: 5, TotalPages: 3, Number: 3},
		},
	}
}

func TestPaginationIterator_HasNext(t *testing.T) {
	fetch := makePageFetcher(map[int]*vra.Page[TestResource]{
		1: {
			Content: []TestResource{
				{ID: "1", Name: "Resource 1"},
				{ID: "2", Name: "Resource 2"},
			},
			Metadata: vra.PageMetadata{TotalElements: 3, TotalPages: 2, Number: 1},
		},
		2: {
			Content: []TestResource{
				{ID: "3", Name: "Resource 3"},
			},
			Metadata: vra.PageMetadata{TotalElements: 3, TotalPages: 2, Number: 2},
		},
	})

	ctx := context.Background()
	iterator := vra.NewPaginationIterator(ctx, fetch, nil)

	// Should have next before any fetch
	assert.True(t, iterator.HasNext())

	// Fetch first item
	item1, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", item1.ID)

	// Should still have next
	assert.True(t, iterator.HasNext())

	// Fetch second item
	item2, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", item2.ID)

	// Should still have next (page 2)
	assert.True(t, iterator.HasNext())

	// Fetch third item
	item3, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "3", item3.ID)

	// Should not have next
	assert.False(t, iterator.HasNext())
}

func TestPaginationIterator_Next_Exhausted(t *testing.T) {
	fetch := makePageFetcher(map[int]*vra.Page[TestResource]{})

	ctx := context.Background()
	iterator := vra.NewPaginationIterator(ctx, fetch, nil)

	_, err := iterator.Next()
	assert.ErrorIs(t, err, vra.ErrNoMoreItems)
}

func TestPaginationIterator_All(t *testing.T) {
	fetch := makePageFetcher(threePages())

	ctx := context.Background()
	iterator := vra.NewPaginationIterator(ctx, fetch, nil)

	allResources, err := iterator.All()
	require.NoError(t, err)
	assert.Len(t, allResources, 5)
	assert.Equal(t, "1", allResources[0].ID)
	assert.Equal(t, "5", allResources[4].ID)
}

func TestPaginationIterator_ForEach(t *testing.T) {
	fetch := makePageFetcher(map[int]*vra.Page[TestResource]{
		1: {
			Content: []TestResource{
				{ID: "1", Name: "Resource 1"},
				{ID: "2", Name: "Resource 2"},
			},
			Metadata: vra.PageMetadata{TotalElements: 2, TotalPages: 1, Number: 1},
		},
	})

	ctx := context.Background()
	iterator := vra.NewPaginationIterator(ctx, fetch, nil)

	var collected []string
	err := iterator.ForEach(func(resource TestResource) error {
		collected = append(collected, resource.ID)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, collected)
}

func TestPaginationIterator_ForEach_StopsOnError(t *testing.T) {
	fetch := makePageFetcher(threePages())
	errStop := errors.New("stop here")

	ctx := context.Background()
	iterator := vra.NewPaginationIterator(ctx, fetch, nil)

	visited := 0
	err := iterator.ForEach(func(_ TestResource) error {
		visited++
		if visited == 2 {
			return errStop
		}
		return nil
	})

	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 2, visited)
}

func TestFetchAllPages(t *testing.T) {
	fetch := makePageFetcher(threePages())

	ctx := context.Background()

	resources, err := vra.FetchAllPages(ctx, fetch, nil)
	require.NoError(t, err)
	assert.Len(t, resources, 5)
	assert.Equal(t, "1", resources[0].ID)
	assert.Equal(t, "5", resources[4].ID)
}

func TestFetchAllPages_EmptyCollection(t *testing.T) {
	calls := 0
	empty := makePageFetcher(map[int]*vra.Page[TestResource]{})

	fetch := func(ctx context.Context, params *vra.QueryParams) (*vra.Page[TestResource], error) {
		calls++

		return empty(ctx, params)
	}

	ctx := context.Background()

	resources, err := vra.FetchAllPages(ctx, fetch, nil)
	require.NoError(t, err)
	assert.Empty(t, resources)

	// Zero totalElements stops the walk after a single request
	assert.Equal(t, 1, calls)
}

func TestFetchAllPages_PreservesParams(t *testing.T) {
	var seenPages []int

	var seenFilters []string

	fetch := func(_ context.Context, params *vra.QueryParams) (*vra.Page[TestResource], error) {
		seenPages = append(seenPages, params.Page)
		seenFilters = append(seenFilters, params.Filter)

		return threePages()[params.Page], nil
	}

	params := vra.NewQueryParams().WithFilter("status eq 'ON'")

	ctx := context.Background()

	_, err := vra.FetchAllPages(ctx, fetch, params)
	require.NoError(t, err)

	// Every page fetch carries the filter; the caller's params are untouched
	assert.Equal(t, []int{1, 2, 3}, seenPages)
	assert.Equal(t, []string{"status eq 'ON'", "status eq 'ON'", "status eq 'ON'"}, seenFilters)
	assert.Equal(t, 0, params.Page)
}

func TestFetchAllPages_FetchError(t *testing.T) {
	errBoom := errors.New("boom")

	fetch := func(_ context.Context, params *vra.QueryParams) (*vra.Page[TestResource], error) {
		if params.Page == 2 {
			return nil, errBoom
		}

		return threePages()[params.Page], nil
	}

	ctx := context.Background()

	_, err := vra.FetchAllPages(ctx, fetch, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "fetching page 2")
}
