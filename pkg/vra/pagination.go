package vra

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/vra-client/internal/constants"
)

// PageFunc fetches a single page of a collection. Resource client List
// methods satisfy this signature, so they can be handed to the pagination
// helpers directly.
type PageFunc[T any] func(ctx context.Context, params *QueryParams) (*Page[T], error)

// FetchAllPages walks a collection from page 1 and returns the concatenated
// content in page order. Fetching stops once the just-fetched page index
// reaches metadata.totalPages, or immediately when the collection reports
// zero elements.
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T], params *QueryParams) ([]T, error) {
	pageParams := QueryParams{}
	if params != nil {
		pageParams = *params
	}

	var all []T

	for pageNum := 1; pageNum <= constants.MaxPages; pageNum++ {
		pageParams.Page = pageNum

		page, err := fetch(ctx, &pageParams)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNum, err)
		}

		all = append(all, page.Content...)

		if page.Metadata.TotalElements == 0 || pageNum == page.Metadata.TotalPages {
			break
		}
	}

	return all, nil
}

// PaginationIterator provides item-at-a-time iteration over a paginated
// collection, fetching pages lazily with the same stop rule as
// FetchAllPages.
type PaginationIterator[T any] struct {
	ctx      context.Context
	fetch    PageFunc[T]
	params   QueryParams
	current  *Page[T]
	index    int
	pageNum  int
	finished bool
	err      error
}

// NewPaginationIterator creates an iterator over a paginated collection.
func NewPaginationIterator[T any](ctx context.Context, fetch PageFunc[T], params *QueryParams) *PaginationIterator[T] {
	iter := &PaginationIterator[T]{
		ctx:   ctx,
		fetch: fetch,
	}
	if params != nil {
		iter.params = *params
	}

	return iter
}

// HasNext reports whether another item is available, fetching the next page
// when the current one is exhausted.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.err != nil {
		return false
	}

	if it.current != nil && it.index < len(it.current.Content) {
		return true
	}

	if it.finished {
		return false
	}

	it.pageNum++
	it.params.Page = it.pageNum

	page, err := it.fetch(it.ctx, &it.params)
	if err != nil {
		it.err = fmt.Errorf("fetching page %d: %w", it.pageNum, err)

		return false
	}

	it.current = page
	it.index = 0

	if page.Metadata.TotalElements == 0 || it.pageNum >= page.Metadata.TotalPages {
		it.finished = true
	}

	return it.index < len(page.Content)
}

// Next returns the next item. Calling Next when HasNext is false returns
// ErrNoMoreItems or the fetch error that stopped iteration.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.current.Content[it.index]
	it.index++

	return item, nil
}

// All drains the iterator and returns the remaining items.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	if it.err != nil {
		return items, it.err
	}

	return items, nil
}

// ForEach applies fn to every remaining item, stopping at the first error.
func (it *PaginationIterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return it.err
}
