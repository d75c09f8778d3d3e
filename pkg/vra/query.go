package vra

import (
	"fmt"
	"net/url"
	"strconv"
)

// QueryParams represents query parameters for vRA API requests. Page and
// Limit drive the content/metadata envelope paging; Filter carries an OData
// $filter expression; Extra holds the endpoint-specific switches some
// services accept (role, expandGroups, serviceId, onBehalfOf, subtenantId,
// managedOnly, withExtendedData, withOperations).
type QueryParams struct {
	Page   int
	Limit  int
	Filter string
	Extra  map[string]string
}

// NewQueryParams creates a new QueryParams instance.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Extra: make(map[string]string),
	}
}

// WithPage sets the page number.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithFilter sets the OData $filter expression.
func (q *QueryParams) WithFilter(expression string) *QueryParams {
	q.Filter = expression

	return q
}

// WithParam sets an endpoint-specific query parameter.
func (q *QueryParams) WithParam(key, value string) *QueryParams {
	if q.Extra == nil {
		q.Extra = make(map[string]string)
	}

	q.Extra[key] = value

	return q
}

// ToValues converts QueryParams to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Filter != "" {
		values.Set("$filter", q.Filter)
	}

	for key, value := range q.Extra {
		values.Set(key, value)
	}

	return values
}

// FilterEq builds the OData equality expression the catalog and identity
// services expect, e.g. FilterEq("id", "abc") == `id eq 'abc'`.
func FilterEq(field, value string) string {
	return fmt.Sprintf("%s eq '%s'", field, value)
}
