package supabase

import (
	"context"
	"net/http"
	"net/url"
)

// Filter is a single equality filter on a table column.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter, rendered as column=eq.value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.Column != "" {
		q.Set(f.Column, "eq."+f.Value)
	}
	return q
}

// preferRepresentation asks the table API to return the affected rows.
var preferRepresentation = map[string]string{"Prefer": "return=representation"}

// Select fetches all rows matching the filter and decodes them into out.
func (c *Client) Select(ctx context.Context, table string, filter Filter, out any) error {
	q := filter.query()
	q.Set("select", "*")
	return c.do(ctx, http.MethodGet, "/rest/v1/"+url.PathEscape(table), q, nil, nil, out)
}

// Insert adds one row and decodes the inserted rows into out.
func (c *Client) Insert(ctx context.Context, table string, row, out any) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/"+url.PathEscape(table), nil, preferRepresentation, row, out)
}

// Update overwrites the rows matching the filter and decodes them into out.
func (c *Client) Update(ctx context.Context, table string, filter Filter, row, out any) error {
	return c.do(ctx, http.MethodPatch, "/rest/v1/"+url.PathEscape(table), filter.query(), preferRepresentation, row, out)
}

// Delete removes the rows matching the filter and decodes them into out.
func (c *Client) Delete(ctx context.Context, table string, filter Filter, out any) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/"+url.PathEscape(table), filter.query(), preferRepresentation, nil, out)
}
