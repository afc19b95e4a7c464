package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gimenezdev/rentalops/internal/model"
)

// ListRows fetches the rows of a resource collection (e.g. "properties",
// "reservations"), scoped to the organization.
func (c *Client) ListRows(
	ctx context.Context,
	resource string,
	limit int,
) ([]model.Row, error) {
	params := url.Values{}
	params.Set("org_id", c.orgID)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out struct {
		Data []model.Row `json:"data"`
	}
	path := "/" + resource + "?" + params.Encode()
	if err := c.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateField patches a single field of a record and returns the updated
// row as echoed by the server.
func (c *Client) UpdateField(
	ctx context.Context,
	resource string,
	id string,
	field string,
	value any,
) (model.Row, error) {
	params := url.Values{}
	params.Set("org_id", c.orgID)

	var row model.Row
	path := "/" + resource + "/" + url.PathEscape(id) + "?" + params.Encode()
	if err := c.Patch(ctx, path, map[string]any{field: value}, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// CreateRow inserts a record into a resource collection and returns the
// created row.
func (c *Client) CreateRow(
	ctx context.Context,
	resource string,
	fields map[string]any,
) (model.Row, error) {
	params := url.Values{}
	params.Set("org_id", c.orgID)

	var row model.Row
	path := "/" + resource + "?" + params.Encode()
	if err := c.Post(ctx, path, fields, &row); err != nil {
		return nil, err
	}
	return row, nil
}
