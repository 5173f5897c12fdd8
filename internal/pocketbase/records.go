package pocketbase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// fullListPerPage is the batch size used by the full-list drains.
const fullListPerPage = 500

func recordsPath(collection string) string {
	return fmt.Sprintf("/api/collections/%s/records", url.PathEscape(collection))
}

func recordPath(collection, id string) string {
	return recordsPath(collection) + "/" + url.PathEscape(id)
}

// ListRecords returns one page of records from a collection.
func (c *Client) ListRecords(ctx context.Context, collection string, opts ListOptions) (*ListResult, error) {
	var result ListResult
	if err := c.send(ctx, http.MethodGet, recordsPath(collection), listQuery(opts), nil, opts.Headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AllRecords pages through the collection and returns every matching
// record as one result with TotalPages fixed at 1.
func (c *Client) AllRecords(ctx context.Context, collection string, opts ListOptions) (*ListResult, error) {
	var items []Record

	page := 1
	for {
		pageOpts := opts
		pageOpts.Page = page
		pageOpts.PerPage = fullListPerPage

		res, err := c.ListRecords(ctx, collection, pageOpts)
		if err != nil {
			return nil, err
		}
		items = append(items, res.Items...)

		if page >= res.TotalPages || len(res.Items) == 0 {
			break
		}
		page++
	}

	return &ListResult{
		Page:       1,
		PerPage:    len(items),
		TotalItems: len(items),
		TotalPages: 1,
		Items:      items,
	}, nil
}

// GetRecord fetches one record by id.
func (c *Client) GetRecord(ctx context.Context, collection, id string, opts ListOptions) (Record, error) {
	var rec Record
	q := url.Values{}
	if opts.Expand != "" {
		q.Set("expand", opts.Expand)
	}
	if opts.Fields != "" {
		q.Set("fields", opts.Fields)
	}
	if err := c.send(ctx, http.MethodGet, recordPath(collection, id), q, nil, opts.Headers, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateRecord creates a record; data passes through verbatim.
func (c *Client) CreateRecord(ctx context.Context, collection string, data map[string]any, headers map[string]string) (Record, error) {
	var rec Record
	if err := c.send(ctx, http.MethodPost, recordsPath(collection), nil, data, headers, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateRecord applies a partial update to a record.
func (c *Client) UpdateRecord(ctx context.Context, collection, id string, data map[string]any, headers map[string]string) (Record, error) {
	var rec Record
	if err := c.send(ctx, http.MethodPatch, recordPath(collection, id), nil, data, headers, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRecord removes a record by id.
func (c *Client) DeleteRecord(ctx context.Context, collection, id string, headers map[string]string) error {
	return c.send(ctx, http.MethodDelete, recordPath(collection, id), nil, nil, headers, nil)
}
