package pocketbase

import (
	"context"
	"net/http"
	"net/url"
)

const collectionsPath = "/api/collections"

func collectionPath(nameOrID string) string {
	return collectionsPath + "/" + url.PathEscape(nameOrID)
}

// ListCollections returns one page of collection definitions.
func (c *Client) ListCollections(ctx context.Context, opts ListOptions) (*CollectionList, error) {
	var result CollectionList
	if err := c.send(ctx, http.MethodGet, collectionsPath, listQuery(opts), nil, opts.Headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AllCollections pages through the collection definitions and returns
// every one as a single result with TotalPages fixed at 1.
func (c *Client) AllCollections(ctx context.Context, opts ListOptions) (*CollectionList, error) {
	var items []Collection

	page := 1
	for {
		pageOpts := opts
		pageOpts.Page = page
		pageOpts.PerPage = fullListPerPage

		res, err := c.ListCollections(ctx, pageOpts)
		if err != nil {
			return nil, err
		}
		items = append(items, res.Items...)

		if page >= res.TotalPages || len(res.Items) == 0 {
			break
		}
		page++
	}

	return &CollectionList{
		Page:       1,
		PerPage:    len(items),
		TotalItems: len(items),
		TotalPages: 1,
		Items:      items,
	}, nil
}

// GetCollection fetches one collection definition by name or id.
func (c *Client) GetCollection(ctx context.Context, nameOrID string, headers map[string]string) (*Collection, error) {
	var col Collection
	if err := c.send(ctx, http.MethodGet, collectionPath(nameOrID), nil, nil, headers, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// CreateCollection creates a collection definition.
func (c *Client) CreateCollection(ctx context.Context, col Collection, headers map[string]string) (*Collection, error) {
	var created Collection
	if err := c.send(ctx, http.MethodPost, collectionsPath, nil, col, headers, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCollection applies a partial update to a collection definition.
// The patch is an open map so that only the supplied keys change.
func (c *Client) UpdateCollection(ctx context.Context, nameOrID string, patch map[string]any, headers map[string]string) (*Collection, error) {
	var updated Collection
	if err := c.send(ctx, http.MethodPatch, collectionPath(nameOrID), nil, patch, headers, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCollection removes a collection definition.
func (c *Client) DeleteCollection(ctx context.Context, nameOrID string, headers map[string]string) error {
	return c.send(ctx, http.MethodDelete, collectionPath(nameOrID), nil, nil, headers, nil)
}
