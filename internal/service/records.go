package service

import (
	"context"

	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// Default paging applied when a list call does not specify its own.
const (
	defaultPage    = 1
	defaultPerPage = 30
)

// Records provides CRUD over the records of any collection. Data passes
// through to the backend verbatim; no client-side schema checks.
type Records struct {
	logger log.Logger
}

// NewRecords creates the record service.
func NewRecords(logger log.Logger) *Records {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Records{logger: logger}
}

func withPagingDefaults(opts pocketbase.ListOptions) pocketbase.ListOptions {
	if opts.Page <= 0 {
		opts.Page = defaultPage
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	return opts
}

// List returns one page of records with filter/sort/expand/fields
// passed through untouched.
func (s *Records) List(ctx context.Context, client *pocketbase.Client, collection string, opts pocketbase.ListOptions) (*pocketbase.ListResult, error) {
	result, err := client.ListRecords(ctx, collection, withPagingDefaults(opts))
	if err != nil {
		return nil, pberr.Classify(err)
	}
	return result, nil
}

// GetAll ignores paging and returns every matching record with
// totalPages fixed at 1.
func (s *Records) GetAll(ctx context.Context, client *pocketbase.Client, collection string, opts pocketbase.ListOptions) (*pocketbase.ListResult, error) {
	result, err := client.AllRecords(ctx, collection, opts)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	return result, nil
}

// Get fetches one record by id.
func (s *Records) Get(ctx context.Context, client *pocketbase.Client, collection, id string, opts pocketbase.ListOptions) (pocketbase.Record, error) {
	rec, err := client.GetRecord(ctx, collection, id, opts)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	return rec, nil
}

// Create inserts a record.
func (s *Records) Create(ctx context.Context, client *pocketbase.Client, collection string, data map[string]any, headers map[string]string) (pocketbase.Record, error) {
	rec, err := client.CreateRecord(ctx, collection, data, headers)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	s.logger.Debug("record created", "collection", collection, "id", rec.ID())
	return rec, nil
}

// Update applies a partial update to a record.
func (s *Records) Update(ctx context.Context, client *pocketbase.Client, collection, id string, data map[string]any, headers map[string]string) (pocketbase.Record, error) {
	rec, err := client.UpdateRecord(ctx, collection, id, data, headers)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	s.logger.Debug("record updated", "collection", collection, "id", id)
	return rec, nil
}

// Delete removes a record by id.
func (s *Records) Delete(ctx context.Context, client *pocketbase.Client, collection, id string, headers map[string]string) error {
	if err := client.DeleteRecord(ctx, collection, id, headers); err != nil {
		return pberr.Classify(err)
	}
	s.logger.Debug("record deleted", "collection", collection, "id", id)
	return nil
}
