package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// ListRecordsInput defines the list_records parameters.
type ListRecordsInput struct {
	Collection string            `json:"collection" jsonschema:"Collection name or id"`
	Filter     string            `json:"filter,omitempty" jsonschema:"PocketBase filter expression, passed through verbatim"`
	Sort       string            `json:"sort,omitempty" jsonschema:"Sort expression, e.g. -created"`
	Page       int               `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PerPage    int               `json:"perPage,omitempty" jsonschema:"Page size (default 30)"`
	Expand     string            `json:"expand,omitempty" jsonschema:"Comma-separated relations to expand"`
	Fields     string            `json:"fields,omitempty" jsonschema:"Comma-separated fields to return"`
	FullList   bool              `json:"fullList,omitempty" jsonschema:"Fetch every matching record, ignoring paging"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// GetRecordInput defines the get_record parameters.
type GetRecordInput struct {
	Collection string            `json:"collection" jsonschema:"Collection name or id"`
	ID         string            `json:"id" jsonschema:"Record id"`
	Expand     string            `json:"expand,omitempty" jsonschema:"Comma-separated relations to expand"`
	Fields     string            `json:"fields,omitempty" jsonschema:"Comma-separated fields to return"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// CreateRecordInput defines the create_record parameters.
type CreateRecordInput struct {
	Collection string            `json:"collection" jsonschema:"Collection name or id"`
	Data       map[string]any    `json:"data" jsonschema:"Record fields, passed through verbatim"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// UpdateRecordInput defines the update_record parameters.
type UpdateRecordInput struct {
	Collection string            `json:"collection" jsonschema:"Collection name or id"`
	ID         string            `json:"id" jsonschema:"Record id"`
	Data       map[string]any    `json:"data" jsonschema:"Fields to change, passed through verbatim"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// DeleteRecordInput defines the delete_record parameters.
type DeleteRecordInput struct {
	Collection string            `json:"collection" jsonschema:"Collection name or id"`
	ID         string            `json:"id" jsonschema:"Record id"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

func (s *Server) registerRecordTools() error {
	listSchema, err := jsonschema.For[ListRecordsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for list_records: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_records",
		Description: "List records of a collection with filter, sort, paging, expand and field selection. Set fullList to fetch everything.",
		InputSchema: listSchema,
	}, s.ListRecords)

	getSchema, err := jsonschema.For[GetRecordInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_record: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_record",
		Description: "Fetch one record by id.",
		InputSchema: getSchema,
	}, s.GetRecord)

	createSchema, err := jsonschema.For[CreateRecordInput](nil)
	if err != nil {
		return fmt.Errorf("schema for create_record: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_record",
		Description: "Create a record. Data is passed to the backend verbatim; validation errors come back per field.",
		InputSchema: createSchema,
	}, s.CreateRecord)

	updateSchema, err := jsonschema.For[UpdateRecordInput](nil)
	if err != nil {
		return fmt.Errorf("schema for update_record: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_record",
		Description: "Apply a partial update to a record.",
		InputSchema: updateSchema,
	}, s.UpdateRecord)

	deleteSchema, err := jsonschema.For[DeleteRecordInput](nil)
	if err != nil {
		return fmt.Errorf("schema for delete_record: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_record",
		Description: "Delete a record by id.",
		InputSchema: deleteSchema,
	}, s.DeleteRecord)

	return nil
}

func listResultPayload(result *pocketbase.ListResult) map[string]any {
	return map[string]any{
		"page":       result.Page,
		"perPage":    result.PerPage,
		"totalItems": result.TotalItems,
		"totalPages": result.TotalPages,
		"items":      result.Items,
	}
}

// ListRecords handles the list_records tool call.
func (s *Server) ListRecords(ctx context.Context, req *mcpsdk.CallToolRequest, in ListRecordsInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	opts := pocketbase.ListOptions{
		Filter:  in.Filter,
		Sort:    in.Sort,
		Page:    in.Page,
		PerPage: in.PerPage,
		Expand:  in.Expand,
		Fields:  in.Fields,
		Headers: in.Headers,
	}

	var result *pocketbase.ListResult
	var err error
	if in.FullList {
		result, err = s.records.GetAll(ctx, client, in.Collection, opts)
	} else {
		result, err = s.records.List(ctx, client, in.Collection, opts)
	}
	if err != nil {
		return s.fail(err)
	}
	return s.ok(listResultPayload(result))
}

// GetRecord handles the get_record tool call.
func (s *Server) GetRecord(ctx context.Context, req *mcpsdk.CallToolRequest, in GetRecordInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	rec, err := s.records.Get(ctx, client, in.Collection, in.ID, pocketbase.ListOptions{
		Expand:  in.Expand,
		Fields:  in.Fields,
		Headers: in.Headers,
	})
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"record": rec})
}

// CreateRecord handles the create_record tool call.
func (s *Server) CreateRecord(ctx context.Context, req *mcpsdk.CallToolRequest, in CreateRecordInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	rec, err := s.records.Create(ctx, client, in.Collection, in.Data, in.Headers)
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"record": rec})
}

// UpdateRecord handles the update_record tool call.
func (s *Server) UpdateRecord(ctx context.Context, req *mcpsdk.CallToolRequest, in UpdateRecordInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	rec, err := s.records.Update(ctx, client, in.Collection, in.ID, in.Data, in.Headers)
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"record": rec})
}

// DeleteRecord handles the delete_record tool call.
func (s *Server) DeleteRecord(ctx context.Context, req *mcpsdk.CallToolRequest, in DeleteRecordInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	if err := s.records.Delete(ctx, client, in.Collection, in.ID, in.Headers); err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"deleted": in.ID})
}
