package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// ListCollectionsInput defines the list_collections parameters.
type ListCollectionsInput struct {
	Filter     string            `json:"filter,omitempty" jsonschema:"PocketBase filter expression"`
	Sort       string            `json:"sort,omitempty" jsonschema:"Sort expression, e.g. -created"`
	Page       int               `json:"page,omitempty" jsonschema:"1-based page number"`
	PerPage    int               `json:"perPage,omitempty" jsonschema:"Page size"`
	FullList   bool              `json:"fullList,omitempty" jsonschema:"Fetch every matching collection, ignoring paging"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// GetCollectionInput defines the get_collection parameters.
type GetCollectionInput struct {
	Collection string            `json:"collection" jsonschema:"Collection name or id"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// CollectionFieldInput is one schema field of a collection definition.
type CollectionFieldInput struct {
	Name     string         `json:"name" jsonschema:"Field name"`
	Type     string         `json:"type" jsonschema:"Field type, e.g. text, number, bool, relation"`
	Required bool           `json:"required,omitempty" jsonschema:"Whether the field is required"`
	Options  map[string]any `json:"options,omitempty" jsonschema:"Type-specific field options"`
}

// CreateCollectionInput defines the create_collection parameters.
type CreateCollectionInput struct {
	Name       string                 `json:"name" jsonschema:"Collection name"`
	Type       string                 `json:"type,omitempty" jsonschema:"Collection type: base, auth or view (default base)"`
	Fields     []CollectionFieldInput `json:"fields,omitempty" jsonschema:"Schema field definitions"`
	ListRule   *string                `json:"listRule,omitempty" jsonschema:"API list rule, empty string means public"`
	ViewRule   *string                `json:"viewRule,omitempty" jsonschema:"API view rule"`
	CreateRule *string                `json:"createRule,omitempty" jsonschema:"API create rule"`
	UpdateRule *string                `json:"updateRule,omitempty" jsonschema:"API update rule"`
	DeleteRule *string                `json:"deleteRule,omitempty" jsonschema:"API delete rule"`
	Options    map[string]any         `json:"options,omitempty" jsonschema:"Collection options, e.g. the query of a view collection"`
	BaseURL    string                 `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string                 `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string      `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// UpdateCollectionInput defines the update_collection parameters. Only
// the supplied keys are patched.
type UpdateCollectionInput struct {
	Collection string                 `json:"collection" jsonschema:"Collection name or id to update"`
	Name       string                 `json:"name,omitempty" jsonschema:"New collection name"`
	Type       string                 `json:"type,omitempty" jsonschema:"New collection type"`
	Fields     []CollectionFieldInput `json:"fields,omitempty" jsonschema:"Replacement schema field definitions"`
	ListRule   *string                `json:"listRule,omitempty" jsonschema:"API list rule"`
	ViewRule   *string                `json:"viewRule,omitempty" jsonschema:"API view rule"`
	CreateRule *string                `json:"createRule,omitempty" jsonschema:"API create rule"`
	UpdateRule *string                `json:"updateRule,omitempty" jsonschema:"API update rule"`
	DeleteRule *string                `json:"deleteRule,omitempty" jsonschema:"API delete rule"`
	Options    map[string]any         `json:"options,omitempty" jsonschema:"Collection options"`
	BaseURL    string                 `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string                 `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string      `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// DeleteCollectionInput defines the delete_collection parameters.
type DeleteCollectionInput struct {
	Collection string            `json:"collection" jsonschema:"Collection name or id to delete"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

func (s *Server) registerCollectionTools() error {
	listSchema, err := jsonschema.For[ListCollectionsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for list_collections: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_collections",
		Description: "List collection definitions with optional filter, sort and paging.",
		InputSchema: listSchema,
	}, s.ListCollections)

	getSchema, err := jsonschema.For[GetCollectionInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_collection: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_collection",
		Description: "Fetch one collection definition by name or id.",
		InputSchema: getSchema,
	}, s.GetCollection)

	createSchema, err := jsonschema.For[CreateCollectionInput](nil)
	if err != nil {
		return fmt.Errorf("schema for create_collection: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_collection",
		Description: "Create a collection. The definition is validated client-side and every violation is reported at once. Requires administrator privileges.",
		InputSchema: createSchema,
	}, s.CreateCollection)

	updateSchema, err := jsonschema.For[UpdateCollectionInput](nil)
	if err != nil {
		return fmt.Errorf("schema for update_collection: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_collection",
		Description: "Apply a partial update to a collection definition. Requires administrator privileges.",
		InputSchema: updateSchema,
	}, s.UpdateCollection)

	deleteSchema, err := jsonschema.For[DeleteCollectionInput](nil)
	if err != nil {
		return fmt.Errorf("schema for delete_collection: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_collection",
		Description: "Delete a collection and all of its records. Requires administrator privileges.",
		InputSchema: deleteSchema,
	}, s.DeleteCollection)

	return nil
}

func fieldDefs(fields []CollectionFieldInput) []pocketbase.Field {
	if fields == nil {
		return nil
	}
	defs := make([]pocketbase.Field, len(fields))
	for i, f := range fields {
		defs[i] = pocketbase.Field{
			Name:     f.Name,
			Type:     f.Type,
			Required: f.Required,
			Options:  f.Options,
		}
	}
	return defs
}

// ListCollections handles the list_collections tool call.
func (s *Server) ListCollections(ctx context.Context, req *mcpsdk.CallToolRequest, in ListCollectionsInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	opts := pocketbase.ListOptions{
		Filter:  in.Filter,
		Sort:    in.Sort,
		Page:    in.Page,
		PerPage: in.PerPage,
		Headers: in.Headers,
	}

	var list *pocketbase.CollectionList
	var err error
	if in.FullList {
		list, err = s.collections.GetAll(ctx, client, opts)
	} else {
		list, err = s.collections.List(ctx, client, opts)
	}
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{
		"page":       list.Page,
		"perPage":    list.PerPage,
		"totalItems": list.TotalItems,
		"totalPages": list.TotalPages,
		"items":      list.Items,
	})
}

// GetCollection handles the get_collection tool call.
func (s *Server) GetCollection(ctx context.Context, req *mcpsdk.CallToolRequest, in GetCollectionInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	col, err := s.collections.Get(ctx, client, in.Collection, in.Headers)
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"collection": col})
}

// CreateCollection handles the create_collection tool call.
func (s *Server) CreateCollection(ctx context.Context, req *mcpsdk.CallToolRequest, in CreateCollectionInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	colType := in.Type
	if colType == "" {
		colType = "base"
	}
	created, err := s.collections.Create(ctx, client, pocketbase.Collection{
		Name:       in.Name,
		Type:       colType,
		Fields:     fieldDefs(in.Fields),
		ListRule:   in.ListRule,
		ViewRule:   in.ViewRule,
		CreateRule: in.CreateRule,
		UpdateRule: in.UpdateRule,
		DeleteRule: in.DeleteRule,
		Options:    in.Options,
	}, in.Headers)
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"collection": created})
}

// UpdateCollection handles the update_collection tool call.
func (s *Server) UpdateCollection(ctx context.Context, req *mcpsdk.CallToolRequest, in UpdateCollectionInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	updated, err := s.collections.Update(ctx, client, in.Collection, pocketbase.Collection{
		Name:       in.Name,
		Type:       in.Type,
		Fields:     fieldDefs(in.Fields),
		ListRule:   in.ListRule,
		ViewRule:   in.ViewRule,
		CreateRule: in.CreateRule,
		UpdateRule: in.UpdateRule,
		DeleteRule: in.DeleteRule,
		Options:    in.Options,
	}, in.Headers)
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"collection": updated})
}

// DeleteCollection handles the delete_collection tool call.
func (s *Server) DeleteCollection(ctx context.Context, req *mcpsdk.CallToolRequest, in DeleteCollectionInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	if err := s.collections.Delete(ctx, client, in.Collection, in.Headers); err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"deleted": in.Collection})
}
