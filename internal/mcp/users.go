package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
	"github.com/yassine-cc/pb-mcp/internal/service"
)

// ListUsersInput defines the list_users parameters.
type ListUsersInput struct {
	Collection string            `json:"collection,omitempty" jsonschema:"Auth collection name, defaults to users"`
	Filter     string            `json:"filter,omitempty" jsonschema:"PocketBase filter expression"`
	Sort       string            `json:"sort,omitempty" jsonschema:"Sort expression, e.g. -created"`
	Page       int               `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PerPage    int               `json:"perPage,omitempty" jsonschema:"Page size (default 30)"`
	FullList   bool              `json:"fullList,omitempty" jsonschema:"Fetch every matching user, ignoring paging"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// GetUserInput defines the get_user parameters.
type GetUserInput struct {
	Collection string            `json:"collection,omitempty" jsonschema:"Auth collection name, defaults to users"`
	ID         string            `json:"id" jsonschema:"User record id"`
	Expand     string            `json:"expand,omitempty" jsonschema:"Comma-separated relations to expand"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// CreateUserInput defines the create_user parameters.
type CreateUserInput struct {
	Collection      string            `json:"collection,omitempty" jsonschema:"Auth collection name, defaults to users"`
	Email           string            `json:"email" jsonschema:"User email address"`
	Password        string            `json:"password" jsonschema:"User password"`
	PasswordConfirm string            `json:"passwordConfirm" jsonschema:"Password confirmation, must match password"`
	EmailVisibility bool              `json:"emailVisibility,omitempty" jsonschema:"Whether other users can see the email"`
	Verified        bool              `json:"verified,omitempty" jsonschema:"Mark the account as verified (requires administrator privileges)"`
	Name            string            `json:"name,omitempty" jsonschema:"Display name"`
	Extra           map[string]any    `json:"extra,omitempty" jsonschema:"Additional custom fields of the auth collection"`
	BaseURL         string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken      string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers         map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// UpdateUserInput defines the update_user parameters.
type UpdateUserInput struct {
	Collection string            `json:"collection,omitempty" jsonschema:"Auth collection name, defaults to users"`
	ID         string            `json:"id" jsonschema:"User record id"`
	Data       map[string]any    `json:"data" jsonschema:"Fields to change, passed through verbatim"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

// DeleteUserInput defines the delete_user parameters.
type DeleteUserInput struct {
	Collection string            `json:"collection,omitempty" jsonschema:"Auth collection name, defaults to users"`
	ID         string            `json:"id" jsonschema:"User record id"`
	BaseURL    string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
	Headers    map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
}

func (s *Server) registerUserTools() error {
	listSchema, err := jsonschema.For[ListUsersInput](nil)
	if err != nil {
		return fmt.Errorf("schema for list_users: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_users",
		Description: "List users of an auth collection (default users).",
		InputSchema: listSchema,
	}, s.ListUsers)

	getSchema, err := jsonschema.For[GetUserInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_user: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_user",
		Description: "Fetch one user by id.",
		InputSchema: getSchema,
	}, s.GetUser)

	createSchema, err := jsonschema.For[CreateUserInput](nil)
	if err != nil {
		return fmt.Errorf("schema for create_user: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_user",
		Description: "Create a user account in an auth collection with email and password.",
		InputSchema: createSchema,
	}, s.CreateUser)

	updateSchema, err := jsonschema.For[UpdateUserInput](nil)
	if err != nil {
		return fmt.Errorf("schema for update_user: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_user",
		Description: "Apply a partial update to a user account.",
		InputSchema: updateSchema,
	}, s.UpdateUser)

	deleteSchema, err := jsonschema.For[DeleteUserInput](nil)
	if err != nil {
		return fmt.Errorf("schema for delete_user: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_user",
		Description: "Delete a user account by id.",
		InputSchema: deleteSchema,
	}, s.DeleteUser)

	return nil
}

// ListUsers handles the list_users tool call.
func (s *Server) ListUsers(ctx context.Context, req *mcpsdk.CallToolRequest, in ListUsersInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	opts := pocketbase.ListOptions{
		Filter:  in.Filter,
		Sort:    in.Sort,
		Page:    in.Page,
		PerPage: in.PerPage,
		Headers: in.Headers,
	}

	var result *pocketbase.ListResult
	var err error
	if in.FullList {
		result, err = s.users.GetAll(ctx, client, in.Collection, opts)
	} else {
		result, err = s.users.List(ctx, client, in.Collection, opts)
	}
	if err != nil {
		return s.fail(err)
	}
	return s.ok(listResultPayload(result))
}

// GetUser handles the get_user tool call.
func (s *Server) GetUser(ctx context.Context, req *mcpsdk.CallToolRequest, in GetUserInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	rec, err := s.users.Get(ctx, client, in.Collection, in.ID, pocketbase.ListOptions{
		Expand:  in.Expand,
		Headers: in.Headers,
	})
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"user": rec})
}

// CreateUser handles the create_user tool call.
func (s *Server) CreateUser(ctx context.Context, req *mcpsdk.CallToolRequest, in CreateUserInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	rec, err := s.users.Create(ctx, client, in.Collection, service.NewUserData{
		Email:           in.Email,
		Password:        in.Password,
		PasswordConfirm: in.PasswordConfirm,
		EmailVisibility: in.EmailVisibility,
		Verified:        in.Verified,
		Name:            in.Name,
		Extra:           in.Extra,
	}, in.Headers)
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"user": rec})
}

// UpdateUser handles the update_user tool call.
func (s *Server) UpdateUser(ctx context.Context, req *mcpsdk.CallToolRequest, in UpdateUserInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	rec, err := s.users.Update(ctx, client, in.Collection, in.ID, in.Data, in.Headers)
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"user": rec})
}

// DeleteUser handles the delete_user tool call.
func (s *Server) DeleteUser(ctx context.Context, req *mcpsdk.CallToolRequest, in DeleteUserInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	if err := s.users.Delete(ctx, client, in.Collection, in.ID, in.Headers); err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"deleted": in.ID})
}
