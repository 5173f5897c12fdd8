package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
	"github.com/yassine-cc/pb-mcp/internal/service"
)

// GetFileURLInput defines the get_file_url parameters. The record can
// be supplied inline or fetched by collection and recordId; the file is
// named explicitly or picked from a field.
type GetFileURLInput struct {
	Collection string         `json:"collection,omitempty" jsonschema:"Collection name or id, used with recordId to fetch the record"`
	RecordID   string         `json:"recordId,omitempty" jsonschema:"Record id, used with collection to fetch the record"`
	Record     map[string]any `json:"record,omitempty" jsonschema:"Record supplied inline instead of collection and recordId"`
	Filename   string         `json:"filename,omitempty" jsonschema:"Stored filename; omit to use the first filename of field"`
	Field      string         `json:"field,omitempty" jsonschema:"Record field holding the filename when filename is omitted"`
	Thumb      string         `json:"thumb,omitempty" jsonschema:"Thumbnail size directive, e.g. 100x100"`
	WithToken  bool           `json:"withToken,omitempty" jsonschema:"Embed the active token as a query parameter for protected files"`
	BaseURL    string         `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string         `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
}

// ListFileFieldsInput defines the list_file_fields parameters.
type ListFileFieldsInput struct {
	Collection string         `json:"collection,omitempty" jsonschema:"Collection name or id, used with recordId to fetch the record"`
	RecordID   string         `json:"recordId,omitempty" jsonschema:"Record id, used with collection to fetch the record"`
	Record     map[string]any `json:"record,omitempty" jsonschema:"Record supplied inline instead of collection and recordId"`
	BaseURL    string         `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken string         `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
}

func (s *Server) registerFileTools() error {
	urlSchema, err := jsonschema.For[GetFileURLInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_file_url: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_file_url",
		Description: "Build the download URL for a file stored on a record, optionally with a thumbnail directive and an access token.",
		InputSchema: urlSchema,
	}, s.GetFileURL)

	fieldsSchema, err := jsonschema.For[ListFileFieldsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for list_file_fields: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_file_fields",
		Description: "Detect which fields of a record hold file references.",
		InputSchema: fieldsSchema,
	}, s.ListFileFields)

	return nil
}

// resolveRecord returns the inline record or fetches it by collection
// and id.
func (s *Server) resolveRecord(ctx context.Context, client *pocketbase.Client, inline map[string]any, collection, recordID string) (pocketbase.Record, error) {
	if inline != nil {
		return pocketbase.Record(inline), nil
	}
	if collection == "" || recordID == "" {
		return nil, pberr.New(pberr.CodeValidationError,
			"Either record or both collection and recordId are required")
	}
	return s.records.Get(ctx, client, collection, recordID, pocketbase.ListOptions{})
}

// GetFileURL handles the get_file_url tool call.
func (s *Server) GetFileURL(ctx context.Context, req *mcpsdk.CallToolRequest, in GetFileURLInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)

	rec, err := s.resolveRecord(ctx, client, in.Record, in.Collection, in.RecordID)
	if err != nil {
		return s.fail(err)
	}

	url, err := s.files.URL(client, service.FileURLRequest{
		Record:    rec,
		Filename:  in.Filename,
		Field:     in.Field,
		Thumb:     in.Thumb,
		WithToken: in.WithToken,
	})
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{"url": url})
}

// ListFileFields handles the list_file_fields tool call.
func (s *Server) ListFileFields(ctx context.Context, req *mcpsdk.CallToolRequest, in ListFileFieldsInput) (*mcpsdk.CallToolResult, any, error) {
	client := s.store.ClientFor(in.BaseURL, in.AdminToken)

	rec, err := s.resolveRecord(ctx, client, in.Record, in.Collection, in.RecordID)
	if err != nil {
		return s.fail(err)
	}

	fields := s.files.FileFields(rec)
	if fields == nil {
		fields = []string{}
	}
	return s.ok(map[string]any{"fields": fields})
}
