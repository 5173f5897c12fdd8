package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yassine-cc/pb-mcp/internal/pberr"
)

// SendCustomRequestInput defines the send_custom_request parameters.
type SendCustomRequestInput struct {
	Method      string            `json:"method" jsonschema:"HTTP method: GET, POST, PATCH, PUT or DELETE"`
	Endpoint    string            `json:"endpoint" jsonschema:"API path relative to the instance, e.g. /api/health"`
	Body        map[string]any    `json:"body,omitempty" jsonschema:"JSON request body"`
	QueryParams map[string]string `json:"queryParams,omitempty" jsonschema:"Query parameters appended to the endpoint"`
	Headers     map[string]string `json:"headers,omitempty" jsonschema:"Extra HTTP headers forwarded to the backend"`
	BaseURL     string            `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	AdminToken  string            `json:"adminToken,omitempty" jsonschema:"Token used for this call only, overrides any saved session"`
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

func (s *Server) registerRequestTools() error {
	schema, err := jsonschema.For[SendCustomRequestInput](nil)
	if err != nil {
		return fmt.Errorf("schema for send_custom_request: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "send_custom_request",
		Description: "Send a raw authenticated request to any PocketBase API endpoint. Escape hatch for operations without a dedicated tool.",
		InputSchema: schema,
	}, s.SendCustomRequest)
	return nil
}

// SendCustomRequest handles the send_custom_request tool call.
func (s *Server) SendCustomRequest(ctx context.Context, req *mcpsdk.CallToolRequest, in SendCustomRequestInput) (*mcpsdk.CallToolResult, any, error) {
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if !allowedMethods[method] {
		return s.fail(pberr.New(pberr.CodeValidationError,
			fmt.Sprintf("Method %q is not supported; use GET, POST, PATCH, PUT or DELETE", in.Method)))
	}
	endpoint := strings.TrimSpace(in.Endpoint)
	if endpoint == "" {
		return s.fail(pberr.New(pberr.CodeValidationError, "Endpoint is required"))
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	var query url.Values
	if len(in.QueryParams) > 0 {
		query = url.Values{}
		for k, v := range in.QueryParams {
			query.Set(k, v)
		}
	}

	var body any
	if in.Body != nil {
		body = in.Body
	}

	client := s.store.ClientFor(in.BaseURL, in.AdminToken)
	resp, err := client.Send(ctx, method, endpoint, body, query, in.Headers)
	if err != nil {
		return s.fail(err)
	}

	return s.ok(map[string]any{
		"method":     method,
		"endpoint":   endpoint,
		"statusCode": resp.StatusCode,
		"data":       resp.Data,
		"headers":    resp.Headers,
	})
}
