package mcp

import (
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/yassine-cc/pb-mcp/internal/config"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
)

// encode renders a tool payload in the configured output format. YAML
// encoding falls back to JSON on failure so a result is always
// produced.
func (s *Server) encode(v any) string {
	if s.format == config.FormatYAML {
		if out, err := yaml.Marshal(v); err == nil {
			return string(out)
		}
		s.logger.Warn("yaml encoding failed, falling back to json")
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Payloads are built from decoded JSON, so this is unreachable
		// in practice; surface it rather than hide it.
		return fmt.Sprintf(`{"success":false,"error":%q,"code":"UNKNOWN_ERROR"}`, err.Error())
	}
	return string(out)
}

// ok builds a successful tool result. The payload keys are merged into
// the success envelope.
func (s *Server) ok(payload map[string]any) (*mcpsdk.CallToolResult, any, error) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: s.encode(body)}},
	}, nil, nil
}

// fail normalizes err through the taxonomy and renders its envelope
// with IsError set. The error is never returned at the protocol level;
// callers always receive a structured envelope.
func (s *Server) fail(err error) (*mcpsdk.CallToolResult, any, error) {
	classified := pberr.Classify(err)
	s.logger.Debug("tool call failed", "code", classified.Code, "error", classified.Message)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: s.encode(classified.Envelope())}},
		IsError: true,
	}, nil, nil
}
