package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AuthenticateAdminInput defines the authenticate_admin parameters.
type AuthenticateAdminInput struct {
	Email       string `json:"email" jsonschema:"Administrator email address"`
	Password    string `json:"password" jsonschema:"Administrator password"`
	BaseURL     string `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	SaveSession *bool  `json:"saveSession,omitempty" jsonschema:"Persist the token for later calls against this instance (default true)"`
}

// AuthenticateUserInput defines the authenticate_user parameters.
type AuthenticateUserInput struct {
	Email       string `json:"email" jsonschema:"User email address"`
	Password    string `json:"password" jsonschema:"User password"`
	Collection  string `json:"collection,omitempty" jsonschema:"Auth collection name, defaults to users"`
	BaseURL     string `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
	SaveSession *bool  `json:"saveSession,omitempty" jsonschema:"Persist the token for later calls against this instance (default true)"`
}

// InstanceInput names an instance and nothing else.
type InstanceInput struct {
	BaseURL string `json:"baseUrl,omitempty" jsonschema:"PocketBase instance URL, defaults to the configured instance"`
}

func (s *Server) registerAuthTools() error {
	adminSchema, err := jsonschema.For[AuthenticateAdminInput](nil)
	if err != nil {
		return fmt.Errorf("schema for authenticate_admin: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "authenticate_admin",
		Description: "Authenticate as a PocketBase administrator with email and password. By default the session is saved for subsequent calls.",
		InputSchema: adminSchema,
	}, s.AuthenticateAdmin)

	userSchema, err := jsonschema.For[AuthenticateUserInput](nil)
	if err != nil {
		return fmt.Errorf("schema for authenticate_user: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "authenticate_user",
		Description: "Authenticate as an application user against an auth collection (default users).",
		InputSchema: userSchema,
	}, s.AuthenticateUser)

	instanceSchema, err := jsonschema.For[InstanceInput](nil)
	if err != nil {
		return fmt.Errorf("schema for instance tools: %w", err)
	}
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "logout",
		Description: "Clear the saved session for a PocketBase instance. Idempotent.",
		InputSchema: instanceSchema,
	}, s.Logout)
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "check_auth_status",
		Description: "Report the authentication state of a PocketBase instance without making a network call.",
		InputSchema: instanceSchema,
	}, s.CheckAuthStatus)

	return nil
}

func saveSession(flag *bool) bool {
	return flag == nil || *flag
}

// AuthenticateAdmin handles the authenticate_admin tool call.
func (s *Server) AuthenticateAdmin(ctx context.Context, req *mcpsdk.CallToolRequest, in AuthenticateAdminInput) (*mcpsdk.CallToolResult, any, error) {
	sess, err := s.auth.AuthenticateAdmin(ctx, in.Email, in.Password, in.BaseURL, saveSession(in.SaveSession))
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{
		"message":      "Authenticated as administrator",
		"token":        sess.Token,
		"user":         sess.Identity,
		"sessionSaved": saveSession(in.SaveSession),
	})
}

// AuthenticateUser handles the authenticate_user tool call.
func (s *Server) AuthenticateUser(ctx context.Context, req *mcpsdk.CallToolRequest, in AuthenticateUserInput) (*mcpsdk.CallToolResult, any, error) {
	sess, err := s.auth.AuthenticateUser(ctx, in.Collection, in.Email, in.Password, in.BaseURL, saveSession(in.SaveSession))
	if err != nil {
		return s.fail(err)
	}
	return s.ok(map[string]any{
		"message":      "Authenticated as user",
		"token":        sess.Token,
		"user":         sess.Identity,
		"sessionSaved": saveSession(in.SaveSession),
	})
}

// Logout handles the logout tool call.
func (s *Server) Logout(ctx context.Context, req *mcpsdk.CallToolRequest, in InstanceInput) (*mcpsdk.CallToolResult, any, error) {
	was := s.auth.Logout(in.BaseURL)
	message := "No active session to clear"
	if was {
		message = "Session cleared"
	}
	return s.ok(map[string]any{
		"message":          message,
		"wasAuthenticated": was,
	})
}

// CheckAuthStatus handles the check_auth_status tool call.
func (s *Server) CheckAuthStatus(ctx context.Context, req *mcpsdk.CallToolRequest, in InstanceInput) (*mcpsdk.CallToolResult, any, error) {
	status := s.auth.CheckStatus(in.BaseURL)
	payload := map[string]any{
		"isAuthenticated": status.IsAuthenticated,
		"hasToken":        status.HasToken,
	}
	if status.Identity != nil {
		payload["user"] = status.Identity
	}
	return s.ok(payload)
}
