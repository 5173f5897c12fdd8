package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/yassine-cc/pb-mcp/internal/auth"
	"github.com/yassine-cc/pb-mcp/internal/config"
	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/mcp"
	"github.com/yassine-cc/pb-mcp/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe loads configuration, wires the services and serves MCP on
// stdio until interrupted.
func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	// Logs go to stderr; stdout carries the JSON-RPC stream.
	logger := log.New(log.Config{Level: level})

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := session.NewStore(cfg.URL, cfg.AdminToken)
	authSvc, err := auth.NewService(auth.Config{
		Store:         store,
		Logger:        logger,
		AdminToken:    cfg.AdminToken,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	// Startup auto-authentication failing only delays login; the server
	// still starts and tools report the auth error when touched.
	if err := authSvc.Bootstrap(ctx); err != nil {
		logger.Warn("continuing without startup authentication", "error", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:         "pb-mcp",
		Version:      AppVersion,
		Store:        store,
		Auth:         authSvc,
		Logger:       logger,
		OutputFormat: cfg.OutputFormat,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("MCP server ready",
		"version", AppVersion,
		"url", cfg.URL,
		"transport", "stdio")

	if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down")
	return nil
}
