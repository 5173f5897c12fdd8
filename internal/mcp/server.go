package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yassine-cc/pb-mcp/internal/auth"
	"github.com/yassine-cc/pb-mcp/internal/config"
	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/service"
	"github.com/yassine-cc/pb-mcp/internal/session"
)

// Server wraps the MCP SDK server and the PocketBase services behind
// the tool surface.
type Server struct {
	mcpServer *mcpsdk.Server

	store       *session.Store
	auth        *auth.Service
	collections *service.Collections
	records     *service.Records
	users       *service.Users
	files       *service.Files

	logger log.Logger
	format string
}

// Config holds the MCP server dependencies. Store and Auth are
// required; the resource services default to fresh instances when nil.
type Config struct {
	Name    string
	Version string

	Store *session.Store
	Auth  *auth.Service

	Collections *service.Collections
	Records     *service.Records
	Users       *service.Users
	Files       *service.Files

	Logger log.Logger

	// OutputFormat selects the tool result encoding, "json" or "yaml".
	OutputFormat string
}

// NewServer creates the MCP server and registers every tool.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.Collections == nil {
		cfg.Collections = service.NewCollections(logger)
	}
	if cfg.Records == nil {
		cfg.Records = service.NewRecords(logger)
	}
	if cfg.Users == nil {
		cfg.Users = service.NewUsers(logger)
	}
	if cfg.Files == nil {
		cfg.Files = service.NewFiles(logger)
	}
	format := cfg.OutputFormat
	if format == "" {
		format = config.FormatJSON
	}

	s := &Server{
		mcpServer: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		store:       cfg.Store,
		auth:        cfg.Auth,
		collections: cfg.Collections,
		records:     cfg.Records,
		users:       cfg.Users,
		files:       cfg.Files,
		logger:      logger,
		format:      format,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	return s, nil
}

// Run serves the MCP protocol on the given transport until the context
// is canceled or the transport closes. Blocking.
func (s *Server) Run(ctx context.Context, transport mcpsdk.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

func (s *Server) registerTools() error {
	for _, register := range []func() error{
		s.registerAuthTools,
		s.registerCollectionTools,
		s.registerRecordTools,
		s.registerUserTools,
		s.registerFileTools,
		s.registerRequestTools,
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
