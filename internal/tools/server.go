// Package tools registers the YouTrack operations as MCP tools and dispatches
// incoming calls. The registry is static: every tool is registered once at
// startup with a declared parameter schema and handler.
package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"youtrack-mcp/internal/api"
	"youtrack-mcp/internal/api/resources"
	"youtrack-mcp/internal/bridge"
	"youtrack-mcp/internal/config"
	"youtrack-mcp/internal/fields"
	"youtrack-mcp/internal/logging"
	"youtrack-mcp/internal/version"
)

type Server struct {
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	config     *config.Config
	executor   *bridge.Executor
	fieldCache *fields.Cache
	issues     *resources.IssuesClient
	projects   *resources.ProjectsClient
	users      *resources.UsersClient
	search     *resources.SearchClient
}

func NewServer(cfg *config.Config) *Server {
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		version.GetVersionString(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	client := api.NewClient(cfg)
	projects := resources.NewProjectsClient(client)
	fieldCache := fields.NewCache(projects.FieldSchemas)

	s := &Server{
		mcpServer:  mcpServer,
		config:     cfg,
		executor:   bridge.NewExecutor(cfg.MaxConcurrent),
		fieldCache: fieldCache,
		issues:     resources.NewIssuesClient(client, fieldCache),
		projects:   projects,
		users:      resources.NewUsersClient(client),
		search:     resources.NewSearchClient(client),
	}

	s.setupIssueTools()
	s.setupProjectTools()
	s.setupSearchTools()
	s.setupUserTools()
	s.setupGuideTools()

	logging.Info("registered YouTrack tools for %s", cfg.BaseURL)
	return s
}

// ServeStdio serves MCP over stdin/stdout and blocks until the transport
// closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	logging.Info("starting MCP server using stdio transport")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// ServeHTTP serves MCP over streamable HTTP on the given port.
func (s *Server) ServeHTTP(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting MCP server using streamable HTTP transport on %s", addr)

	s.httpServer = server.NewStreamableHTTPServer(s.mcpServer)
	if err := s.httpServer.Start(addr); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// Shutdown stops the transports and drains the executor.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("MCP server shutting down")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logging.Error("HTTP server shutdown: %v", err)
		}
	}
	s.executor.Close()
	return nil
}
