package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/cerebro/internal/assistant"
	"github.com/ziadkadry99/cerebro/internal/catalog"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the assistant to AI agents.
type Server struct {
	pipeline *assistant.Pipeline
	catalog  catalog.Reader
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. reader may be nil, which leaves
// search_catalog reporting that no catalog is available.
func NewServer(pipeline *assistant.Pipeline, reader catalog.Reader) *Server {
	s := &Server{
		pipeline: pipeline,
		catalog:  reader,
	}

	s.mcp = server.NewMCPServer(
		"mega-cerebro",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(classifyIntentTool, s.handleClassifyIntent)
	s.mcp.AddTool(askAssistantTool, s.handleAskAssistant)
	s.mcp.AddTool(searchCatalogTool, s.handleSearchCatalog)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
