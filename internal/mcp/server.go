package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/askdocs/kbretrieve/internal/retriever"
)

const (
	// ServerName is the MCP server name
	ServerName = "kbretrieve"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Retriever is the slice of the retrieval core the server exposes over
// MCP tools.
type Retriever interface {
	Search(ctx context.Context, req retriever.SearchRequest) (*retriever.SearchResponse, error)
	DocumentCount() int
	Dimension() int
}

// Config carries the server's dependencies and serving policy.
type Config struct {
	Retriever Retriever

	// Provider and Model describe the embedding backend, reported by
	// the kb_status tool.
	Provider string
	Model    string

	// UseCache enables the retriever's query-result cache for tool
	// invocations.
	UseCache bool
	CacheTTL time.Duration

	Logger *zap.Logger
}

// Server wraps the MCP server with the retrieval dependencies.
type Server struct {
	mcp       *server.MCPServer
	retriever Retriever
	provider  string
	model     string
	useCache  bool
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewServer creates an MCP server serving the given retriever.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Retriever == nil {
		return nil, newMCPError(ErrorCodeInternalError, "retriever is required", nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		retriever: cfg.Retriever,
		provider:  cfg.Provider,
		model:     cfg.Model,
		useCache:  cfg.UseCache,
		cacheTTL:  cfg.CacheTTL,
		logger:    logger,
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeBaseTool(), s.handleSearchKnowledgeBase)
	s.mcp.AddTool(kbStatusTool(), s.handleKBStatus)
}
