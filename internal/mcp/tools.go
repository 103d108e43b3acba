package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/askdocs/kbretrieve/internal/retriever"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeSearchFailed  = -32001 // Retrieval failed (embedding provider or index error)
)

// handleSearchKnowledgeBase handles the search_knowledge_base tool invocation
func (s *Server) handleSearchKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	// The query must be present; a blank value is legal and handled by
	// the retriever's fallback path rather than rejected here.
	query, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or not a string",
		})
	}

	limit := getIntDefault(args, "limit", retriever.TopDocuments)
	if limit < 1 || limit > retriever.DefaultSearchK {
		return nil, newMCPError(ErrorCodeInvalidParams,
			fmt.Sprintf("limit must be between 1 and %d", retriever.DefaultSearchK),
			map[string]interface{}{
				"param": "limit",
				"value": limit,
			})
	}
	includeContent := getBoolDefault(args, "include_content", true)

	resp, err := s.retriever.Search(ctx, retriever.SearchRequest{
		Query:    query,
		UseCache: s.useCache,
		CacheTTL: s.cacheTTL,
	})
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		return nil, newMCPError(ErrorCodeSearchFailed, "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := resp.Results
	if len(results) > limit {
		results = results[:limit]
	}

	items := make([]map[string]interface{}, len(results))
	for i, res := range results {
		item := map[string]interface{}{
			"rank":     res.Rank,
			"name":     res.Name,
			"fallback": res.Fallback,
		}
		if !res.Fallback {
			item["distance"] = res.Distance
		}
		if includeContent || res.Fallback {
			item["content"] = res.Content
		}
		items[i] = item
	}

	response := map[string]interface{}{
		"results":     items,
		"fallback":    resp.Fallback,
		"cache_hit":   resp.CacheHit,
		"duration_ms": resp.Duration.Milliseconds(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleKBStatus handles the kb_status tool invocation
func (s *Server) handleKBStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"documents": s.retriever.DocumentCount(),
		"dimension": s.retriever.Dimension(),
		"embedding": map[string]interface{}{
			"provider": s.provider,
			"model":    s.model,
		},
		"search_k":      retriever.DefaultSearchK,
		"top_documents": retriever.TopDocuments,
		"cache_enabled": s.useCache,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value.
// JSON numbers arrive as float64.
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	switch val := args[key].(type) {
	case float64:
		return int(val)
	case int:
		return val
	default:
		return defaultValue
	}
}
