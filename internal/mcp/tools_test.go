package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/kbretrieve/internal/retriever"
	"github.com/askdocs/kbretrieve/pkg/types"
)

// mockRetriever implements the Retriever interface for handler tests.
type mockRetriever struct {
	searchFunc func(ctx context.Context, req retriever.SearchRequest) (*retriever.SearchResponse, error)
	docs       int
	dim        int
}

func (m *mockRetriever) Search(ctx context.Context, req retriever.SearchRequest) (*retriever.SearchResponse, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, req)
	}
	return &retriever.SearchResponse{
		Results: []types.ScoredDocument{
			{Document: types.Document{Name: "a.html", Content: "body a"}, Rank: 1, Distance: 0.1},
			{Document: types.Document{Name: "b.html", Content: "body b"}, Rank: 2, Distance: 0.2},
			{Document: types.Document{Name: "c.html", Content: "body c"}, Rank: 3, Distance: 0.3},
			{Document: types.Document{Name: "d.html", Content: "body d"}, Rank: 4, Distance: 0.4},
		},
	}, nil
}

func (m *mockRetriever) DocumentCount() int { return m.docs }
func (m *mockRetriever) Dimension() int     { return m.dim }

func newTestServer(t *testing.T, ret Retriever) *Server {
	t.Helper()
	s, err := NewServer(Config{
		Retriever: ret,
		Provider:  "azure",
		Model:     "text-embedding-3-large-2",
	})
	require.NoError(t, err)
	return s
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultJSON decodes the text payload of a tool result.
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestHandleSearchKnowledgeBase(t *testing.T) {
	ctx := context.Background()

	t.Run("default limit trims to top documents", func(t *testing.T) {
		s := newTestServer(t, &mockRetriever{docs: 4, dim: 8})

		result, err := s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{
			"query": "what is covered?",
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		results := payload["results"].([]interface{})
		assert.Len(t, results, retriever.TopDocuments)

		first := results[0].(map[string]interface{})
		assert.Equal(t, "a.html", first["name"])
		assert.Equal(t, float64(1), first["rank"])
		assert.Equal(t, "body a", first["content"])
	})

	t.Run("explicit limit", func(t *testing.T) {
		s := newTestServer(t, &mockRetriever{docs: 4, dim: 8})

		result, err := s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{
			"query": "what is covered?",
			"limit": float64(4),
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		assert.Len(t, payload["results"].([]interface{}), 4)
	})

	t.Run("content can be omitted", func(t *testing.T) {
		s := newTestServer(t, &mockRetriever{docs: 4, dim: 8})

		result, err := s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{
			"query":           "what is covered?",
			"include_content": false,
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		first := payload["results"].([]interface{})[0].(map[string]interface{})
		assert.NotContains(t, first, "content")
		assert.Contains(t, first, "distance")
	})

	t.Run("missing query is invalid params", func(t *testing.T) {
		s := newTestServer(t, &mockRetriever{})

		_, err := s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("blank query flows to fallback", func(t *testing.T) {
		s := newTestServer(t, &mockRetriever{
			searchFunc: func(ctx context.Context, req retriever.SearchRequest) (*retriever.SearchResponse, error) {
				require.Equal(t, "", req.Query)
				return &retriever.SearchResponse{
					Results: []types.ScoredDocument{{
						Document: types.Document{Name: retriever.FallbackName, Content: retriever.FallbackNoQuestion},
						Rank:     1,
						Fallback: true,
					}},
					Fallback: true,
				}, nil
			},
		})

		result, err := s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{
			"query": "",
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		assert.Equal(t, true, payload["fallback"])
		results := payload["results"].([]interface{})
		require.Len(t, results, 1)
		first := results[0].(map[string]interface{})
		assert.Equal(t, retriever.FallbackName, first["name"])
		assert.Equal(t, retriever.FallbackNoQuestion, first["content"])
	})

	t.Run("limit out of range", func(t *testing.T) {
		s := newTestServer(t, &mockRetriever{})

		_, err := s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{
			"query": "q",
			"limit": float64(99),
		}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("retrieval failure surfaces as search error", func(t *testing.T) {
		s := newTestServer(t, &mockRetriever{
			searchFunc: func(ctx context.Context, req retriever.SearchRequest) (*retriever.SearchResponse, error) {
				return nil, errors.New("provider unavailable")
			},
		})

		_, err := s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{
			"query": "q",
		}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeSearchFailed, mcpErr.Code)
	})

	t.Run("cache policy forwarded", func(t *testing.T) {
		var gotReq retriever.SearchRequest
		ret := &mockRetriever{
			searchFunc: func(ctx context.Context, req retriever.SearchRequest) (*retriever.SearchResponse, error) {
				gotReq = req
				return &retriever.SearchResponse{Results: []types.ScoredDocument{{
					Document: types.Document{Name: "a.html", Content: "x"}, Rank: 1,
				}}}, nil
			},
		}
		s, err := NewServer(Config{
			Retriever: ret,
			UseCache:  true,
			CacheTTL:  5 * time.Minute,
		})
		require.NoError(t, err)

		_, err = s.handleSearchKnowledgeBase(ctx, callRequest("search_knowledge_base", map[string]interface{}{
			"query": "q",
		}))
		require.NoError(t, err)
		assert.True(t, gotReq.UseCache)
		assert.Equal(t, 5*time.Minute, gotReq.CacheTTL)
	})
}

func TestHandleKBStatus(t *testing.T) {
	s := newTestServer(t, &mockRetriever{docs: 12, dim: 3072})

	result, err := s.handleKBStatus(context.Background(), callRequest("kb_status", nil))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, float64(12), payload["documents"])
	assert.Equal(t, float64(3072), payload["dimension"])

	embedding := payload["embedding"].(map[string]interface{})
	assert.Equal(t, "azure", embedding["provider"])
	assert.Equal(t, "text-embedding-3-large-2", embedding["model"])
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
}
