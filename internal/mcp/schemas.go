package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/askdocs/kbretrieve/internal/retriever"
)

// searchKnowledgeBaseTool returns the tool definition for search_knowledge_base
func searchKnowledgeBaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_knowledge_base",
		Description: "Retrieve the knowledge base documents most relevant to a question",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The user's question. A blank query returns a single placeholder entry asking for a specific question.",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of documents to return",
					"default":     retriever.TopDocuments,
					"minimum":     1,
					"maximum":     retriever.DefaultSearchK,
				},
				"include_content": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include full document bodies in the response; otherwise names and distances only",
					"default":     true,
				},
			},
			Required: []string{"query"},
		},
	}
}

// kbStatusTool returns the tool definition for kb_status
func kbStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "kb_status",
		Description: "Report knowledge base index statistics and embedding backend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
