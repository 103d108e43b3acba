// Package mcp exposes the knowledge base retriever over the Model
// Context Protocol.
//
// The package uses github.com/mark3labs/mcp-go for protocol handling and
// registers two tools:
//
//   - search_knowledge_base: embed a question and return the closest
//     documents, ranked by L2 distance. Blank queries and empty result
//     sets return the retriever's placeholder entry, never an error.
//   - kb_status: index statistics (document count, vector dimension) and
//     the embedding backend in use.
//
// The server speaks MCP over stdio, so all logging goes to stderr.
package mcp
