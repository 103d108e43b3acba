// Package types provides shared type definitions for the knowledge-base
// retrieval service.
//
// # Core Types
//
// Document represents one unit of retrievable knowledge, loaded from the
// knowledge base directory at startup:
//
//	doc := types.Document{
//	    Name:    "services_maccabi.html",
//	    Content: "<html>...</html>",
//	}
//
// ScoredDocument combines a document with its retrieval ranking:
//
//	result := types.ScoredDocument{
//	    Document: doc,
//	    Rank:     1,
//	    Distance: 0.42,
//	}
//
// Distances are squared L2 distances between the query embedding and the
// document embedding; lower values indicate better matches. Fallback
// entries (blank query, or no relevant match) carry Fallback == true and
// a synthetic name/content pair so that downstream prompt assembly always
// has at least one entry to work with.
package types
