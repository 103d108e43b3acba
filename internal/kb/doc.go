// Package kb loads the knowledge base corpus from a directory of text
// documents.
//
// Each file with a recognized extension becomes one types.Document whose
// Name is the filename and whose Content is the full file body. Markup
// (the corpus ships as HTML) is preserved verbatim; the embedding layer
// treats it as opaque text.
//
// The corpus is loaded once at startup. A missing directory or a
// directory with no matching files is treated as a fatal
// misconfiguration rather than an empty-but-valid knowledge base.
package kb
