package types

// Document is one unit of retrievable knowledge: a named text body
// loaded from the knowledge base at startup. Documents are immutable
// after the index is built.
type Document struct {
	// Name uniquely identifies the document (source filename).
	Name string

	// Content is the raw text body. Markup is left intact - the
	// retrieval layer treats it as opaque text for embedding.
	Content string
}

// Validate checks if the document is well formed.
func (d *Document) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if d.Content == "" {
		return ErrEmptyContent
	}
	return nil
}
