package types

// ScoredDocument represents a single retrieval result with ranking
// information attached.
type ScoredDocument struct {
	Document

	// Rank is the position in the result set (1-based).
	Rank int

	// Distance is the squared L2 distance between the query vector
	// and the document vector. Smaller means more relevant.
	Distance float64

	// Fallback marks placeholder entries fabricated when the query
	// was blank or nothing relevant was found. Fallback entries carry
	// no meaningful Distance.
	Fallback bool
}

// Validate checks if the scored document is valid.
func (sd *ScoredDocument) Validate() error {
	if sd.Rank < 1 {
		return ErrInvalidRank
	}
	if !sd.Fallback && sd.Distance < 0 {
		return ErrInvalidDistance
	}
	return sd.Document.Validate()
}
