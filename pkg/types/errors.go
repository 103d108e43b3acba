package types

import "errors"

// Domain errors for type validation
var (
	ErrMissingName     = errors.New("document name is required")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrInvalidRank     = errors.New("rank must be >= 1")
	ErrInvalidDistance = errors.New("distance must be >= 0")
)
