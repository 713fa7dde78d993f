package errors

import (
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from external input.
const MaxNodeIDLength = 512

// ValidateNodeID validates a node identifier read from external input.
//
// The rules are deliberately small:
//   - No empty identifiers
//   - Maximum length of MaxNodeIDLength bytes
//   - No control characters or null bytes
//
// Identifiers are otherwise opaque: citation numbers, DOIs and free text are
// all accepted.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateStartNode validates the start node supplied by a caller.
// Unlike graph keys, a start node failing validation is an input error,
// not a malformed graph.
func ValidateStartNode(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "start node is required")
	}
	if err := ValidateNodeID(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid start node")
	}
	return nil
}
