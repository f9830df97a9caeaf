package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds commit identifiers. Full SHA-256 object names are 64
// characters; anything far beyond that is not an identifier.
const maxIDLength = 256

// ValidateCommitID validates a commit identifier supplied by a history source.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No whitespace (the line format separates ids by spaces)
//   - No control characters
//   - No '#' (the line format separates ids from messages by '#')
//   - Maximum length of 256 characters
func ValidateCommitID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "commit id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "commit id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "commit id %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "commit id %q contains whitespace", id)
		}
	}

	if strings.Contains(id, "#") {
		return New(ErrCodeInvalidID, "commit id %q contains '#'", id)
	}

	return nil
}

// ValidateRefLabel validates a ref label (branch or tag decoration).
// Labels are free-form but must stay on one line.
func ValidateRefLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "ref label cannot be blank")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "ref label %q contains control characters", label)
		}
	}
	return nil
}
