package errors

import (
	"strings"
	"unicode"
)

// maxPageNameLength bounds the draw.io page tab name.
const maxPageNameLength = 256

// ValidatePageName validates the diagram page name.
//
// Validation rules:
//   - Name cannot be empty or whitespace only
//   - Maximum length of 256 characters
//   - No control characters (including newlines)
func ValidatePageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "page name cannot be empty")
	}

	if len(name) > maxPageNameLength {
		return New(ErrCodeInvalidInput, "page name too long (max %d characters)", maxPageNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "page name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates an input or output path argument.
// The reserved token "-" (standard input or output) is always valid.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}
	if path == "-" {
		return nil
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
