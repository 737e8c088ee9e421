package errors

import (
	"strings"
	"unicode"
)

// maxFilenameLength is the common filesystem limit for a single path element.
const maxFilenameLength = 255

// ValidateFilename validates an export label for use as a file name.
// Labels are derived from user-chosen group and layer names, so they can
// contain characters that would escape the output directory.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 bytes
//   - No null bytes or control characters
//   - No path separators (/ or \)
//   - Not "." or ".."
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidPath, "file name too long (max %d bytes): %q", maxFilenameLength, name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains control characters: %q", name)
		}
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators: %q", name)
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "file name cannot be %q", name)
	}

	return nil
}

// ValidateOneOf checks that value is one of the allowed values.
// The returned error uses code and lists the allowed values in order.
func ValidateOneOf(code Code, field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(code, "invalid %s: %q (must be one of: %s)", field, value, strings.Join(allowed, ", "))
}
